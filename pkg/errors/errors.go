package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息（与前端Toast文案保持一致）
// 3. Details携带结构化上下文（如删除分类时仍引用它的图书数量）
// 4. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// 说明：预定义错误经WithDetail/WithMessage派生后仍能被errors.Is识别
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// Kind 返回错误所属的分类
func (e *AppError) Kind() Kind {
	return KindOf(e.Code)
}

// WithDetail 返回附带一个上下文字段的副本（预定义错误是共享的，不能原地修改）
func (e *AppError) WithDetail(key string, value any) *AppError {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

// WithDescription 返回带有详细描述的副本
// 描述写入Details["description"]，Message保持不变以便errors.Is匹配
func (e *AppError) WithDescription(format string, args ...any) *AppError {
	return e.WithDetail("description", fmt.Sprintf(format, args...))
}

// Description 返回详细描述（没有则返回Message）
func (e *AppError) Description() string {
	if d, ok := e.Details["description"].(string); ok && d != "" {
		return d
	}
	return e.Message
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如存储错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（存储异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal     = 50000 // 内部错误
	ErrCodeStorageError = 50001 // 存储错误
	ErrCodeRedisError   = 50002 // Redis错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized       = 40100 // 未登录
	ErrCodeInvalidToken       = 40101 // Token无效
	ErrCodeTokenExpired       = 40102 // Token过期
	ErrCodeInvalidCredentials = 40103 // 邮箱或密码错误
	ErrCodeForbidden          = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound     = 40401 // 用户不存在
	ErrCodeBookNotFound     = 40402 // 图书不存在
	ErrCodeOrderNotFound    = 40403 // 订单不存在
	ErrCodeCartItemNotFound = 40404 // 购物车条目不存在
	ErrCodeCategoryNotFound = 40405 // 分类不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError      = 40000 // 业务错误(通用)
	ErrCodeOutOfStock         = 40001 // 缺货
	ErrCodeInvalidOrderStatus = 40002 // 订单状态非法
	ErrCodeEmailDuplicate     = 40003 // 邮箱已存在
	ErrCodeCategoryDuplicate  = 40004 // 分类已存在
	ErrCodeWeakPassword       = 40005 // 密码强度不足
	ErrCodeEmptyCart          = 40006 // 购物车为空
	ErrCodeDuplicateEntry     = 40009 // 重复记录(通用)
	ErrCodeConflict           = 40010 // 资源仍被引用
	ErrCodeCategoryInUse      = 40011 // 分类下仍有图书

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 错误分类
// =========================================

// Kind 错误分类
// 调用方只关心"是哪一类错误"，具体错误码留给客户端
type Kind string

const (
	KindInternal           Kind = "internal"
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindDuplicate          Kind = "duplicate"
	KindConflict           Kind = "conflict"
	KindAuthRequired       Kind = "auth_required"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindForbidden          Kind = "forbidden"
)

// KindOf 根据错误码推导分类
func KindOf(code int) Kind {
	switch code {
	case ErrCodeEmailDuplicate, ErrCodeCategoryDuplicate, ErrCodeDuplicateEntry:
		return KindDuplicate
	case ErrCodeConflict, ErrCodeCategoryInUse:
		return KindConflict
	case ErrCodeUnauthorized, ErrCodeInvalidToken, ErrCodeTokenExpired:
		return KindAuthRequired
	case ErrCodeInvalidCredentials:
		return KindInvalidCredentials
	case ErrCodeForbidden:
		return KindForbidden
	}

	switch {
	case code >= 40400 && code < 40500:
		return KindNotFound
	case code >= 40000 && code < 40100, code >= 40900 && code < 41000:
		return KindValidation
	default:
		return KindInternal
	}
}

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal     = New(ErrCodeInternal, "系统内部错误")
	ErrStorageError = New(ErrCodeStorageError, "存储错误")
	ErrRedisError   = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized       = New(ErrCodeUnauthorized, "Please log in")
	ErrInvalidToken       = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired       = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "Invalid email or password")
	ErrForbidden          = New(ErrCodeForbidden, "无权限访问")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// Is 判断错误是否属于指定分类
func Is(err error, kind Kind) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Kind() == kind
}

func IsValidation(err error) bool         { return Is(err, KindValidation) }
func IsNotFound(err error) bool           { return Is(err, KindNotFound) }
func IsDuplicate(err error) bool          { return Is(err, KindDuplicate) }
func IsConflict(err error) bool           { return Is(err, KindConflict) }
func IsAuthRequired(err error) bool       { return Is(err, KindAuthRequired) }
func IsInvalidCredentials(err error) bool { return Is(err, KindInvalidCredentials) }
