package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/storefront/internal/application/session"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/response"
)

// ContextKeySession gin.Context里保存当前会话的键
const ContextKeySession = "session"

// Authenticator 校验Token并返回对应会话
// *storefront.Storefront实现了该接口
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Session, error)
}

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Bearer Token
// 2. 交给Authenticator校验(签名、过期、已注销、是否为当前会话)
// 3. 将会话注入Context
type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// bearerToken 解析 Authorization: Bearer <token>
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", apperrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", apperrors.ErrInvalidToken
	}
	return parts[1], nil
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := v1.Group("")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.GET("/session", sessionHandler.Current)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 提取Token
		token, err := bearerToken(c)
		if err != nil {
			response.Abort(c, err)
			return
		}

		// 2. 校验
		s, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Abort(c, err)
			return
		}

		// 3. 注入Context
		c.Set(ContextKeySession, s)
		c.Next()
	}
}

// RequireAdmin 要求管理员,必须挂在RequireAuth之后
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := GetSession(c)
		if !ok {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}
		if !s.User.IsAdmin() {
			response.Abort(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// GetSession 获取当前会话
func GetSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(ContextKeySession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok && s != nil
}

// MustGetSession 获取当前会话(仅用于RequireAuth之后的handler)
func MustGetSession(c *gin.Context) *session.Session {
	s, ok := GetSession(c)
	if !ok {
		panic("session not found in context, RequireAuth middleware missing")
	}
	return s
}
