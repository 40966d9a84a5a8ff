// Package response 统一响应格式
//
// 与前端约定:HTTP状态码统一200,业务结果看body里的code(0为成功)。
package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// Response 响应体
type Response struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Kind    string         `json:"kind,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Data    interface{}    `json:"data,omitempty"`
}

// ListData 列表数据
type ListData struct {
	List  interface{} `json:"list"`
	Total int         `json:"total"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessList 列表响应
func SuccessList[T any](c *gin.Context, list []T) {
	if list == nil {
		list = []T{}
	}
	Success(c, ListData{List: list, Total: len(list)})
}

// Error 错误响应
// 内部错误(Err)只写日志,不返回给客户端
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	if appErr.Err != nil {
		slog.Default().Error("request failed",
			"path", c.FullPath(),
			"code", appErr.Code,
			"error", appErr.Err,
		)
	}

	c.JSON(http.StatusOK, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Kind:    string(appErr.Kind()),
		Details: appErr.Details,
	})
}

// Abort 错误响应并终止后续handler(中间件使用)
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
