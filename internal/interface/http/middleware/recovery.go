package middleware

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/response"
)

// Recovery 捕获panic,记录日志后返回统一的内部错误
func Recovery(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					"path", c.Request.URL.Path,
					"panic", fmt.Sprint(r),
				)
				response.Abort(c, apperrors.ErrInternal)
			}
		}()
		c.Next()
	}
}
