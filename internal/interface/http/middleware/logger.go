package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiebiao/storefront/pkg/tracing"
)

// HeaderRequestID 请求ID头
const HeaderRequestID = "X-Request-ID"

// Logger 请求日志中间件
// 1. 复用客户端传入的X-Request-ID,没有则生成UUID
// 2. 请求结束后记录状态码、耗时、trace_id
func Logger(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if traceID := tracing.TraceID(c.Request.Context()); traceID != "" {
			attrs = append(attrs, "trace_id", traceID)
		}
		if len(c.Errors) > 0 {
			log.Error("http request", append(attrs, "errors", c.Errors.String())...)
			return
		}
		log.Info("http request", attrs...)
	}
}
