package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"civicsync-be/utils"
)

// RequestLogger logs one line per request at a level chosen by status and
// attaches log to the context for error responses.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		utils.SetLogger(c, log)

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
		}
		if requestID := c.GetHeader("X-Request-ID"); requestID != "" {
			args = append(args, "request_id", requestID)
		}
		if userID := CurrentUserID(c); userID != "" {
			args = append(args, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.Last().Error())
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			log.ErrorContext(ctx, "request completed with server error", args...)
		case status >= 400:
			log.WarnContext(ctx, "request completed with client error", args...)
		default:
			log.InfoContext(ctx, "request completed", args...)
		}
	}
}
