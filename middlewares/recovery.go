package middlewares

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"civicsync-be/apperrors"
	"civicsync-be/utils"
)

// Recovery turns panics into a 500 error body and logs the stack.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.ErrorContext(c.Request.Context(), "panic recovered",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", recovered,
			"stack", string(debug.Stack()),
		)
		utils.ErrorResponse(c, apperrors.NewInternalError("Internal server error"))
	})
}

// SecurityHeaders sets conservative response headers on every request.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
