package utils

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"civicsync-be/apperrors"
)

// ErrorBody is the uniform JSON error envelope.
type ErrorBody struct {
	Error *apperrors.AppError `json:"error"`
}

const loggerKey = "logger"

// SetLogger attaches the request logger used by ErrorResponse.
func SetLogger(c *gin.Context, log *slog.Logger) {
	c.Set(loggerKey, log)
}

// Logger returns the logger attached by SetLogger, or slog.Default when the
// request has none.
func Logger(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return slog.Default()
}

// ErrorResponse writes err as the uniform error envelope. Errors that are
// not AppErrors are logged and reported as a generic internal error so no
// internal detail leaks.
func ErrorResponse(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		Logger(c).ErrorContext(c.Request.Context(), "unhandled error",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		appErr = apperrors.NewInternalError("Internal server error")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Code, ErrorBody{Error: appErr})
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
