package utils

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsync-be/apperrors"
)

func TestErrorResponse_UsesRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(func(c *gin.Context) { SetLogger(c, log) })
	r.GET("/internal", func(c *gin.Context) {
		ErrorResponse(c, errors.New("disk on fire"))
	})
	r.GET("/missing", func(c *gin.Context) {
		ErrorResponse(c, apperrors.NewNotFoundError("Issue not found"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/internal", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":{"type":"internal_error","message":"Internal server error"}}`, w.Body.String())
	assert.Contains(t, buf.String(), "unhandled error")
	assert.Contains(t, buf.String(), "disk on fire")

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, buf.String())
}

func TestLogger_FallsBackToDefault(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Same(t, slog.Default(), Logger(c))

	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(c, log)
	assert.Same(t, log, Logger(c))
}
