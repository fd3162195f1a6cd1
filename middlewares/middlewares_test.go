package middlewares

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsync-be/logger"
	"civicsync-be/models"
	"civicsync-be/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var tokens = utils.NewTokenManager("middleware-secret", time.Hour)

func tokenFor(t *testing.T, role models.UserRole) string {
	t.Helper()
	token, err := tokens.Generate(&models.User{ID: "user-1", Email: "u@example.com", Role: role})
	require.NoError(t, err)
	return token
}

func whoAmI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"id": CurrentUserID(c), "role": CurrentRole(c)})
}

func errorType(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Type
}

func TestRequireAuth(t *testing.T) {
	auth := NewAuthMiddleware(tokens, "auth_token", logger.Discard())
	r := gin.New()
	r.GET("/me", auth.RequireAuth(), whoAmI)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "unauthorized", errorType(t, w))
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleUser))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"user-1","role":"user"}`, w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: tokenFor(t, models.RoleAdmin)})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"user-1","role":"admin"}`, w.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	auth := NewAuthMiddleware(tokens, "auth_token", logger.Discard())
	r := gin.New()
	r.GET("/me", auth.OptionalAuth(), whoAmI)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"","role":""}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nonsense")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleUser))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"id":"user-1","role":"user"}`, w.Body.String())
}

func TestAuthorize(t *testing.T) {
	enforcer, err := NewEnforcer()
	require.NoError(t, err)
	auth := NewAuthMiddleware(tokens, "", logger.Discard())

	r := gin.New()
	r.PATCH("/admin", auth.RequireAuth(), Authorize(enforcer, ResourceIssueStatus, ActionUpdate, logger.Discard()), whoAmI)

	cases := []struct {
		role models.UserRole
		want int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleUser, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPatch, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, tc.role))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, string(tc.role))
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.Discard()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", errorType(t, w))
}

func TestRequestLogger_AttachesLoggerForErrors(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/fail", func(c *gin.Context) {
		utils.ErrorResponse(c, errors.New("store unreachable"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), `"msg":"unhandled error"`)
	assert.Contains(t, buf.String(), `"msg":"request completed with server error"`)
	assert.Contains(t, buf.String(), "store unreachable")
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIssueRateLimiter(t *testing.T) {
	client := newTestRedis(t)
	prefix := "test_issue_limit_" + uuid.NewString()
	limiter := NewIssueRateLimiter(client, prefix, 2, logger.Discard())
	t.Cleanup(func() { client.Del(context.Background(), limiter.key("user-1")) })

	auth := NewAuthMiddleware(tokens, "", logger.Discard())
	r := gin.New()
	r.POST("/issues", auth.RequireAuth(), limiter.Limit(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	token := tokenFor(t, models.RoleUser)
	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodPost, "/issues", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes[i] = w.Code
		if i == 2 {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	ttl, err := client.TTL(context.Background(), limiter.key("user-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 23*time.Hour)
}
