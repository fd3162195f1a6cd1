package middlewares

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"civicsync-be/apperrors"
	"civicsync-be/models"
	"civicsync-be/utils"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// TokenVerifier decodes a bearer token into claims.
type TokenVerifier interface {
	Verify(token string) (*utils.Claims, error)
}

type AuthMiddleware struct {
	verifier   TokenVerifier
	cookieName string
	log        *slog.Logger
}

func NewAuthMiddleware(verifier TokenVerifier, cookieName string, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{verifier: verifier, cookieName: cookieName, log: log}
}

// RequireAuth rejects requests without a valid token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			utils.ErrorResponse(c, apperrors.NewUnauthorizedError("No authorization token provided"))
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.log.DebugContext(c.Request.Context(), "token validation failed", "error", err)
			utils.ErrorResponse(c, apperrors.NewUnauthorizedError("Invalid authorization token"))
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth records the caller's identity when a valid token is present
// and lets anonymous requests through.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := m.extractToken(c); token != "" {
			if claims, err := m.verifier.Verify(token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// extractToken prefers the Authorization header and falls back to the
// auth cookie.
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimSpace(header[len("Bearer "):])
		}
		return strings.TrimSpace(header)
	}
	if m.cookieName != "" {
		if token, err := c.Cookie(m.cookieName); err == nil {
			return token
		}
	}
	return ""
}

func setIdentity(c *gin.Context, claims *utils.Claims) {
	c.Set(ContextUserID, claims.ID)
	c.Set(ContextUserEmail, claims.Email)
	c.Set(ContextUserRole, claims.Role)
}

// CurrentUserID returns the authenticated user id, or "" for anonymous
// requests.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// CurrentRole returns the authenticated user's role.
func CurrentRole(c *gin.Context) models.UserRole {
	role, _ := c.Get(ContextUserRole)
	r, _ := role.(models.UserRole)
	return r
}
