package middlewares

import (
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"

	"civicsync-be/apperrors"
	"civicsync-be/models"
	"civicsync-be/utils"
)

const (
	ResourceIssueStatus = "issue_status"
	ActionUpdate        = "update"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// defaultPolicies grants roles access to protected resources.
var defaultPolicies = [][]string{
	{string(models.RoleAdmin), ResourceIssueStatus, ActionUpdate},
}

// NewEnforcer builds an in-memory role enforcer with the default policies.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if _, err := e.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}
	return e, nil
}

// Authorize allows the request only if the caller's role may perform act on
// obj. It must run after RequireAuth.
func Authorize(e *casbin.Enforcer, obj, act string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		if role == "" {
			utils.ErrorResponse(c, apperrors.NewUnauthorizedError("Authentication required"))
			return
		}

		allowed, err := e.Enforce(string(role), obj, act)
		if err != nil {
			utils.ErrorResponse(c, fmt.Errorf("permission check failed: %w", err))
			return
		}
		if !allowed {
			log.WarnContext(c.Request.Context(), "permission denied",
				"user_id", CurrentUserID(c), "role", role, "resource", obj, "action", act)
			utils.ErrorResponse(c, apperrors.NewForbiddenError("Insufficient permissions"))
			return
		}

		c.Next()
	}
}
