package routes

import (
	"github.com/gin-gonic/gin"

	"civicsync-be/middlewares"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r gin.IRouter, d Deps) {
	create := []gin.HandlerFunc{d.Auth.RequireAuth()}
	if d.RateLimit != nil {
		create = append(create, d.RateLimit.Limit())
	}
	create = append(create, d.IssueController.CreateIssue)

	issue := r.Group("/issues")
	{
		issue.POST("", create...)
		issue.GET("", d.Auth.OptionalAuth(), d.IssueController.GetIssues)
		// Registered before /:id so "user" is not taken as an id.
		issue.GET("/user", d.Auth.RequireAuth(), d.IssueController.GetUserIssues)
		issue.GET("/:id", d.IssueController.GetIssue)
		issue.PUT("/:id", d.Auth.RequireAuth(), d.IssueController.UpdateIssue)
		issue.DELETE("/:id", d.Auth.RequireAuth(), d.IssueController.DeleteIssue)
	}
}

// AdminRoutes sets up the routes gated by role policy
func AdminRoutes(r gin.IRouter, d Deps) {
	admin := r.Group("/admin", d.Auth.RequireAuth())
	{
		admin.PATCH("/issues/:id/status",
			middlewares.Authorize(d.Enforcer, middlewares.ResourceIssueStatus, middlewares.ActionUpdate, d.Log),
			d.IssueController.UpdateStatus,
		)
	}
}
