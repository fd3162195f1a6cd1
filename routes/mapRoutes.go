package routes

import (
	"github.com/gin-gonic/gin"
)

func MapRoutes(r gin.IRouter, d Deps) {
	m := r.Group("/map")
	{
		m.GET("/issues", d.MapController.GetMapIssues)
		m.GET("/issues/:id", d.MapController.GetIssueDetails)
	}
}
