package routes

import (
	"github.com/gin-gonic/gin"
)

func AnalyticsRoutes(r gin.IRouter, d Deps) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/issues-by-category", d.AnalyticsController.IssuesByCategory)
		analytics.GET("/daily-submissions", d.AnalyticsController.DailySubmissions)
		analytics.GET("/most-voted-by-category", d.AnalyticsController.MostVotedByCategory)
	}
}
