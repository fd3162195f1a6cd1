package routes

import (
	"github.com/gin-gonic/gin"
)

func MediaRoutes(r gin.IRouter, d Deps) {
	media := r.Group("/media")
	{
		media.POST("/issues/:issueId", d.Auth.RequireAuth(), d.MediaController.UploadMedia)
		media.GET("/issues/:issueId", d.MediaController.GetIssueMedia)
		media.DELETE("/:mediaId", d.Auth.RequireAuth(), d.MediaController.DeleteMedia)
	}
}
