package controllers

import (
	"github.com/gin-gonic/gin"

	"civicsync-be/services"
	"civicsync-be/utils"
)

type MapController struct {
	maps MapService
}

func NewMapController(maps MapService) *MapController {
	return &MapController{maps: maps}
}

// GetMapIssues returns markers, optionally limited to ?bounds=[s,w,n,e].
func (ctl *MapController) GetMapIssues(c *gin.Context) {
	bounds, err := services.ParseBounds(c.Query("bounds"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	markers, err := ctl.maps.Issues(c.Request.Context(), bounds)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, markers)
}

func (ctl *MapController) GetIssueDetails(c *gin.Context) {
	details, err := ctl.maps.IssueDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, details)
}
