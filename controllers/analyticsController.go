package controllers

import (
	"github.com/gin-gonic/gin"

	"civicsync-be/utils"
)

type AnalyticsController struct {
	analytics AnalyticsService
}

func NewAnalyticsController(analytics AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics}
}

type mostVotedQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (ctl *AnalyticsController) IssuesByCategory(c *gin.Context) {
	var q pageQuery
	if !bindQuery(c, &q) {
		return
	}

	breakdown, err := ctl.analytics.IssuesByCategory(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, breakdown)
}

func (ctl *AnalyticsController) DailySubmissions(c *gin.Context) {
	days, err := ctl.analytics.DailySubmissions(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, days)
}

func (ctl *AnalyticsController) MostVotedByCategory(c *gin.Context) {
	var q mostVotedQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := ctl.analytics.MostVotedByCategory(c.Request.Context(), q.Limit)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, result)
}
