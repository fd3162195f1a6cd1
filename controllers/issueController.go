package controllers

import (
	"github.com/gin-gonic/gin"

	"civicsync-be/apperrors"
	"civicsync-be/middlewares"
	"civicsync-be/models"
	"civicsync-be/services"
	"civicsync-be/store"
	"civicsync-be/utils"
)

type IssueController struct {
	issues  IssueService
	listing ListingService
}

func NewIssueController(issues IssueService, listing ListingService) *IssueController {
	return &IssueController{issues: issues, listing: listing}
}

type createIssueRequest struct {
	Title           string   `json:"title" binding:"required,max=255"`
	Description     string   `json:"description" binding:"required,max=5000"`
	Category        string   `json:"category" binding:"required,oneof=ROAD WATER SANITATION ELECTRICITY OTHER"`
	LocationLat     *float64 `json:"location_lat" binding:"required,gte=-90,lte=90"`
	LocationLng     *float64 `json:"location_lng" binding:"required,gte=-180,lte=180"`
	LocationAddress string   `json:"location_address" binding:"required,max=255"`
}

type updateIssueRequest struct {
	Title           *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description     *string  `json:"description" binding:"omitempty,min=1,max=5000"`
	Category        *string  `json:"category" binding:"omitempty,oneof=ROAD WATER SANITATION ELECTRICITY OTHER"`
	LocationLat     *float64 `json:"location_lat" binding:"omitempty,gte=-90,lte=90"`
	LocationLng     *float64 `json:"location_lng" binding:"omitempty,gte=-180,lte=180"`
	LocationAddress *string  `json:"location_address" binding:"omitempty,min=1,max=255"`
	Status          *string  `json:"status"`
}

type listIssuesQuery struct {
	pageQuery
	Category string `form:"category" binding:"omitempty,oneof=ROAD WATER SANITATION ELECTRICITY OTHER"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS RESOLVED"`
	Search   string `form:"search" binding:"omitempty,max=200"`
	Sort     string `form:"sort" binding:"omitempty,oneof=newest votes"`
	UserID   string `form:"userId"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING IN_PROGRESS RESOLVED"`
}

// CreateIssue handles the creation of a new issue
func (ctl *IssueController) CreateIssue(c *gin.Context) {
	var req createIssueRequest
	if !bindJSON(c, &req) {
		return
	}

	address := req.LocationAddress
	issue, err := ctl.issues.CreateIssue(c.Request.Context(), services.CreateIssueInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        models.IssueCategory(req.Category),
		LocationLat:     *req.LocationLat,
		LocationLng:     *req.LocationLng,
		LocationAddress: &address,
	}, middlewares.CurrentUserID(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.Created(c, issue)
}

// GetIssues lists issues with filtering, search, sorting and pagination.
// Authenticated callers also get has_voted on every issue.
func (ctl *IssueController) GetIssues(c *gin.Context) {
	var q listIssuesQuery
	if !bindQuery(c, &q) {
		return
	}

	filter := store.IssueFilter{
		Category: models.IssueCategory(q.Category),
		Status:   models.IssueStatus(q.Status),
		Search:   q.Search,
		UserID:   q.UserID,
		Sort:     store.IssueSort(q.Sort),
	}
	list, err := ctl.listing.GetIssues(c.Request.Context(), filter, q.Page, q.Limit, middlewares.CurrentUserID(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, list)
}

// GetUserIssues lists the caller's own issues.
func (ctl *IssueController) GetUserIssues(c *gin.Context) {
	var q pageQuery
	if !bindQuery(c, &q) {
		return
	}

	list, err := ctl.listing.GetIssuesByUser(c.Request.Context(), middlewares.CurrentUserID(c), q.Page, q.Limit)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, list)
}

func (ctl *IssueController) GetIssue(c *gin.Context) {
	issue, err := ctl.issues.GetIssueByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, issue)
}

// UpdateIssue lets the owner edit a PENDING issue. Status changes go
// through the admin endpoint.
func (ctl *IssueController) UpdateIssue(c *gin.Context) {
	var req updateIssueRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Status != nil {
		utils.ErrorResponse(c, apperrors.NewValidationError("Validation failed", apperrors.FieldError{
			Field:   "status",
			Message: "status can only be changed by an administrator",
		}))
		return
	}

	patch := models.IssuePatch{
		Title:           req.Title,
		Description:     req.Description,
		LocationLat:     req.LocationLat,
		LocationLng:     req.LocationLng,
		LocationAddress: req.LocationAddress,
	}
	if req.Category != nil {
		category := models.IssueCategory(*req.Category)
		patch.Category = &category
	}

	issue, err := ctl.issues.UpdateIssue(c.Request.Context(), c.Param("id"), patch, middlewares.CurrentUserID(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, issue)
}

func (ctl *IssueController) DeleteIssue(c *gin.Context) {
	if err := ctl.issues.DeleteIssue(c.Request.Context(), c.Param("id"), middlewares.CurrentUserID(c)); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.NoContent(c)
}

// UpdateStatus advances an issue's status. Admin only.
func (ctl *IssueController) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	issue, err := ctl.issues.UpdateStatus(c.Request.Context(), c.Param("id"), models.IssueStatus(req.Status))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, issue)
}
