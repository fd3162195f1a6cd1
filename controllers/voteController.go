package controllers

import (
	"github.com/gin-gonic/gin"

	"civicsync-be/middlewares"
	"civicsync-be/utils"
)

type VoteController struct {
	votes VoteService
}

func NewVoteController(votes VoteService) *VoteController {
	return &VoteController{votes: votes}
}

func (ctl *VoteController) Vote(c *gin.Context) {
	vote, err := ctl.votes.Vote(c.Request.Context(), c.Param("issueId"), middlewares.CurrentUserID(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.Created(c, vote)
}

func (ctl *VoteController) Unvote(c *gin.Context) {
	if err := ctl.votes.Unvote(c.Request.Context(), c.Param("issueId"), middlewares.CurrentUserID(c)); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.NoContent(c)
}

func (ctl *VoteController) GetVoteCount(c *gin.Context) {
	count, err := ctl.votes.GetVoteCount(c.Request.Context(), c.Param("issueId"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, gin.H{"count": count})
}

func (ctl *VoteController) CheckUserVote(c *gin.Context) {
	voted, err := ctl.votes.HasVoted(c.Request.Context(), c.Param("issueId"), middlewares.CurrentUserID(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, gin.H{"hasVoted": voted})
}
