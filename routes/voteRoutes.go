package routes

import (
	"github.com/gin-gonic/gin"
)

func VoteRoutes(r gin.IRouter, d Deps) {
	votes := r.Group("/votes/issues/:issueId")
	{
		votes.POST("", d.Auth.RequireAuth(), d.VoteController.Vote)
		votes.DELETE("", d.Auth.RequireAuth(), d.VoteController.Unvote)
		votes.GET("/count", d.VoteController.GetVoteCount)
		votes.GET("/check", d.Auth.RequireAuth(), d.VoteController.CheckUserVote)
	}
}
