package controllers

import (
	"context"

	"civicsync-be/models"
	"civicsync-be/services"
	"civicsync-be/store"
)

type IssueService interface {
	CreateIssue(ctx context.Context, input services.CreateIssueInput, ownerID string) (*models.Issue, error)
	GetIssueByID(ctx context.Context, id string) (*models.IssueView, error)
	UpdateIssue(ctx context.Context, id string, patch models.IssuePatch, callerID string) (*models.Issue, error)
	DeleteIssue(ctx context.Context, id, callerID string) error
	UpdateStatus(ctx context.Context, id string, status models.IssueStatus) (*models.Issue, error)
}

type ListingService interface {
	GetIssues(ctx context.Context, filter store.IssueFilter, page, limit int, viewerID string) (*services.IssueList, error)
	GetIssuesByUser(ctx context.Context, userID string, page, limit int) (*services.IssueList, error)
}

type VoteService interface {
	Vote(ctx context.Context, issueID, userID string) (*models.Vote, error)
	Unvote(ctx context.Context, issueID, userID string) error
	GetVoteCount(ctx context.Context, issueID string) (int64, error)
	HasVoted(ctx context.Context, issueID, userID string) (bool, error)
}

type MediaService interface {
	Upload(ctx context.Context, issueID, callerID string, file services.Upload) (*models.Media, error)
	Delete(ctx context.Context, mediaID, callerID string) error
	ListByIssue(ctx context.Context, issueID string) ([]models.Media, error)
}

type AnalyticsService interface {
	IssuesByCategory(ctx context.Context, page, limit int) (*services.CategoryBreakdown, error)
	DailySubmissions(ctx context.Context) ([]services.DailyCount, error)
	MostVotedByCategory(ctx context.Context, limit int) (*services.MostVoted, error)
}

type MapService interface {
	Issues(ctx context.Context, bounds *store.Bounds) ([]models.MapIssue, error)
	IssueDetails(ctx context.Context, id string) (*models.MapIssueDetails, error)
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}
