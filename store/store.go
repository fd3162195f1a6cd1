// Package store declares the persistence contract shared by the MongoDB and
// SQL implementations. Implementations return the sentinel errors below and
// never AppErrors; services translate them.
package store

import (
	"context"
	"errors"
	"time"

	"civicsync-be/models"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStateChanged is returned when a conditional write found the record
	// in a different status than required.
	ErrStateChanged = errors.New("record state changed")
)

// IssueSort selects the ordering of issue listings.
type IssueSort string

const (
	SortNewest IssueSort = "newest"
	SortVotes  IssueSort = "votes"
)

// IssueFilter is a conjunction of optional constraints. Zero values impose
// no constraint.
type IssueFilter struct {
	Category models.IssueCategory
	Status   models.IssueStatus
	Search   string
	UserID   string
	Sort     IssueSort
}

// Bounds is a latitude/longitude box, inclusive on every edge.
type Bounds struct {
	South float64
	West  float64
	North float64
	East  float64
}

// CategoryCount is the number of issues in one category.
type CategoryCount struct {
	Category models.IssueCategory `json:"category" bson:"_id"`
	Count    int64                `json:"count" bson:"count"`
}

// CategoryVotes aggregates vote counts per category.
type CategoryVotes struct {
	Category    models.IssueCategory `bson:"_id"`
	TotalVotes  int64                `bson:"total_votes"`
	TotalIssues int64                `bson:"total_issues"`
}

type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	FindByID(ctx context.Context, id string) (*models.Issue, error)
	// UpdatePending applies patch only while the issue is PENDING. It returns
	// ErrStateChanged when the issue exists in another status.
	UpdatePending(ctx context.Context, id string, patch models.IssuePatch, updatedAt time.Time) (*models.Issue, error)
	// DeletePending removes a PENDING issue together with its votes and media
	// in one unit of work and returns the removed media.
	DeletePending(ctx context.Context, id string) ([]models.Media, error)
	// TransitionStatus moves an issue from one status to another.
	TransitionStatus(ctx context.Context, id string, from, to models.IssueStatus, updatedAt time.Time) (*models.Issue, error)
	List(ctx context.Context, filter IssueFilter, offset, limit int) ([]models.Issue, int64, error)
	WithinBounds(ctx context.Context, bounds *Bounds) ([]models.Issue, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	TopVoted(ctx context.Context, category models.IssueCategory, limit int) ([]models.Issue, error)
	VotesByCategory(ctx context.Context) ([]CategoryVotes, error)
}

type VoteRepository interface {
	// Cast inserts the vote and increments the issue counter atomically.
	// ErrNotFound if the issue is missing, ErrDuplicate if the pair voted.
	Cast(ctx context.Context, vote *models.Vote) error
	// Retract deletes the vote and decrements the issue counter atomically.
	// ErrNotFound if there is no vote for the pair.
	Retract(ctx context.Context, issueID, userID string) error
	Exists(ctx context.Context, issueID, userID string) (bool, error)
	// VotedIssueIDs returns the subset of issueIDs userID has voted on.
	VotedIssueIDs(ctx context.Context, userID string, issueIDs []string) (map[string]bool, error)
	CountByIssue(ctx context.Context, issueID string) (int64, error)
}

type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	FindByID(ctx context.Context, id string) (*models.Media, error)
	ListByIssue(ctx context.Context, issueID string) ([]models.Media, error)
	ListByIssues(ctx context.Context, issueIDs []string) (map[string][]models.Media, error)
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

// Store bundles the repositories over one connection.
type Store interface {
	Issues() IssueRepository
	Votes() VoteRepository
	Media() MediaRepository
	Users() UserRepository
	// Migrate creates tables, collections and indexes.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
