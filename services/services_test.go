package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"civicsync-be/logger"
	"civicsync-be/models"
	"civicsync-be/storage"
	"civicsync-be/store"
	"civicsync-be/store/sqlstore/sqlstoretest"
	"civicsync-be/utils"
)

var fixedNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	store     store.Store
	blobs     *storage.LocalStore
	issues    *IssueService
	votes     *VoteService
	listing   *ListingService
	analytics *AnalyticsService
	media     *MediaService
	maps      *MapService
	auth      *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := sqlstoretest.New(t)
	blobs, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	log := logger.Discard()
	clock := func() time.Time { return fixedNow }

	votes := NewVoteService(st, log)
	env := &testEnv{
		store:     st,
		blobs:     blobs,
		issues:    NewIssueService(st, blobs, log).WithClock(clock),
		votes:     votes,
		listing:   NewListingService(st, votes),
		analytics: NewAnalyticsService(st, time.UTC).WithClock(clock),
		media:     NewMediaService(st, blobs, log),
		maps:      NewMapService(st),
		auth:      NewAuthService(st, utils.NewTokenManager("test-secret", time.Hour), bcrypt.MinCost, log),
	}
	return env
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     name + "@example.com",
		Password:  "hashed",
		Role:      models.RoleUser,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	return u
}

func (e *testEnv) issue(t *testing.T, ownerID string, mutate func(*CreateIssueInput)) *models.Issue {
	t.Helper()
	input := CreateIssueInput{
		Title:       "Pothole on 5th Avenue",
		Description: "Large pothole causing traffic",
		Category:    models.CategoryRoad,
		LocationLat: 40.71,
		LocationLng: -74.0,
	}
	if mutate != nil {
		mutate(&input)
	}
	issue, err := e.issues.CreateIssue(context.Background(), input, ownerID)
	require.NoError(t, err)
	return issue
}

// insertIssue writes an issue directly, bypassing the service, so tests can
// control timestamps, status and vote counts.
func (e *testEnv) insertIssue(t *testing.T, issue *models.Issue) *models.Issue {
	t.Helper()
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	if issue.Title == "" {
		issue.Title = "Issue " + issue.ID[:8]
	}
	if issue.Description == "" {
		issue.Description = "description"
	}
	if issue.Category == "" {
		issue.Category = models.CategoryRoad
	}
	if issue.Status == "" {
		issue.Status = models.StatusPending
	}
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = fixedNow
	}
	issue.UpdatedAt = issue.CreatedAt
	require.NoError(t, e.store.Issues().Create(context.Background(), issue))
	return issue
}

func strPtr(s string) *string { return &s }
