// Package services holds the business rules of CivicSync. Services accept a
// store.Store and return apperrors for every failure a caller can act on.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"civicsync-be/apperrors"
	"civicsync-be/models"
	"civicsync-be/store"
)

const (
	msgIssueNotFound = "Issue not found"
	msgMediaNotFound = "Media not found"
	msgUserNotFound  = "User not found"
)

// Clock returns the current time. Services store UTC with millisecond
// precision so every backend round-trips timestamps unchanged.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// isOwner is the single ownership predicate for issue mutations and the
// media attached to an issue.
func isOwner(issue *models.Issue, callerID string) bool {
	return issue.OwnedBy(callerID)
}

// findIssue loads an issue and maps absence to NotFound.
func findIssue(ctx context.Context, st store.Store, id string) (*models.Issue, error) {
	issue, err := st.Issues().FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, msgIssueNotFound)
	}
	return issue, nil
}

// storeError translates repository sentinels. notFound is the message used
// for store.ErrNotFound; other sentinels map to fixed kinds.
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NewNotFoundError(notFound)
	case errors.Is(err, store.ErrStateChanged):
		return apperrors.NewInvalidStateError("Issue is no longer in PENDING state")
	default:
		return err
	}
}

func loggerOrDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

// buildViews joins issues with their owners and media. A non-nil voted map
// also sets has_voted on every view. It issues a fixed number of queries
// regardless of len(issues).
func buildViews(ctx context.Context, st store.Store, issues []models.Issue, voted map[string]bool) ([]models.IssueView, error) {
	views := make([]models.IssueView, len(issues))
	if len(issues) == 0 {
		return views, nil
	}

	issueIDs := make([]string, len(issues))
	ownerIDs := make([]string, 0, len(issues))
	seen := make(map[string]bool, len(issues))
	for i, issue := range issues {
		issueIDs[i] = issue.ID
		if !seen[issue.UserID] {
			seen[issue.UserID] = true
			ownerIDs = append(ownerIDs, issue.UserID)
		}
	}

	owners, err := st.Users().FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load issue owners: %w", err)
	}
	ownerByID := make(map[string]*models.UserSummary, len(owners))
	for i := range owners {
		ownerByID[owners[i].ID] = owners[i].Summary()
	}

	media, err := st.Media().ListByIssues(ctx, issueIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load issue media: %w", err)
	}

	for i, issue := range issues {
		views[i] = models.IssueView{
			Issue: issue,
			User:  ownerByID[issue.UserID],
			Media: mediaSummaries(media[issue.ID]),
		}
		if voted != nil {
			hasVoted := voted[issue.ID]
			views[i].HasVoted = &hasVoted
		}
	}
	return views, nil
}

func mediaSummaries(media []models.Media) []models.MediaSummary {
	out := make([]models.MediaSummary, len(media))
	for i, m := range media {
		out[i] = models.MediaSummary{ID: m.ID, FilePath: m.FilePath, FileType: m.FileType}
	}
	return out
}
