package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"civicsync-be/apperrors"
	"civicsync-be/models"
	"civicsync-be/storage"
	"civicsync-be/store"
	"civicsync-be/utils"
)

// CreateIssueInput carries an already validated new issue.
type CreateIssueInput struct {
	Title           string
	Description     string
	Category        models.IssueCategory
	LocationLat     float64
	LocationLng     float64
	LocationAddress *string
}

// IssueService owns the issue lifecycle.
type IssueService struct {
	store     store.Store
	blobs     storage.BlobStore
	sanitizer *utils.Sanitizer
	log       *slog.Logger
	now       Clock
}

func NewIssueService(st store.Store, blobs storage.BlobStore, log *slog.Logger) *IssueService {
	return &IssueService{
		store:     st,
		blobs:     blobs,
		sanitizer: utils.NewSanitizer(),
		log:       loggerOrDefault(log),
		now:       systemClock,
	}
}

// WithClock replaces the time source.
func (s *IssueService) WithClock(now Clock) *IssueService {
	s.now = now
	return s
}

func (s *IssueService) CreateIssue(ctx context.Context, input CreateIssueInput, ownerID string) (*models.Issue, error) {
	title := s.sanitizer.Text(input.Title)
	description := s.sanitizer.Text(input.Description)
	address := s.sanitizer.TextPtr(input.LocationAddress)
	if err := requireText(
		textField{"title", &title},
		textField{"description", &description},
		textField{"location_address", address},
	); err != nil {
		return nil, err
	}

	now := s.now()
	issue := &models.Issue{
		ID:              uuid.NewString(),
		Title:           title,
		Description:     description,
		Category:        input.Category,
		Status:          models.StatusPending,
		LocationLat:     input.LocationLat,
		LocationLng:     input.LocationLng,
		LocationAddress: address,
		VoteCount:       0,
		UserID:          ownerID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Issues().Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	s.log.InfoContext(ctx, "issue created", "issue_id", issue.ID, "user_id", ownerID, "category", issue.Category)
	return issue, nil
}

// GetIssueByID returns the issue with its owner and media.
func (s *IssueService) GetIssueByID(ctx context.Context, id string) (*models.IssueView, error) {
	issue, err := findIssue(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	views, err := buildViews(ctx, s.store, []models.Issue{*issue}, nil)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

type textField struct {
	name  string
	value *string
}

// requireText rejects supplied fields that are empty once markup and
// surrounding whitespace are stripped. Nil fields were not supplied.
func requireText(fields ...textField) error {
	var errs []apperrors.FieldError
	for _, f := range fields {
		if f.value != nil && *f.value == "" {
			errs = append(errs, apperrors.FieldError{
				Field:   f.name,
				Message: f.name + " must contain text",
			})
		}
	}
	if len(errs) > 0 {
		return apperrors.NewValidationError("Validation failed", errs...)
	}
	return nil
}

// guardMutation applies the checks shared by update and delete. A
// non-PENDING issue is reported as InvalidState whoever the caller is.
func guardMutation(issue *models.Issue, callerID, action string) error {
	if !issue.Editable() {
		return apperrors.NewInvalidStateError(fmt.Sprintf("Can only %s issues in PENDING state", action))
	}
	if !isOwner(issue, callerID) {
		return apperrors.NewForbiddenError(fmt.Sprintf("Not authorized to %s this issue", action))
	}
	return nil
}

func (s *IssueService) UpdateIssue(ctx context.Context, id string, patch models.IssuePatch, callerID string) (*models.Issue, error) {
	patch.Title = s.sanitizer.TextPtr(patch.Title)
	patch.Description = s.sanitizer.TextPtr(patch.Description)
	patch.LocationAddress = s.sanitizer.TextPtr(patch.LocationAddress)
	if err := requireText(
		textField{"title", patch.Title},
		textField{"description", patch.Description},
		textField{"location_address", patch.LocationAddress},
	); err != nil {
		return nil, err
	}

	issue, err := findIssue(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if err := guardMutation(issue, callerID, "update"); err != nil {
		return nil, err
	}

	updated, err := s.store.Issues().UpdatePending(ctx, id, patch, s.now())
	if err != nil {
		return nil, storeError(err, msgIssueNotFound)
	}

	s.log.InfoContext(ctx, "issue updated", "issue_id", id, "user_id", callerID)
	return updated, nil
}

// DeleteIssue removes the issue with its votes and media rows in one unit of
// work, then removes the stored media blobs.
func (s *IssueService) DeleteIssue(ctx context.Context, id, callerID string) error {
	issue, err := findIssue(ctx, s.store, id)
	if err != nil {
		return err
	}
	if err := guardMutation(issue, callerID, "delete"); err != nil {
		return err
	}

	removed, err := s.store.Issues().DeletePending(ctx, id)
	if err != nil {
		return storeError(err, msgIssueNotFound)
	}

	for _, m := range removed {
		if err := s.blobs.Delete(ctx, m.StorageKey); err != nil {
			s.log.WarnContext(ctx, "failed to delete media blob", "media_id", m.ID, "key", m.StorageKey, "error", err)
		}
	}

	s.log.InfoContext(ctx, "issue deleted", "issue_id", id, "user_id", callerID, "media_removed", len(removed))
	return nil
}

// UpdateStatus advances an issue one step along PENDING, IN_PROGRESS,
// RESOLVED.
func (s *IssueService) UpdateStatus(ctx context.Context, id string, status models.IssueStatus) (*models.Issue, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("Validation failed", apperrors.FieldError{
			Field:   "status",
			Message: "status must be one of PENDING IN_PROGRESS RESOLVED",
		})
	}

	issue, err := findIssue(ctx, s.store, id)
	if err != nil {
		return nil, err
	}

	next, ok := issue.Status.Next()
	if !ok || next != status {
		return nil, apperrors.NewInvalidStateError(
			fmt.Sprintf("Cannot move issue from %s to %s", issue.Status, status))
	}

	updated, err := s.store.Issues().TransitionStatus(ctx, id, issue.Status, status, s.now())
	if err != nil {
		if errors.Is(err, store.ErrStateChanged) {
			return nil, apperrors.NewInvalidStateError("Issue status changed concurrently")
		}
		return nil, storeError(err, msgIssueNotFound)
	}

	s.log.InfoContext(ctx, "issue status changed", "issue_id", id, "from", issue.Status, "to", status)
	return updated, nil
}
