package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"civicsync-be/apperrors"
	"civicsync-be/models"
	"civicsync-be/store"
)

// VoteService keeps votes and the denormalized vote_count in step.
type VoteService struct {
	store store.Store
	log   *slog.Logger
	now   Clock
}

func NewVoteService(st store.Store, log *slog.Logger) *VoteService {
	return &VoteService{store: st, log: loggerOrDefault(log), now: systemClock}
}

// Vote records userID's vote on issueID and increments its vote_count in
// the same transaction.
func (s *VoteService) Vote(ctx context.Context, issueID, userID string) (*models.Vote, error) {
	vote := &models.Vote{
		ID:        uuid.NewString(),
		IssueID:   issueID,
		UserID:    userID,
		CreatedAt: s.now(),
	}

	err := s.store.Votes().Cast(ctx, vote)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		return nil, apperrors.NewNotFoundError(msgIssueNotFound)
	case errors.Is(err, store.ErrDuplicate):
		return nil, apperrors.NewConflictError("Already voted on this issue")
	default:
		return nil, fmt.Errorf("failed to cast vote: %w", err)
	}

	s.log.InfoContext(ctx, "vote cast", "issue_id", issueID, "user_id", userID)
	return vote, nil
}

// Unvote removes userID's vote on issueID and decrements its vote_count.
func (s *VoteService) Unvote(ctx context.Context, issueID, userID string) error {
	if _, err := findIssue(ctx, s.store, issueID); err != nil {
		return err
	}

	if err := s.store.Votes().Retract(ctx, issueID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NewNotFoundError("No vote found to remove")
		}
		return fmt.Errorf("failed to retract vote: %w", err)
	}

	s.log.InfoContext(ctx, "vote retracted", "issue_id", issueID, "user_id", userID)
	return nil
}

func (s *VoteService) GetVoteCount(ctx context.Context, issueID string) (int64, error) {
	issue, err := findIssue(ctx, s.store, issueID)
	if err != nil {
		return 0, err
	}
	return issue.VoteCount, nil
}

// HasVoted reports whether userID voted on issueID. A missing issue is
// NotFound rather than false.
func (s *VoteService) HasVoted(ctx context.Context, issueID, userID string) (bool, error) {
	if _, err := findIssue(ctx, s.store, issueID); err != nil {
		return false, err
	}
	voted, err := s.store.Votes().Exists(ctx, issueID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return voted, nil
}

// VotedIssues returns the subset of issueIDs userID has voted on.
func (s *VoteService) VotedIssues(ctx context.Context, userID string, issueIDs []string) (map[string]bool, error) {
	voted, err := s.store.Votes().VotedIssueIDs(ctx, userID, issueIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}
	return voted, nil
}
