package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"civicsync-be/models"
	"civicsync-be/store"
)

type voteRepository struct {
	db *gorm.DB
}

// Cast locks the issue row with the counter increment before touching the
// votes table. Retract uses the same order so the two never deadlock.
// Every error return, ErrDuplicate included, rolls the transaction back and
// with it the increment.
func (r *voteRepository) Cast(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Issue{}).
			Where("id = ?", vote.IssueID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}

		var existing int64
		if err := tx.Model(&models.Vote{}).
			Where("issue_id = ? AND user_id = ?", vote.IssueID, vote.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return store.ErrDuplicate
		}

		if err := tx.Create(vote).Error; err != nil {
			if isDuplicate(err) {
				return store.ErrDuplicate
			}
			return err
		}
		return nil
	})
}

func (r *voteRepository) Retract(ctx context.Context, issueID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Issue{}).
			Where("id = ?", issueID).
			UpdateColumn("vote_count", gorm.Expr("CASE WHEN vote_count > 0 THEN vote_count - 1 ELSE 0 END")).
			Error; err != nil {
			return err
		}

		res := tx.Where("issue_id = ? AND user_id = ?", issueID, userID).Delete(&models.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (r *voteRepository) Exists(ctx context.Context, issueID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("issue_id = ? AND user_id = ?", issueID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *voteRepository) VotedIssueIDs(ctx context.Context, userID string, issueIDs []string) (map[string]bool, error) {
	voted := make(map[string]bool, len(issueIDs))
	if userID == "" || len(issueIDs) == 0 {
		return voted, nil
	}

	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("user_id = ? AND issue_id IN ?", userID, issueIDs).
		Pluck("issue_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		voted[id] = true
	}
	return voted, nil
}

func (r *voteRepository) CountByIssue(ctx context.Context, issueID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("issue_id = ?", issueID).
		Count(&count).Error
	return count, err
}
