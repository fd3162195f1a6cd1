package sqlstore

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"civicsync-be/models"
	"civicsync-be/store"
)

type issueRepository struct {
	db *gorm.DB
}

func (r *issueRepository) Create(ctx context.Context, issue *models.Issue) error {
	if err := r.db.WithContext(ctx).Create(issue).Error; err != nil {
		if isDuplicate(err) {
			return store.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *issueRepository) FindByID(ctx context.Context, id string) (*models.Issue, error) {
	var issue models.Issue
	if err := r.db.WithContext(ctx).First(&issue, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &issue, nil
}

func (r *issueRepository) UpdatePending(ctx context.Context, id string, patch models.IssuePatch, updatedAt time.Time) (*models.Issue, error) {
	updates := map[string]interface{}{"updated_at": updatedAt}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.LocationLat != nil {
		updates["location_lat"] = *patch.LocationLat
	}
	if patch.LocationLng != nil {
		updates["location_lng"] = *patch.LocationLng
	}
	if patch.LocationAddress != nil {
		updates["location_address"] = *patch.LocationAddress
	}

	var updated models.Issue
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Issue{}).
			Where("id = ? AND status = ?", id, models.StatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := requireStatus(tx, id, models.StatusPending); err != nil {
				return err
			}
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &updated, nil
}

func (r *issueRepository) DeletePending(ctx context.Context, id string) ([]models.Media, error) {
	var removed []models.Media
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Deleting the issue row first takes its row lock, so a concurrent
		// vote either commits before the cascade below or finds no issue.
		res := tx.Where("id = ? AND status = ?", id, models.StatusPending).Delete(&models.Issue{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := requireStatus(tx, id, models.StatusPending); err != nil {
				return err
			}
			return store.ErrStateChanged
		}

		if err := tx.Where("issue_id = ?", id).Find(&removed).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", id).Delete(&models.Media{}).Error; err != nil {
			return err
		}
		return tx.Where("issue_id = ?", id).Delete(&models.Vote{}).Error
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *issueRepository) TransitionStatus(ctx context.Context, id string, from, to models.IssueStatus, updatedAt time.Time) (*models.Issue, error) {
	var updated models.Issue
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Issue{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]interface{}{"status": to, "updated_at": updatedAt})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := requireStatus(tx, id, from); err != nil {
				return err
			}
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &updated, nil
}

// requireStatus distinguishes a missing issue from one in another status
// after a conditional write matched nothing.
func requireStatus(tx *gorm.DB, id string, status models.IssueStatus) error {
	var current models.Issue
	if err := tx.Select("id", "status").First(&current, "id = ?", id).Error; err != nil {
		return notFound(err)
	}
	if current.Status != status {
		return store.ErrStateChanged
	}
	return nil
}

func (r *issueRepository) List(ctx context.Context, filter store.IssueFilter, offset, limit int) ([]models.Issue, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Scopes(filterScope(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	issues := make([]models.Issue, 0, limit)
	if err := r.db.WithContext(ctx).
		Scopes(filterScope(filter), sortScope(filter.Sort)).
		Offset(offset).
		Limit(limit).
		Find(&issues).Error; err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

func (r *issueRepository) WithinBounds(ctx context.Context, bounds *store.Bounds) ([]models.Issue, error) {
	q := r.db.WithContext(ctx)
	if bounds != nil {
		q = q.Where("location_lat BETWEEN ? AND ?", bounds.South, bounds.North).
			Where("location_lng BETWEEN ? AND ?", bounds.West, bounds.East)
	}
	var issues []models.Issue
	if err := q.Scopes(sortScope(store.SortNewest)).Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

func (r *issueRepository) CountByCategory(ctx context.Context) ([]store.CategoryCount, error) {
	var counts []store.CategoryCount
	err := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *issueRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Count(&count).Error
	return count, err
}

func (r *issueRepository) TopVoted(ctx context.Context, category models.IssueCategory, limit int) ([]models.Issue, error) {
	var issues []models.Issue
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Scopes(sortScope(store.SortVotes)).
		Limit(limit).
		Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}

func (r *issueRepository) VotesByCategory(ctx context.Context) ([]store.CategoryVotes, error) {
	var totals []store.CategoryVotes
	err := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Select("category, COALESCE(SUM(vote_count), 0) AS total_votes, COUNT(*) AS total_issues").
		Group("category").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func filterScope(f store.IssueFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.UserID != "" {
			db = db.Where("user_id = ?", f.UserID)
		}
		if f.Search != "" {
			db = db.Where("LOWER(title) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(f.Search))+"%")
		}
		return db
	}
}

func sortScope(sort store.IssueSort) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if sort == store.SortVotes {
			db = db.Order("vote_count DESC")
		}
		return db.Order("created_at DESC").Order("id ASC")
	}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
