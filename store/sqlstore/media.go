package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"civicsync-be/models"
	"civicsync-be/store"
)

type mediaRepository struct {
	db *gorm.DB
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepository) FindByID(ctx context.Context, id string) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).First(&media, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &media, nil
}

func (r *mediaRepository) ListByIssue(ctx context.Context, issueID string) ([]models.Media, error) {
	media := []models.Media{}
	err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

func (r *mediaRepository) ListByIssues(ctx context.Context, issueIDs []string) (map[string][]models.Media, error) {
	grouped := make(map[string][]models.Media, len(issueIDs))
	if len(issueIDs) == 0 {
		return grouped, nil
	}

	var media []models.Media
	err := r.db.WithContext(ctx).
		Where("issue_id IN ?", issueIDs).
		Order("created_at ASC").
		Order("id ASC").
		Find(&media).Error
	if err != nil {
		return nil, err
	}
	for _, m := range media {
		grouped[m.IssueID] = append(grouped[m.IssueID], m)
	}
	return grouped, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Media{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
