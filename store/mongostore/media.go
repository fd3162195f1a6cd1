package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civicsync-be/models"
	"civicsync-be/store"
)

type mediaRepository struct {
	media *mongo.Collection
}

var mediaOrder = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	_, err := r.media.InsertOne(ctx, media)
	return err
}

func (r *mediaRepository) FindByID(ctx context.Context, id string) (*models.Media, error) {
	var media models.Media
	if err := r.media.FindOne(ctx, bson.M{"_id": id}).Decode(&media); err != nil {
		return nil, notFound(err)
	}
	return &media, nil
}

func (r *mediaRepository) ListByIssue(ctx context.Context, issueID string) ([]models.Media, error) {
	cursor, err := r.media.Find(ctx, bson.M{"issue_id": issueID}, options.Find().SetSort(mediaOrder))
	if err != nil {
		return nil, err
	}
	media := []models.Media{}
	if err := cursor.All(ctx, &media); err != nil {
		return nil, err
	}
	return media, nil
}

func (r *mediaRepository) ListByIssues(ctx context.Context, issueIDs []string) (map[string][]models.Media, error) {
	grouped := make(map[string][]models.Media, len(issueIDs))
	if len(issueIDs) == 0 {
		return grouped, nil
	}

	cursor, err := r.media.Find(ctx, bson.M{"issue_id": bson.M{"$in": issueIDs}}, options.Find().SetSort(mediaOrder))
	if err != nil {
		return nil, err
	}
	var media []models.Media
	if err := cursor.All(ctx, &media); err != nil {
		return nil, err
	}
	for _, m := range media {
		grouped[m.IssueID] = append(grouped[m.IssueID], m)
	}
	return grouped, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.media.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
