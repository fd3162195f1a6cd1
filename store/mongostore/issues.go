package mongostore

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civicsync-be/models"
	"civicsync-be/store"
)

type issueRepository struct {
	client *mongo.Client
	issues *mongo.Collection
	votes  *mongo.Collection
	media  *mongo.Collection
}

func (r *issueRepository) Create(ctx context.Context, issue *models.Issue) error {
	if _, err := r.issues.InsertOne(ctx, issue); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *issueRepository) FindByID(ctx context.Context, id string) (*models.Issue, error) {
	var issue models.Issue
	if err := r.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue); err != nil {
		return nil, notFound(err)
	}
	return &issue, nil
}

func (r *issueRepository) UpdatePending(ctx context.Context, id string, patch models.IssuePatch, updatedAt time.Time) (*models.Issue, error) {
	set := bson.M{"updatedAt": updatedAt}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.LocationLat != nil {
		set["location_lat"] = *patch.LocationLat
	}
	if patch.LocationLng != nil {
		set["location_lng"] = *patch.LocationLng
	}
	if patch.LocationAddress != nil {
		set["location_address"] = *patch.LocationAddress
	}

	return r.conditionalUpdate(ctx, id, models.StatusPending, bson.M{"$set": set})
}

func (r *issueRepository) TransitionStatus(ctx context.Context, id string, from, to models.IssueStatus, updatedAt time.Time) (*models.Issue, error) {
	return r.conditionalUpdate(ctx, id, from, bson.M{"$set": bson.M{"status": to, "updatedAt": updatedAt}})
}

func (r *issueRepository) conditionalUpdate(ctx context.Context, id string, status models.IssueStatus, update bson.M) (*models.Issue, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Issue
	err := r.issues.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": status}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, r.requireStatus(ctx, id, status)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// requireStatus explains why a conditional write matched nothing. It never
// returns nil.
func (r *issueRepository) requireStatus(ctx context.Context, id string, status models.IssueStatus) error {
	var current models.Issue
	opts := options.FindOne().SetProjection(bson.M{"status": 1})
	if err := r.issues.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&current); err != nil {
		return notFound(err)
	}
	return store.ErrStateChanged
}

func (r *issueRepository) DeletePending(ctx context.Context, id string) ([]models.Media, error) {
	var removed []models.Media
	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		removed = nil
		res, err := r.issues.DeleteOne(sc, bson.M{"_id": id, "status": models.StatusPending})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return r.requireStatus(sc, id, models.StatusPending)
		}

		cursor, err := r.media.Find(sc, bson.M{"issue_id": id})
		if err != nil {
			return err
		}
		if err := cursor.All(sc, &removed); err != nil {
			return err
		}
		if _, err := r.media.DeleteMany(sc, bson.M{"issue_id": id}); err != nil {
			return err
		}
		_, err = r.votes.DeleteMany(sc, bson.M{"issue_id": id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *issueRepository) List(ctx context.Context, filter store.IssueFilter, offset, limit int) ([]models.Issue, int64, error) {
	query := issueQuery(filter)

	total, err := r.issues.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(issueSort(filter.Sort)).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	issues, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

func (r *issueRepository) WithinBounds(ctx context.Context, bounds *store.Bounds) ([]models.Issue, error) {
	query := bson.M{}
	if bounds != nil {
		query["location_lat"] = bson.M{"$gte": bounds.South, "$lte": bounds.North}
		query["location_lng"] = bson.M{"$gte": bounds.West, "$lte": bounds.East}
	}
	return r.find(ctx, query, options.Find().SetSort(issueSort(store.SortNewest)))
}

func (r *issueRepository) CountByCategory(ctx context.Context) ([]store.CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.issues.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var counts []store.CategoryCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *issueRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.issues.CountDocuments(ctx, bson.M{
		"createdAt": bson.M{"$gte": from, "$lt": to},
	})
}

func (r *issueRepository) TopVoted(ctx context.Context, category models.IssueCategory, limit int) ([]models.Issue, error) {
	opts := options.Find().
		SetSort(issueSort(store.SortVotes)).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"category": category}, opts)
}

func (r *issueRepository) VotesByCategory(ctx context.Context) ([]store.CategoryVotes, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "total_votes", Value: bson.D{{Key: "$sum", Value: "$vote_count"}}},
			{Key: "total_issues", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.issues.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var totals []store.CategoryVotes
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *issueRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Issue, error) {
	cursor, err := r.issues.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func issueQuery(f store.IssueFilter) bson.M {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.UserID != "" {
		query["user_id"] = f.UserID
	}
	if f.Search != "" {
		query["title"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	return query
}

func issueSort(sort store.IssueSort) bson.D {
	order := bson.D{}
	if sort == store.SortVotes {
		order = append(order, bson.E{Key: "vote_count", Value: -1})
	}
	return append(order, bson.E{Key: "createdAt", Value: -1}, bson.E{Key: "_id", Value: 1})
}
