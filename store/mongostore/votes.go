package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"civicsync-be/models"
	"civicsync-be/store"
)

type voteRepository struct {
	client *mongo.Client
	issues *mongo.Collection
	votes  *mongo.Collection
}

// Cast increments the counter before inserting the vote. A duplicate aborts
// the transaction, which undoes the increment.
func (r *voteRepository) Cast(ctx context.Context, vote *models.Vote) error {
	return withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		res, err := r.issues.UpdateOne(sc, bson.M{"_id": vote.IssueID}, bson.M{"$inc": bson.M{"vote_count": 1}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return store.ErrNotFound
		}

		if _, err := r.votes.InsertOne(sc, vote); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return store.ErrDuplicate
			}
			return err
		}
		return nil
	})
}

// decrementFloor lowers vote_count by one without going below zero.
var decrementFloor = mongo.Pipeline{
	{{Key: "$set", Value: bson.D{{Key: "vote_count", Value: bson.D{
		{Key: "$max", Value: bson.A{0, bson.D{{Key: "$subtract", Value: bson.A{"$vote_count", 1}}}}},
	}}}}},
}

func (r *voteRepository) Retract(ctx context.Context, issueID, userID string) error {
	return withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		if _, err := r.issues.UpdateOne(sc, bson.M{"_id": issueID}, decrementFloor); err != nil {
			return err
		}

		res, err := r.votes.DeleteOne(sc, bson.M{"issue_id": issueID, "user_id": userID})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (r *voteRepository) Exists(ctx context.Context, issueID, userID string) (bool, error) {
	count, err := r.votes.CountDocuments(ctx, bson.M{"issue_id": issueID, "user_id": userID})
	return count > 0, err
}

func (r *voteRepository) VotedIssueIDs(ctx context.Context, userID string, issueIDs []string) (map[string]bool, error) {
	voted := make(map[string]bool, len(issueIDs))
	if userID == "" || len(issueIDs) == 0 {
		return voted, nil
	}

	cursor, err := r.votes.Find(ctx, bson.M{"user_id": userID, "issue_id": bson.M{"$in": issueIDs}})
	if err != nil {
		return nil, err
	}
	var votes []models.Vote
	if err := cursor.All(ctx, &votes); err != nil {
		return nil, err
	}
	for _, v := range votes {
		voted[v.IssueID] = true
	}
	return voted, nil
}

func (r *voteRepository) CountByIssue(ctx context.Context, issueID string) (int64, error) {
	return r.votes.CountDocuments(ctx, bson.M{"issue_id": issueID})
}
