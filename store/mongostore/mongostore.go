// Package mongostore implements the store contract on MongoDB. Writes that
// touch more than one collection run in a multi-document transaction, so the
// server must be a replica set or sharded cluster.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"civicsync-be/config"
	"civicsync-be/store"
)

const (
	issueCollection = "issues"
	voteCollection  = "votes"
	mediaCollection = "media"
	userCollection  = "users"
)

// Store is the MongoDB-backed store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	issues *issueRepository
	votes  *voteRepository
	media  *mediaRepository
	users  *userRepository
}

var _ store.Store = (*Store)(nil)

// New builds a store over the named database of a connected client.
func New(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	s := &Store{client: client, db: db}
	s.issues = &issueRepository{client: client, issues: db.Collection(issueCollection), votes: db.Collection(voteCollection), media: db.Collection(mediaCollection)}
	s.votes = &voteRepository{client: client, issues: db.Collection(issueCollection), votes: db.Collection(voteCollection)}
	s.media = &mediaRepository{media: db.Collection(mediaCollection)}
	s.users = &userRepository{users: db.Collection(userCollection)}
	return s
}

// Open connects to MongoDB with the configured URI and database name.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	client, err := config.ConnectMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(client, cfg.Name), nil
}

func (s *Store) Issues() store.IssueRepository { return s.issues }
func (s *Store) Votes() store.VoteRepository   { return s.votes }
func (s *Store) Media() store.MediaRepository  { return s.media }
func (s *Store) Users() store.UserRepository   { return s.users }

// Database exposes the underlying database for tests and tooling.
func (s *Store) Database() *mongo.Database { return s.db }

// Migrate creates the indexes the repositories rely on. The unique
// (issue_id, user_id) index on votes backs the one-vote-per-user rule.
func (s *Store) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		voteCollection: {
			{
				Keys:    bson.D{{Key: "issue_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("idx_votes_issue_user"),
			},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		issueCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}},
		},
		mediaCollection: {
			{Keys: bson.D{{Key: "issue_id", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		userCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// withTransaction runs fn in a transaction on a fresh session. Errors
// returned by fn abort the transaction and are passed through unchanged.
func withTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}
