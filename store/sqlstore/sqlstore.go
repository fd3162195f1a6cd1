// Package sqlstore implements the store contract on GORM for PostgreSQL,
// MySQL and SQLite.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"civicsync-be/config"
	"civicsync-be/models"
	"civicsync-be/store"
)

// Store is the GORM-backed store.
type Store struct {
	db     *gorm.DB
	issues *issueRepository
	votes  *voteRepository
	media  *mediaRepository
	users  *userRepository
}

var _ store.Store = (*Store)(nil)

// New wraps an open GORM handle.
func New(db *gorm.DB) *Store {
	return &Store{
		db:     db,
		issues: &issueRepository{db: db},
		votes:  &voteRepository{db: db},
		media:  &mediaRepository{db: db},
		users:  &userRepository{db: db},
	}
}

// Open connects to the configured SQL database.
func Open(cfg config.DatabaseConfig, log *slog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.URI)
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.URI,
			SkipInitializeWithVersion: true,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.URI)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// SQLite allows one writer; a single connection also keeps
		// in-memory databases alive for the life of the pool.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db), nil
}

func (s *Store) Issues() store.IssueRepository { return s.issues }
func (s *Store) Votes() store.VoteRepository   { return s.votes }
func (s *Store) Media() store.MediaRepository  { return s.media }
func (s *Store) Users() store.UserRepository   { return s.users }

// DB exposes the GORM handle for tests and tooling.
func (s *Store) DB() *gorm.DB { return s.db }

// Migrate creates or alters the tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Issue{},
		&models.Vote{},
		&models.Media{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

// gormWriter routes GORM's log lines into slog.
type gormWriter struct {
	log *slog.Logger
}

func newGormLogger(log *slog.Logger) gormlogger.Interface {
	if log == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(&gormWriter{log: log}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func (w *gormWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	switch {
	case strings.Contains(msg, "SLOW SQL"):
		w.log.Warn("slow query", "details", msg)
	case strings.Contains(msg, "Error"), strings.Contains(msg, "error"):
		w.log.Error("database error", "details", msg)
	default:
		w.log.Debug("database query", "details", msg)
	}
}
