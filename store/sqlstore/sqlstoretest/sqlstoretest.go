// Package sqlstoretest opens throwaway in-memory SQLite stores for tests.
package sqlstoretest

import (
	"context"
	"testing"

	"civicsync-be/config"
	"civicsync-be/store/sqlstore"
)

// New returns a migrated in-memory store closed when the test ends.
func New(t testing.TB) *sqlstore.Store {
	t.Helper()

	s, err := sqlstore.Open(config.DatabaseConfig{Driver: "sqlite", URI: ":memory:"}, nil)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})
	return s
}
