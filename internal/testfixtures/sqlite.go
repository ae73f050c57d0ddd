package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/roombook/internal/persistence/sqlite"
)

// NewSQLiteStore opens a migrated client storage file in a temporary
// directory. The store is closed when the test finishes.
func NewSQLiteStore(tb testing.TB) *sqlite.Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "roombook.db")
	store, err := sqlite.Open(sqlite.Config{Path: path})
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	tb.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(context.Background()); err != nil {
		tb.Fatalf("failed to migrate storage: %v", err)
	}
	return store
}
