package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/example/roombook/internal/persistence"
)

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()

	store, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("missing keys report not found", func(t *testing.T) {
		store := newTestStore(t, filepath.Join(t.TempDir(), "roombook.db"))
		if _, err := store.Get(ctx, persistence.LedgerKey); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set overwrites and get returns the latest value", func(t *testing.T) {
		store := newTestStore(t, filepath.Join(t.TempDir(), "roombook.db"))
		if err := store.Set(ctx, persistence.SessionKey, []byte(`{"name":"Alice","rollNumber":"R1"}`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := store.Set(ctx, persistence.SessionKey, []byte(`{"name":"Bob","rollNumber":"R2"}`)); err != nil {
			t.Fatalf("second Set failed: %v", err)
		}

		got, err := store.Get(ctx, persistence.SessionKey)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != `{"name":"Bob","rollNumber":"R2"}` {
			t.Fatalf("unexpected value %s", got)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := newTestStore(t, filepath.Join(t.TempDir(), "roombook.db"))
		if err := store.Set(ctx, "k", []byte("v")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		for i := 0; i < 2; i++ {
			if err := store.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete #%d failed: %v", i+1, err)
			}
		}
		if _, err := store.Get(ctx, "k"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("empty keys are rejected", func(t *testing.T) {
		store := newTestStore(t, filepath.Join(t.TempDir(), "roombook.db"))
		if err := store.Set(ctx, " ", []byte("v")); !errors.Is(err, persistence.ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey, got %v", err)
		}
	})

	t.Run("values survive reopening the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "roombook.db")

		first, err := Open(Config{Path: path})
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if err := first.Migrate(ctx); err != nil {
			t.Fatalf("Migrate failed: %v", err)
		}
		if err := first.Set(ctx, persistence.LedgerKey, []byte(`[]`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := first.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		second := newTestStore(t, path)
		got, err := second.Get(ctx, persistence.LedgerKey)
		if err != nil {
			t.Fatalf("Get after reopen failed: %v", err)
		}
		if string(got) != `[]` {
			t.Fatalf("unexpected value after reopen: %s", got)
		}
	})
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}
