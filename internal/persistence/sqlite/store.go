// Package sqlite implements the client storage on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/roombook/internal/persistence"
	"github.com/example/roombook/internal/persistence/sqlite/migration"
	"github.com/example/roombook/internal/persistence/sqlite/migrations"
)

// Config configures a Store.
type Config struct {
	Path        string
	BusyTimeout time.Duration
	JournalMode string
	Retry       *RetryConfig
	Logger      *slog.Logger
}

// Store implements persistence.Store on the client_storage table.
type Store struct {
	pool   *ConnectionPool
	retry  *RetryHelper
	now    func() time.Time
	logger *slog.Logger
}

var _ persistence.Store = (*Store)(nil)

// Open opens the database. Call Migrate before first use.
func Open(cfg Config) (*Store, error) {
	pool, err := NewConnectionPool(context.Background(), ConnectionConfig{
		Path:        cfg.Path,
		BusyTimeout: cfg.BusyTimeout,
		JournalMode: cfg.JournalMode,
	})
	if err != nil {
		return nil, err
	}

	retry := DefaultRetryConfig()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		pool:   pool,
		retry:  NewRetryHelper(retry),
		now:    time.Now,
		logger: logger.With("component", "sqlite_store"),
	}, nil
}

// Migrate applies the embedded schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	manager := migration.NewManager(
		migration.NewScanner(migrations.FS, "."),
		migration.NewSQLiteExecutor(s.pool.DB()),
		s.logger,
	)
	if err := manager.Run(ctx); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	key, err := persistence.NormalizeKey(key)
	if err != nil {
		return nil, err
	}

	var value []byte
	err = s.retry.WithRetry(ctx, func() error {
		return s.pool.DB().QueryRowContext(ctx,
			`SELECT value FROM client_storage WHERE key = ?`, key,
		).Scan(&value)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrNotFound
		}
		return nil, fmt.Errorf("sqlite: get %s: %w", key, err)
	}
	return value, nil
}

// Set replaces the value stored under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	key, err := persistence.NormalizeKey(key)
	if err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	const upsertSQL = `
		INSERT INTO client_storage (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	updatedAt := s.now().UTC().Format(time.RFC3339Nano)
	err = s.retry.WithRetry(ctx, func() error {
		_, execErr := s.pool.DB().ExecContext(ctx, upsertSQL, key, value, updatedAt)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("sqlite: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	key, err := persistence.NormalizeKey(key)
	if err != nil {
		return err
	}

	err = s.retry.WithRetry(ctx, func() error {
		_, execErr := s.pool.DB().ExecContext(ctx, `DELETE FROM client_storage WHERE key = ?`, key)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", key, err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.pool.Close()
}
