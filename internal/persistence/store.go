package persistence

import (
	"context"
	"strings"
)

// Well-known keys used by the application services.
const (
	SessionKey = "user"
	LedgerKey  = "bookings"
)

// Store is the durable client-local key-value storage that mirrors session and
// ledger state between process restarts. Values are opaque serialized blobs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// NormalizeKey trims the key and reports ErrInvalidKey when nothing remains.
func NormalizeKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", ErrInvalidKey
	}
	return trimmed, nil
}

// CloneBytes returns a copy of value so callers never share backing arrays with a store.
func CloneBytes(value []byte) []byte {
	if value == nil {
		return nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out
}
