// Package redis implements the client storage on a Redis server. Keys are
// namespaced under a prefix so several clients can share one server without
// seeing each other's state.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/example/roombook/internal/persistence"
)

// DefaultPrefix namespaces keys when no prefix is configured.
const DefaultPrefix = "roombook"

// Options configures Dial.
type Options struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
}

// Store implements persistence.Store on string keys.
type Store struct {
	client *goredis.Client
	prefix string
}

var _ persistence.Store = (*Store)(nil)

// New wraps an existing client.
func New(client *goredis.Client, prefix string) *Store {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Dial connects to the server and verifies it answers PING.
func Dial(ctx context.Context, opts Options) (*Store, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		addr = "localhost:6379"
	}
	timeout := opts.DialTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: timeout,
		MaxRetries:  1,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}

	return New(client, opts.Prefix), nil
}

func (s *Store) key(key string) string {
	return s.prefix + ":" + key
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	key, err := persistence.NormalizeKey(key)
	if err != nil {
		return nil, err
	}

	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return value, nil
}

// Set replaces the value stored under key. Values never expire.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	key, err := persistence.NormalizeKey(key)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	key, err := persistence.NormalizeKey(key)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis: delete %s: %w", key, err)
	}
	return nil
}

// Ping reports whether the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
