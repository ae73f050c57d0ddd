package redis

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/example/roombook/internal/persistence"
)

func TestKeysAreNamespaced(t *testing.T) {
	t.Parallel()

	client := goredis.NewClient(&goredis.Options{Addr: "localhost:0"})
	t.Cleanup(func() { _ = client.Close() })

	if got := New(client, "").key(persistence.LedgerKey); got != "roombook:bookings" {
		t.Fatalf("unexpected default namespaced key %q", got)
	}
	if got := New(client, " tab-2 ").key(persistence.SessionKey); got != "tab-2:user" {
		t.Fatalf("unexpected custom namespaced key %q", got)
	}
}

func TestInvalidKeysAreRejectedBeforeNetworkCalls(t *testing.T) {
	t.Parallel()

	client := goredis.NewClient(&goredis.Options{Addr: "localhost:0"})
	t.Cleanup(func() { _ = client.Close() })
	store := New(client, "")

	ctx := context.Background()
	if _, err := store.Get(ctx, ""); !errors.Is(err, persistence.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey from Get, got %v", err)
	}
	if err := store.Set(ctx, "  ", []byte("v")); !errors.Is(err, persistence.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey from Set, got %v", err)
	}
	if err := store.Delete(ctx, ""); !errors.Is(err, persistence.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey from Delete, got %v", err)
	}
}

func TestDialFailsWhenServerIsUnreachable(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()

	_, err = Dial(context.Background(), Options{Addr: addr, DialTimeout: 500 * time.Millisecond})
	if err == nil {
		t.Fatal("expected Dial to fail against a closed port")
	}
}
