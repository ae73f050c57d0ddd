package application

import (
	"context"

	"github.com/example/roombook/internal/persistence/memory"
)

// storageStub wraps the in-memory store and lets tests inject failures.
type storageStub struct {
	*memory.Store
	getErr    error
	setErr    error
	deleteErr error
	setCalls  int
}

func newStorageStub() *storageStub {
	return &storageStub{Store: memory.New()}
}

func (s *storageStub) Get(ctx context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.Store.Get(ctx, key)
}

func (s *storageStub) Set(ctx context.Context, key string, value []byte) error {
	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	return s.Store.Set(ctx, key, value)
}

func (s *storageStub) Delete(ctx context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.Store.Delete(ctx, key)
}
