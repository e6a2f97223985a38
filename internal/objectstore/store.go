package objectstore

import (
	"context"
	"errors"
)

// Store fetches wheel objects from an object storage backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// NullStore is used when no backend is configured.
type NullStore struct{}

func (NullStore) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, errors.New("object store not configured")
}

func (NullStore) List(_ context.Context, _ string) ([]string, error) { return nil, nil }
