// Package store provides the key-value persistence behind the shopping cart.
// Every backend keeps opaque text under a fixed key: a read returns the saved
// text or ErrNotFound, a write overwrites the value wholesale.
package store

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/logging"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("store: key not found")

// Adapter is a minimal key-value store.
type Adapter interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open builds the adapter selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (Adapter, error) {
	logging.Store("Opening %s store", cfg.Backend)

	switch cfg.Backend {
	case config.BackendSQLite, "":
		return NewSQLiteStore(cfg.Path)
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
