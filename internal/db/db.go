// Package db defines the storage contract consumed by the run repository.
package db

import (
	"context"
	"time"
)

// Store is the database facade combining all sub-interfaces. Consumers
// depend on the narrow sub-interfaces they need.
type Store interface {
	Pinger
	KVStore
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// ListStore provides list operations used for chronological run indexes.
type ListStore interface {
	LPush(ctx context.Context, key, value string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}
