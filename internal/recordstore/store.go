// Package recordstore keeps named JSON blobs. Each blob is read and replaced
// as a whole; there is no partial update.
package recordstore

import (
	"context"
	"errors"
	"fmt"
)

// Blob names used by the point-of-sale screens.
const (
	Sales    = "sales"
	Expenses = "expenses"
)

var (
	// ErrEmptyName is returned when a blob name is blank.
	ErrEmptyName = errors.New("empty record name")
	// ErrUnknownBackend is returned by Open for an unsupported backend.
	ErrUnknownBackend = errors.New("unknown record store backend")
)

// Store is a flat namespace of blobs. Get returns nil, nil for a name that was
// never written.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, blob []byte) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open builds the store for opts.Backend and checks it is reachable.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(opts.SQLitePath)
	case "redis":
		rs := NewRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
