package store

import (
	"context"
	"fmt"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Open returns the index storer for the backend and a function releasing it.
func Open(ctx context.Context, backend, dir, dsn string) (IndexStorer, func(), error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dir), func() {}, nil
	case BackendPostgres:
		pool, err := NewPostgresStore(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("error to connect to Postgres database: %w", err)
		}
		if err := pool.Init(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("error to create tables: %w", err)
		}
		return pool, func() { _ = pool.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown index backend %q", backend)
	}
}
