package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides all functions to execute db queries.
// Every mutation is a single statement, so no transaction helper is exposed.
type Store interface {
	Querier
	Ping(ctx context.Context) error
	Close()
}

type SQLStore struct {
	*Queries
	connPool *pgxpool.Pool
}

// NewStore creates a new Store.
func NewStore(db *pgxpool.Pool) Store {
	return &SQLStore{
		Queries:  New(db),
		connPool: db,
	}
}

// Ping checks if the database connection is alive.
func (store *SQLStore) Ping(ctx context.Context) error {
	return store.connPool.Ping(ctx)
}

// Close releases every connection in the pool.
func (store *SQLStore) Close() {
	store.connPool.Close()
}

// Stat exposes the pool statistics for monitoring.
func (store *SQLStore) Stat() *pgxpool.Stat {
	return store.connPool.Stat()
}
