package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/rpattn/credittrack/internal/db"
)

// Store is the Postgres-backed BatchStore.
type Store struct {
	pool db.Pool
}

// NewStore wires a batch store on pool.
func NewStore(pool db.Pool) *Store {
	return &Store{pool: pool}
}

// WithinBatch implements BatchStore.
func (s *Store) WithinBatch(ctx context.Context, fn func(ctx context.Context, repos BatchRepositories) error) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewBatchRepositories(tx))
	})
}

// NewBatchRepositories binds every batch repository to q.
func NewBatchRepositories(q db.DBTX) BatchRepositories {
	return BatchRepositories{
		Dimensions: Dimensions{
			Communes:       NewCommuneRepository(q),
			Promoters:      NewPromoterRepository(q),
			Intermediaries: NewIntermediaryRepository(q),
			Sectors:        NewSectorRepository(q),
		},
		Facts:   NewFactRepository(q),
		Staging: NewStagingRepository(q),
	}
}
