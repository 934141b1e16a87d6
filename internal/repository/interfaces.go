package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/rpattn/credittrack/internal/domain"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("repository: not found")

// ErrConflict is returned when a write collides with existing rows.
var ErrConflict = errors.New("repository: conflict")

// ProjectTypeRepository manages the registered financing facilities.
type ProjectTypeRepository interface {
	GetByID(ctx context.Context, id string) (domain.ProjectType, error)
	List(ctx context.Context) ([]domain.ProjectType, error)
	Create(ctx context.Context, projectType domain.ProjectType) (domain.ProjectType, error)
	Delete(ctx context.Context, id string) error
}

// CommuneRepository looks communes up; it never creates them.
type CommuneRepository interface {
	// FindByName matches trimmed, case-insensitive names. ok is false when
	// no commune matches.
	FindByName(ctx context.Context, name string) (commune domain.Commune, ok bool, err error)
}

// PromoterRepository resolves promoters by (name, entity name).
type PromoterRepository interface {
	// Ensure returns the id of the matching promoter, inserting it when
	// absent. Blank side fields of an existing record are filled; set ones
	// are never overwritten.
	Ensure(ctx context.Context, promoter domain.Promoter) (id int64, created bool, err error)
}

// IntermediaryRepository resolves financial intermediaries by name.
type IntermediaryRepository interface {
	Ensure(ctx context.Context, name string) (id int64, created bool, err error)
}

// SectorRepository resolves value-chain sectors by name.
type SectorRepository interface {
	// Ensure inserts the sector when absent and records its segment if the
	// stored one is still empty.
	Ensure(ctx context.Context, sector domain.ValueChainSector) (id int64, created bool, err error)
}

// FactRepository writes project facts.
type FactRepository interface {
	InsertBatch(ctx context.Context, facts []domain.ProjectFact) (int64, error)
}

// StagingRepository holds the raw rows of the most recent import.
type StagingRepository interface {
	// Replace clears the staging table and loads rows in its place.
	Replace(ctx context.Context, batchID uuid.UUID, rows []domain.StagedRow) (int64, error)
}

// ImportLedgerRepository is the append-only import audit trail.
type ImportLedgerRepository interface {
	Record(ctx context.Context, entry domain.ImportLedgerEntry) error
	List(ctx context.Context, limit int, offset int) ([]domain.ImportLedgerEntry, error)
}

// Dimensions groups the dimension repositories used by one batch.
type Dimensions struct {
	Communes       CommuneRepository
	Promoters      PromoterRepository
	Intermediaries IntermediaryRepository
	Sectors        SectorRepository
}

// BatchRepositories are bound to a single batch transaction.
type BatchRepositories struct {
	Dimensions
	Facts   FactRepository
	Staging StagingRepository
}

// BatchStore runs fn in one all-or-nothing transaction. Every write made
// through repos commits when fn returns nil and is discarded otherwise.
type BatchStore interface {
	WithinBatch(ctx context.Context, fn func(ctx context.Context, repos BatchRepositories) error) error
}
