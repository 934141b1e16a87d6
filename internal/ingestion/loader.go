package ingestion

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rpattn/credittrack/internal/domain"
	"github.com/rpattn/credittrack/internal/repository"
)

// importBatch is one upload in flight. It is never persisted as a unit.
type importBatch struct {
	id          uuid.UUID
	operator    string
	projectType domain.ProjectType
	records     []domain.Record
	startedAt   time.Time
}

type loadResult struct {
	rows    int
	created domain.DimensionCounts
}

// loadBatch replaces the staging rows, resolves every record and inserts one
// fact per record. It must run inside the batch transaction: the first
// failure returns and the caller rolls everything back.
func loadBatch(ctx context.Context, repos repository.BatchRepositories, batch importBatch) (loadResult, error) {
	staged := make([]domain.StagedRow, 0, len(batch.records))
	for _, record := range batch.records {
		staged = append(staged, domain.StagedRow{BatchID: batch.id, Line: record.Line, Record: record})
	}
	if _, err := repos.Staging.Replace(ctx, batch.id, staged); err != nil {
		return loadResult{}, domain.NewPersistenceError("replace staging rows", err)
	}

	resolver := newDimensionResolver(repos.Dimensions)
	facts := make([]domain.ProjectFact, 0, len(batch.records))
	for _, record := range batch.records {
		keys, err := resolver.resolve(ctx, record)
		if err != nil {
			return loadResult{}, err
		}
		facts = append(facts, domain.NewProjectFact(
			batch.id, record, keys, batch.projectType.ID, batch.operator, batch.startedAt,
		))
	}

	n, err := repos.Facts.InsertBatch(ctx, facts)
	if err != nil {
		return loadResult{}, domain.NewPersistenceError("insert project facts", err)
	}

	return loadResult{rows: int(n), created: resolver.created}, nil
}
