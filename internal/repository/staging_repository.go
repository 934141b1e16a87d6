package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/rpattn/credittrack/internal/db"
	"github.com/rpattn/credittrack/internal/domain"
)

const stagingTable = "donnees_importees"

// stagingLockKey serializes staging replacement across concurrent batches.
const stagingLockKey int64 = 0x6372_6564_7374_6167

type stagingRepository struct {
	db db.DBTX
}

// NewStagingRepository wires the raw staging table on q. q must be a
// transaction: the advisory lock taken by Replace lives until it ends.
func NewStagingRepository(q db.DBTX) StagingRepository {
	return &stagingRepository{db: q}
}

func stagingColumns() []string {
	columns := make([]string, 0, len(domain.Catalog)+2)
	columns = append(columns, "batch_id", "ligne")
	for _, field := range domain.Catalog {
		columns = append(columns, field.Name)
	}
	return columns
}

func (r *stagingRepository) Replace(ctx context.Context, batchID uuid.UUID, rows []domain.StagedRow) (int64, error) {
	if err := db.AdvisoryXactLock(ctx, r.db, stagingLockKey); err != nil {
		return 0, err
	}
	if _, err := r.db.Exec(ctx, "TRUNCATE "+stagingTable+" RESTART IDENTITY"); err != nil {
		return 0, eris.Wrap(err, "repository: clear staging")
	}

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		value := make([]any, 0, len(domain.Catalog)+2)
		value = append(value, uuidParam(batchID), int32(row.Line))
		for _, field := range domain.Catalog {
			value = append(value, stagingParam(field.Kind, row.Record.Get(field.Name)))
		}
		values = append(values, value)
	}

	n, err := db.CopyFrom(ctx, r.db, stagingTable, stagingColumns(), values)
	if err != nil {
		return 0, eris.Wrap(err, "repository: load staging")
	}
	return n, nil
}
