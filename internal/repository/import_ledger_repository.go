package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rotisserie/eris"

	"github.com/rpattn/credittrack/internal/db"
	"github.com/rpattn/credittrack/internal/domain"
)

// DefaultLedgerPageSize bounds History listings when no limit is given.
const DefaultLedgerPageSize = 100

type importLedgerRepository struct {
	db db.DBTX
}

// NewImportLedgerRepository wires the import ledger on q. Pass the pool, not
// a batch transaction, so entries survive a rolled back batch.
func NewImportLedgerRepository(q db.DBTX) ImportLedgerRepository {
	return &importLedgerRepository{db: q}
}

func (r *importLedgerRepository) Record(ctx context.Context, entry domain.ImportLedgerEntry) error {
	if r.db == nil {
		return eris.New("repository: import ledger not initialized")
	}

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO historique_importation
		   (batch_id, nom_fichier, id_type_projet, utilisateur, statut, rows_imported, error_message, date_import)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuidParam(entry.BatchID),
		textParam(entry.FileName),
		textParam(entry.ProjectTypeID),
		textParam(entry.Operator),
		entry.Success,
		entry.RowsImported,
		textParam(entry.ErrorMessage),
		entry.ImportedAt,
	)
	if err != nil {
		return eris.Wrap(err, "repository: record import ledger entry")
	}
	return nil
}

func (r *importLedgerRepository) List(ctx context.Context, limit int, offset int) ([]domain.ImportLedgerEntry, error) {
	if r.db == nil {
		return nil, eris.New("repository: import ledger not initialized")
	}

	if limit <= 0 {
		limit = DefaultLedgerPageSize
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, batch_id, nom_fichier, id_type_projet, utilisateur, statut, rows_imported, error_message, date_import
		 FROM historique_importation
		 ORDER BY date_import DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "repository: list import ledger")
	}
	defer rows.Close()

	entries := []domain.ImportLedgerEntry{}
	for rows.Next() {
		var (
			entry         domain.ImportLedgerEntry
			batchID       pgtype.UUID
			fileName      pgtype.Text
			projectTypeID pgtype.Text
			operator      pgtype.Text
			errorMessage  pgtype.Text
		)
		if scanErr := rows.Scan(
			&entry.ID,
			&batchID,
			&fileName,
			&projectTypeID,
			&operator,
			&entry.Success,
			&entry.RowsImported,
			&errorMessage,
			&entry.ImportedAt,
		); scanErr != nil {
			return nil, eris.Wrap(scanErr, "repository: scan import ledger entry")
		}

		if batchID.Valid {
			entry.BatchID = batchID.Bytes
		}
		entry.FileName = fileName.String
		entry.ProjectTypeID = projectTypeID.String
		entry.Operator = operator.String
		entry.ErrorMessage = errorMessage.String

		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, eris.Wrap(rowsErr, "repository: iterate import ledger")
	}

	return entries, nil
}
