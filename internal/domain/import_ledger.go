package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportLedgerEntry is the append-only audit record of one ingestion attempt.
type ImportLedgerEntry struct {
	ID            int64     `json:"id"`
	BatchID       uuid.UUID `json:"batch_id"`
	FileName      string    `json:"nom_fichier"`
	ProjectTypeID string    `json:"id_type_projet"`
	Operator      string    `json:"utilisateur"`
	Success       bool      `json:"statut"`
	RowsImported  int       `json:"rows_imported"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	ImportedAt    time.Time `json:"date_import"`
}
