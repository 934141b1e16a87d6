package repository

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/rpattn/credittrack/internal/db"
	"github.com/rpattn/credittrack/internal/domain"
)

const factTable = "projet_financement"

var factColumns = []string{
	"batch_id",
	"date_comite_validation",
	"id_psf",
	"id_commune",
	"intitule_projet",
	"id_promoteur",
	"id_filiere",
	"cout_total_projet",
	"credit_solicite",
	"credit_accorde",
	"refinancement_accorde",
	"credit_accorde_statut",
	"total_financement",
	"statut_dossier",
	"nombre_emplois",
	"id_type_projet",
	"created_by",
	"created_at",
}

type factRepository struct {
	db db.DBTX
}

// NewFactRepository wires fact inserts on q.
func NewFactRepository(q db.DBTX) FactRepository {
	return &factRepository{db: q}
}

func (r *factRepository) InsertBatch(ctx context.Context, facts []domain.ProjectFact) (int64, error) {
	rows := make([][]any, 0, len(facts))
	for _, fact := range facts {
		rows = append(rows, []any{
			uuidParam(fact.BatchID),
			dateParam(fact.CommitteeDate),
			fact.IntermediaryID,
			fact.CommuneID,
			textParam(fact.ProjectTitle),
			fact.PromoterID,
			fact.SectorID,
			numericParam(fact.TotalCost),
			numericParam(fact.CreditRequested),
			numericParam(fact.CreditGranted),
			numericParam(fact.Refinancing),
			textParam(fact.CreditStatus),
			numericParam(fact.TotalFinancing),
			textParam(fact.FileStatus),
			fact.JobsCreated,
			fact.ProjectTypeID,
			fact.CreatedBy,
			fact.CreatedAt,
		})
	}

	n, err := db.CopyFrom(ctx, r.db, factTable, factColumns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "repository: insert project facts")
	}
	if n != int64(len(facts)) {
		return n, eris.Errorf("repository: inserted %d of %d project facts", n, len(facts))
	}
	return n, nil
}
