package ingestion

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rpattn/credittrack/internal/domain"
	"github.com/rpattn/credittrack/internal/repository"
)

// Stage is a step of one ingestion attempt.
type Stage string

const (
	StageReceived   Stage = "received"
	StageParsed     Stage = "parsed"
	StageMapped     Stage = "mapped"
	StageResolving  Stage = "resolving"
	StageCommitted  Stage = "committed"
	StageRolledBack Stage = "rolled_back"
	StageLogged     Stage = "logged"
	StageDone       Stage = "done"
)

// LayoutResolver finds the project type and layout an upload is read with.
type LayoutResolver interface {
	Resolve(ctx context.Context, projectTypeID string) (domain.ProjectType, domain.LayoutDefinition, error)
}

// Service runs uploads through read, map, resolve and load, and records
// every attempt in the import ledger.
type Service struct {
	layouts LayoutResolver
	store   repository.BatchStore
	ledger  repository.ImportLedgerRepository

	now   func() time.Time
	newID func() uuid.UUID
}

// NewService creates a new ingestion service.
func NewService(
	layouts LayoutResolver,
	store repository.BatchStore,
	ledger repository.ImportLedgerRepository,
) *Service {
	return &Service{
		layouts: layouts,
		store:   store,
		ledger:  ledger,
		now:     time.Now,
		newID:   uuid.New,
	}
}

// Request describes one upload.
type Request struct {
	ProjectTypeID string
	Operator      string
	FileName      string
	Data          io.Reader
}

// Summary is returned for a committed batch.
type Summary struct {
	Message           string                 `json:"message"`
	BatchID           uuid.UUID              `json:"batch_id"`
	RowsImported      int                    `json:"rows_imported"`
	DimensionsCreated domain.DimensionCounts `json:"dimensions_created"`
}

// attempt tracks one call to Import from Received to Done.
type attempt struct {
	req     Request
	batchID uuid.UUID
	stage   Stage
	rows    int
	log     *zap.Logger
}

func (a *attempt) advance(stage Stage) {
	a.log.Debug("ingestion stage", zap.String("from", string(a.stage)), zap.String("to", string(stage)))
	a.stage = stage
}

// Import ingests one upload as a single all-or-nothing batch. Exactly one
// ledger entry is written per call, whatever the outcome, and the error
// returned is always the one that stopped the batch.
func (s *Service) Import(ctx context.Context, req Request) (summary Summary, err error) {
	a := &attempt{
		req:     req,
		batchID: s.newID(),
		stage:   StageReceived,
	}
	a.log = zap.L().With(
		zap.String("component", "ingestion"),
		zap.String("batch_id", a.batchID.String()),
		zap.String("file", req.FileName),
		zap.String("project_type", req.ProjectTypeID),
		zap.String("operator", req.Operator),
	)

	defer func() {
		s.recordOutcome(ctx, a, err)
		a.advance(StageDone)
		if err != nil {
			a.log.Warn("import failed", zap.Error(err))
			return
		}
		a.log.Info("import committed",
			zap.Int("rows", summary.RowsImported),
			zap.Int("promoters_created", summary.DimensionsCreated.Promoters),
			zap.Int("intermediaries_created", summary.DimensionsCreated.Intermediaries),
			zap.Int("sectors_created", summary.DimensionsCreated.Sectors),
		)
	}()

	projectType, layout, err := s.layouts.Resolve(ctx, req.ProjectTypeID)
	if err != nil {
		return Summary{}, err
	}

	if req.Data == nil {
		return Summary{}, &domain.MalformedInputError{FileName: req.FileName, Reason: "no file uploaded"}
	}
	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return Summary{}, &domain.MalformedInputError{FileName: req.FileName, Reason: "cannot read upload", Err: err}
	}

	table, err := ReadTable(req.FileName, payload)
	if err != nil {
		return Summary{}, err
	}
	a.advance(StageParsed)

	records, err := MapRows(table, layout)
	if err != nil {
		return Summary{}, err
	}
	a.advance(StageMapped)

	batch := importBatch{
		id:          a.batchID,
		operator:    strings.TrimSpace(req.Operator),
		projectType: projectType,
		records:     records,
		startedAt:   s.now(),
	}

	a.advance(StageResolving)
	var result loadResult
	err = s.store.WithinBatch(ctx, func(ctx context.Context, repos repository.BatchRepositories) error {
		var loadErr error
		result, loadErr = loadBatch(ctx, repos, batch)
		return loadErr
	})
	if err != nil {
		a.advance(StageRolledBack)
		return Summary{}, domain.NewPersistenceError("commit batch", err)
	}
	a.advance(StageCommitted)
	a.rows = result.rows

	return Summary{
		Message:           fmt.Sprintf("%d rows imported from %s", result.rows, req.FileName),
		BatchID:           a.batchID,
		RowsImported:      result.rows,
		DimensionsCreated: result.created,
	}, nil
}

// History returns the most recent ledger entries, newest first.
func (s *Service) History(ctx context.Context, limit, offset int) ([]domain.ImportLedgerEntry, error) {
	entries, err := s.ledger.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.NewPersistenceError("list import history", err)
	}
	return entries, nil
}
