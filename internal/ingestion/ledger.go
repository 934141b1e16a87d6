package ingestion

import (
	"context"

	"go.uber.org/zap"

	"github.com/rpattn/credittrack/internal/domain"
)

// recordOutcome appends the ledger entry for an attempt. It runs on the pool
// outside the batch transaction with a context that ignores cancellation.
// A failure here is logged and dropped so the attempt's own error stands.
func (s *Service) recordOutcome(ctx context.Context, a *attempt, cause error) {
	entry := domain.ImportLedgerEntry{
		BatchID:       a.batchID,
		FileName:      a.req.FileName,
		ProjectTypeID: a.req.ProjectTypeID,
		Operator:      a.req.Operator,
		Success:       cause == nil,
		RowsImported:  a.rows,
		ImportedAt:    s.now(),
	}
	if cause != nil {
		entry.ErrorMessage = domain.PublicMessage(cause)
	}

	if err := s.ledger.Record(context.WithoutCancel(ctx), entry); err != nil {
		a.log.Warn("import ledger write failed",
			zap.Error(err),
			zap.Bool("success", entry.Success),
		)
	}
	a.advance(StageLogged)
}
