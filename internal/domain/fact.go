package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectFact is one financed project row. CommuneID is always resolved;
// the other dimension keys are nil when the sheet left them blank.
type ProjectFact struct {
	BatchID         uuid.UUID
	CommitteeDate   *time.Time
	IntermediaryID  *int64
	CommuneID       int64
	ProjectTitle    string
	PromoterID      *int64
	SectorID        *int64
	TotalCost       decimal.NullDecimal
	CreditRequested decimal.NullDecimal
	CreditGranted   decimal.NullDecimal
	Refinancing     decimal.NullDecimal
	CreditStatus    string
	TotalFinancing  decimal.NullDecimal
	FileStatus      string
	JobsCreated     *int64
	ProjectTypeID   string
	CreatedBy       string
	CreatedAt       time.Time
}

// DimensionKeys holds the resolved foreign keys of one record.
type DimensionKeys struct {
	CommuneID      int64
	PromoterID     *int64
	IntermediaryID *int64
	SectorID       *int64
}

// NewProjectFact builds the fact for a mapped record and its resolved keys.
func NewProjectFact(batchID uuid.UUID, record Record, keys DimensionKeys, projectTypeID, createdBy string, now time.Time) ProjectFact {
	fact := ProjectFact{
		BatchID:         batchID,
		IntermediaryID:  keys.IntermediaryID,
		CommuneID:       keys.CommuneID,
		ProjectTitle:    record.TextOf(FieldProjectTitle),
		PromoterID:      keys.PromoterID,
		SectorID:        keys.SectorID,
		TotalCost:       decimalOf(record.Get(FieldTotalCost)),
		CreditRequested: decimalOf(record.Get(FieldCreditRequested)),
		CreditGranted:   decimalOf(record.Get(FieldCreditGranted)),
		Refinancing:     decimalOf(record.Get(FieldRefinancing)),
		CreditStatus:    record.TextOf(FieldCreditStatus),
		TotalFinancing:  decimalOf(record.Get(FieldTotalFinancing)),
		FileStatus:      record.TextOf(FieldFileStatus),
		ProjectTypeID:   projectTypeID,
		CreatedBy:       createdBy,
		CreatedAt:       now,
	}

	if v := record.Get(FieldCommitteeDate); v.Kind == KindDate {
		date := v.Date
		fact.CommitteeDate = &date
	}
	if v := record.Get(FieldJobsCreated); v.Kind == KindInteger {
		jobs := v.Integer
		fact.JobsCreated = &jobs
	}

	return fact
}

func decimalOf(v Value) decimal.NullDecimal {
	if v.Kind != KindNumber {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: v.Number, Valid: true}
}

// StagedRow is the raw-import trace kept for the most recent batch only.
type StagedRow struct {
	BatchID uuid.UUID
	Line    int
	Record  Record
}
