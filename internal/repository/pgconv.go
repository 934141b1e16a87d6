package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/rpattn/credittrack/internal/domain"
)

func uuidParam(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func numericParam(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{}
	}
	return pgtype.Numeric{Int: d.Decimal.Coefficient(), Exp: d.Decimal.Exponent(), Valid: true}
}

func dateParam(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

func textParam(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// stagingParam converts a mapped cell into the parameter for a staging column
// of the given kind. Absent cells and cells of the wrong kind become NULL.
func stagingParam(kind domain.FieldKind, v domain.Value) any {
	switch kind {
	case domain.FieldKindDate:
		if v.Kind != domain.KindDate {
			return pgtype.Date{}
		}
		return dateParam(&v.Date)
	case domain.FieldKindDecimal:
		if v.Kind != domain.KindNumber {
			return pgtype.Numeric{}
		}
		return numericParam(decimal.NullDecimal{Decimal: v.Number, Valid: true})
	case domain.FieldKindInteger:
		if v.Kind != domain.KindInteger {
			return pgtype.Int8{}
		}
		return pgtype.Int8{Int64: v.Integer, Valid: true}
	default:
		if v.IsAbsent() {
			return pgtype.Text{}
		}
		return textParam(v.String())
	}
}
