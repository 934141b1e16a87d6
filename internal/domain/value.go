package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValueKind tags the scalar carried by a Value.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindText
	KindNumber
	KindDate
	KindInteger
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindInteger:
		return "integer"
	default:
		return "absent"
	}
}

// Value is a single spreadsheet cell. The zero value is absent, which is
// distinct from an empty text value.
type Value struct {
	Kind    ValueKind
	Text    string
	Number  decimal.Decimal
	Integer int64
	Date    time.Time
}

// Absent returns the "no value" marker.
func Absent() Value { return Value{} }

// TextValue wraps a text cell.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// NumberValue wraps a numeric cell. raw keeps the cell's original spelling so
// text fields can still read it verbatim.
func NumberValue(n decimal.Decimal, raw string) Value {
	return Value{Kind: KindNumber, Number: n, Text: raw}
}

// DateValue wraps a calendar date.
func DateValue(t time.Time) Value { return Value{Kind: KindDate, Date: t} }

// IntegerValue wraps a whole-number count.
func IntegerValue(i int64) Value { return Value{Kind: KindInteger, Integer: i} }

// IsAbsent reports whether the cell carries no value.
func (v Value) IsAbsent() bool { return v.Kind == KindAbsent }

// String renders the value the way it would appear in an error message.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		if v.Text != "" {
			return v.Text
		}
		return v.Number.String()
	case KindDate:
		return v.Date.Format("2006-01-02")
	case KindInteger:
		return decimal.NewFromInt(v.Integer).String()
	default:
		return ""
	}
}

// Row is one data line of an uploaded sheet keyed by its header label.
// Line is the 1-based line number in the source file.
type Row struct {
	Line   int
	Values map[string]Value
}

// Table is the decoded content of an upload: the header labels in file order
// followed by its non-empty data rows.
type Table struct {
	Headers []string
	Rows    []Row
}

// Record is one row after layout mapping: canonical field name to coerced value.
type Record struct {
	Line   int
	Fields map[string]Value
}

// Get returns the coerced value of a canonical field, absent when missing.
func (r Record) Get(field string) Value {
	if r.Fields == nil {
		return Absent()
	}
	return r.Fields[field]
}

// TextOf returns the trimmed text of a field, or "" when the field is absent.
func (r Record) TextOf(field string) string {
	v := r.Get(field)
	if v.IsAbsent() {
		return ""
	}
	return v.String()
}
