package ingestion

import (
	"math"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/rpattn/credittrack/internal/domain"
)

// Spreadsheet serial dates count days from 1899-12-30. The upper bound is
// 9999-12-31.
var (
	serialEpoch     = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	maxSerialDay    = decimal.NewFromInt(2958465)
	dateTextLayouts = []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05.000",
		"2006-01-02",
		"2/1/2006",
		"2-1-2006",
		"2.1.2006",
		"1/2/2006",
		"2006/1/2",
		"2/1/2006 15:04:05",
		"2/1/2006 15:04",
	}

	// nombre_emplois is an INTEGER column.
	minCount = decimal.NewFromInt(math.MinInt32)
	maxCount = decimal.NewFromInt(math.MaxInt32)
)

// Numbers with more integer or fraction digits than this are treated as
// absent. The bound also keeps exponent notation such as 1e20000000 from
// being expanded.
const (
	maxIntegerDigits  = 30
	maxFractionDigits = 30
)

type columnBinding struct {
	header string
	field  domain.CanonicalField
}

// MapRows renames the table's columns to canonical fields and coerces every
// cell to its field kind. Columns the layout does not know are dropped. The
// header is checked for mandatory fields before any row is touched.
func MapRows(table domain.Table, layout domain.LayoutDefinition) ([]domain.Record, error) {
	if missing := layout.MissingFields(table.Headers); len(missing) > 0 {
		return nil, &domain.MissingRequiredFieldsError{Layout: layout.Tag, Fields: missing}
	}

	bindings := bindColumns(table.Headers, layout)

	records := make([]domain.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		fields := make(map[string]domain.Value, len(bindings))
		for _, binding := range bindings {
			v := coerce(binding.field.Kind, row.Values[binding.header])
			if !v.IsAbsent() {
				fields[binding.field.Name] = v
			}
		}
		records = append(records, domain.Record{Line: row.Line, Fields: fields})
	}
	return records, nil
}

// bindColumns pairs each recognized header with its field. When two headers
// map to the same field the leftmost wins.
func bindColumns(headers []string, layout domain.LayoutDefinition) []columnBinding {
	bound := make(map[string]bool, len(headers))
	bindings := make([]columnBinding, 0, len(headers))
	for _, header := range headers {
		name, ok := layout.Lookup(header)
		if !ok || bound[name] {
			continue
		}
		field, ok := domain.LookupField(name)
		if !ok {
			continue
		}
		bound[name] = true
		bindings = append(bindings, columnBinding{header: header, field: field})
	}
	return bindings
}

func coerce(kind domain.FieldKind, v domain.Value) domain.Value {
	switch kind {
	case domain.FieldKindDate:
		return coerceDate(v)
	case domain.FieldKindDecimal:
		return coerceDecimal(v)
	case domain.FieldKindInteger:
		return coerceInteger(v)
	default:
		return coerceText(v)
	}
}

func coerceText(v domain.Value) domain.Value {
	if v.IsAbsent() {
		return v
	}
	text := strings.TrimSpace(v.String())
	if text == "" {
		return domain.Absent()
	}
	return domain.TextValue(text)
}

// coerceDate accepts a date, a serial day number, or date text. Anything
// else is absent.
func coerceDate(v domain.Value) domain.Value {
	switch v.Kind {
	case domain.KindDate:
		return domain.DateValue(calendarDate(v.Date))
	case domain.KindNumber:
		return serialDate(v.Number)
	case domain.KindInteger:
		return serialDate(decimal.NewFromInt(v.Integer))
	case domain.KindText:
		text := strings.TrimSpace(v.Text)
		for _, layout := range dateTextLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return domain.DateValue(calendarDate(t))
			}
		}
		if n, ok := parseLocaleDecimal(text); ok {
			return serialDate(n)
		}
	}
	return domain.Absent()
}

func serialDate(n decimal.Decimal) domain.Value {
	if n.IsNegative() || n.GreaterThan(maxSerialDay) {
		return domain.Absent()
	}
	return domain.DateValue(serialEpoch.AddDate(0, 0, int(n.IntPart())))
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// coerceDecimal accepts numbers and numeric text in either the 1,234.5 or
// the 1 234,5 convention. Anything else is absent.
func coerceDecimal(v domain.Value) domain.Value {
	switch v.Kind {
	case domain.KindNumber:
		if !numericInRange(v.Number) {
			return domain.Absent()
		}
		return v
	case domain.KindInteger:
		return domain.NumberValue(decimal.NewFromInt(v.Integer), v.String())
	case domain.KindText:
		if n, ok := parseLocaleDecimal(v.Text); ok {
			return domain.NumberValue(n, strings.TrimSpace(v.Text))
		}
	}
	return domain.Absent()
}

// coerceInteger truncates a numeric value toward zero. Values outside the
// int32 range are absent.
func coerceInteger(v domain.Value) domain.Value {
	n := coerceDecimal(v)
	if n.IsAbsent() {
		return n
	}
	whole := n.Number.Truncate(0)
	if whole.LessThan(minCount) || whole.GreaterThan(maxCount) {
		return domain.Absent()
	}
	return domain.IntegerValue(whole.IntPart())
}

// numericInRange reports whether n fits the integer and fraction digit
// bounds. It only inspects the exponent and the coefficient, so it is cheap
// for any n.
func numericInRange(n decimal.Decimal) bool {
	exp := int64(n.Exponent())
	if exp > maxIntegerDigits || exp < -maxFractionDigits {
		return false
	}
	digits := int64(len(new(big.Int).Abs(n.Coefficient()).String()))
	return digits+exp <= maxIntegerDigits
}

// parseLocaleDecimal reads numeric text without assuming a locale. Spaces
// and apostrophes are grouping. When both ',' and '.' occur the last one is
// the decimal separator. A separator repeated more than once is grouping,
// and a single one followed by exactly three digits is grouping unless the
// integer part is zero.
func parseLocaleDecimal(raw string) (decimal.Decimal, bool) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\'' || r == '’' {
			return -1
		}
		return r
	}, raw)
	if s == "" {
		return decimal.Decimal{}, false
	}

	sign := ""
	if s[0] == '-' || s[0] == '+' {
		sign, s = s[:1], s[1:]
	}

	commas := strings.Count(s, ",")
	dots := strings.Count(s, ".")
	switch {
	case commas > 0 && dots > 0:
		decimalSep, groupSep := ".", ","
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			decimalSep, groupSep = ",", "."
		}
		if strings.Count(s, decimalSep) > 1 {
			return decimal.Decimal{}, false
		}
		s = strings.ReplaceAll(s, groupSep, "")
		s = strings.Replace(s, decimalSep, ".", 1)
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	case commas == 1 || dots == 1:
		sep := "."
		if commas == 1 {
			sep = ","
		}
		idx := strings.Index(s, sep)
		intPart, fraction := s[:idx], s[idx+1:]
		if len(fraction) == 3 && isDigits(fraction) && strings.TrimLeft(intPart, "0") != "" {
			s = intPart + fraction
		} else {
			s = intPart + "." + fraction
		}
	}

	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != 'e' && r != 'E' && r != '-' && r != '+' {
			return decimal.Decimal{}, false
		}
	}

	n, err := decimal.NewFromString(sign + s)
	if err != nil || !numericInRange(n) {
		return decimal.Decimal{}, false
	}
	return n, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
