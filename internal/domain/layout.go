package domain

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ColumnMapping binds a source header label to a canonical field.
type ColumnMapping struct {
	Label string `yaml:"label" json:"label"`
	Field string `yaml:"field" json:"field"`
}

// LayoutDefinition describes one known spreadsheet layout. It is immutable
// once registered; several layouts coexist and are selected through the
// project type's format tag.
type LayoutDefinition struct {
	Tag         string          `yaml:"tag" json:"tag"`
	Version     int             `yaml:"version" json:"version"`
	Description string          `yaml:"description" json:"description"`
	Columns     []ColumnMapping `yaml:"columns" json:"columns"`
	Required    []string        `yaml:"required" json:"required"`

	byLabel map[string]string
}

// Prepare validates the definition against the canonical catalog and builds
// its label index. It must be called before Lookup.
func (l *LayoutDefinition) Prepare() error {
	l.Tag = strings.TrimSpace(l.Tag)
	if l.Tag == "" {
		return eris.New("layout tag is required")
	}
	if len(l.Columns) == 0 {
		return eris.Errorf("layout %s has no columns", l.Tag)
	}

	index := make(map[string]string, len(l.Columns))
	mapped := make(map[string]bool, len(l.Columns))
	for _, column := range l.Columns {
		label := NormalizeLabel(column.Label)
		if label == "" {
			return eris.Errorf("layout %s: column for field %s has an empty label", l.Tag, column.Field)
		}
		if _, ok := LookupField(column.Field); !ok {
			return eris.Errorf("layout %s: unknown canonical field %q", l.Tag, column.Field)
		}
		if existing, dup := index[label]; dup && existing != column.Field {
			return eris.Errorf("layout %s: label %q mapped to both %s and %s", l.Tag, column.Label, existing, column.Field)
		}
		index[label] = column.Field
		mapped[column.Field] = true
	}

	for _, field := range l.Required {
		if !mapped[field] {
			return eris.Errorf("layout %s: required field %s has no source column", l.Tag, field)
		}
	}

	l.byLabel = index
	return nil
}

// Lookup returns the canonical field for a source label.
func (l LayoutDefinition) Lookup(label string) (string, bool) {
	field, ok := l.byLabel[NormalizeLabel(label)]
	return field, ok
}

// MissingFields lists, in declaration order, the required fields that no
// header label maps to.
func (l LayoutDefinition) MissingFields(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, header := range headers {
		if field, ok := l.Lookup(header); ok {
			present[field] = true
		}
	}

	var missing []string
	for _, field := range l.Required {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	return missing
}
