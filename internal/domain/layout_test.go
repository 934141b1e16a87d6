package domain

import (
	"reflect"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
)

func sampleLayout() LayoutDefinition {
	return LayoutDefinition{
		Tag: " FICHIER T ",
		Columns: []ColumnMapping{
			{Label: "Date  comité", Field: FieldCommitteeDate},
			{Label: "Commune", Field: FieldCommune},
			{Label: "Ville", Field: FieldCommune},
			{Label: "Nom PSF", Field: FieldIntermediary},
		},
		Required: []string{FieldCommitteeDate, FieldCommune, FieldIntermediary},
	}
}

func TestLayoutPrepareAndLookup(t *testing.T) {
	def := sampleLayout()
	if err := def.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if def.Tag != "FICHIER T" {
		t.Fatalf("tag not trimmed: %q", def.Tag)
	}

	for label, want := range map[string]string{
		"date comité":   FieldCommitteeDate,
		" DATE COMITÉ ": FieldCommitteeDate,
		"ville":         FieldCommune,
		"nom  psf":      FieldIntermediary,
	} {
		got, ok := def.Lookup(label)
		if !ok || got != want {
			t.Fatalf("Lookup(%q) = %q, %v; want %q", label, got, ok, want)
		}
	}
	if _, ok := def.Lookup("Département"); ok {
		t.Fatal("unexpected match for unmapped label")
	}
}

func TestLayoutMissingFields(t *testing.T) {
	def := sampleLayout()
	if err := def.Prepare(); err != nil {
		t.Fatal(err)
	}

	got := def.MissingFields([]string{"Ville", "Autre"})
	want := []string{FieldCommitteeDate, FieldIntermediary}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MissingFields() = %v, want %v", got, want)
	}

	if got := def.MissingFields([]string{"Nom PSF", "Commune", "Date comité"}); len(got) != 0 {
		t.Fatalf("expected no missing fields, got %v", got)
	}
}

func TestLayoutPrepareRejects(t *testing.T) {
	cases := map[string]struct {
		mutate func(*LayoutDefinition)
		want   string
	}{
		"blank tag": {func(l *LayoutDefinition) { l.Tag = " " }, "tag is required"},
		"no columns": {func(l *LayoutDefinition) { l.Columns = nil }, "has no columns"},
		"unknown field": {func(l *LayoutDefinition) {
			l.Columns = append(l.Columns, ColumnMapping{Label: "X", Field: "nope"})
		}, "unknown canonical field"},
		"empty label": {func(l *LayoutDefinition) {
			l.Columns = append(l.Columns, ColumnMapping{Label: "  ", Field: FieldPDA})
		}, "empty label"},
		"label bound twice": {func(l *LayoutDefinition) {
			l.Columns = append(l.Columns, ColumnMapping{Label: "commune", Field: FieldDepartment})
		}, "mapped to both"},
		"required unmapped": {func(l *LayoutDefinition) {
			l.Required = append(l.Required, FieldJobsCreated)
		}, "has no source column"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			def := sampleLayout()
			tc.mutate(&def)
			err := def.Prepare()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Prepare() error = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestLayoutPrepareErrorCarriesTrace(t *testing.T) {
	def := sampleLayout()
	def.Columns = nil
	err := def.Prepare()
	if err == nil {
		t.Fatal("Prepare() error = nil")
	}
	if trace := eris.ToString(err, true); !strings.Contains(trace, "Prepare") {
		t.Fatalf("error has no stack trace: %s", trace)
	}
}

func TestNormalizeLabelAndNaturalKey(t *testing.T) {
	if got := NormalizeLabel("  Crédit   accordé\t"); got != "crédit accordé" {
		t.Fatalf("NormalizeLabel() = %q", got)
	}
	if got := NaturalKey("  Abomey-Calavi "); got != "abomey-calavi" {
		t.Fatalf("NaturalKey() = %q", got)
	}
}
