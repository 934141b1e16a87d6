// Package layout holds the data-driven spreadsheet layouts and resolves which
// one applies to a project type.
package layout

import (
	_ "embed"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/rpattn/credittrack/internal/domain"
)

//go:embed layouts.yaml
var defaultLayouts []byte

type layoutFile struct {
	Layouts []domain.LayoutDefinition `yaml:"layouts"`
}

// Registry is an immutable set of layouts keyed by folded format tag.
type Registry struct {
	byTag map[string]domain.LayoutDefinition
}

// ParseLayouts decodes a layouts YAML document and validates every entry.
func ParseLayouts(data []byte) ([]domain.LayoutDefinition, error) {
	var doc layoutFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "layout: decode yaml")
	}
	for i := range doc.Layouts {
		if err := doc.Layouts[i].Prepare(); err != nil {
			return nil, eris.Wrapf(err, "layout: entry %d", i)
		}
	}
	return doc.Layouts, nil
}

// NewRegistry builds a registry. A later definition with the same tag
// replaces an earlier one.
func NewRegistry(layouts ...domain.LayoutDefinition) (*Registry, error) {
	r := &Registry{byTag: make(map[string]domain.LayoutDefinition, len(layouts))}
	for _, def := range layouts {
		if err := def.Prepare(); err != nil {
			return nil, eris.Wrap(err, "layout: register")
		}
		r.byTag[domain.NormalizeLabel(def.Tag)] = def
	}
	return r, nil
}

// DefaultRegistry returns the layouts shipped with the binary.
func DefaultRegistry() (*Registry, error) {
	layouts, err := ParseLayouts(defaultLayouts)
	if err != nil {
		return nil, eris.Wrap(err, "layout: embedded defaults")
	}
	return NewRegistry(layouts...)
}

// LoadRegistry returns the embedded layouts extended by the file at path.
// An empty path yields the defaults only.
func LoadRegistry(path string) (*Registry, error) {
	layouts, err := ParseLayouts(defaultLayouts)
	if err != nil {
		return nil, eris.Wrap(err, "layout: embedded defaults")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "layout: read %s", path)
		}
		extra, err := ParseLayouts(data)
		if err != nil {
			return nil, eris.Wrapf(err, "layout: parse %s", path)
		}
		layouts = append(layouts, extra...)
	}
	return NewRegistry(layouts...)
}

// Get returns the layout registered under tag, ignoring case and spacing.
func (r *Registry) Get(tag string) (domain.LayoutDefinition, bool) {
	def, ok := r.byTag[domain.NormalizeLabel(tag)]
	return def, ok
}

// List returns every layout ordered by tag.
func (r *Registry) List() []domain.LayoutDefinition {
	out := make([]domain.LayoutDefinition, 0, len(r.byTag))
	for _, def := range r.byTag {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
