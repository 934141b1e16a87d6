package domain

import (
	"strings"
	"time"
)

// ProjectType is a financing facility (facilité). Format is the tag of the
// spreadsheet layout its submissions use.
type ProjectType struct {
	ID        string    `json:"id_type_projet"`
	Name      string    `json:"nom_facilite"`
	Format    string    `json:"format"`
	Author    string    `json:"auteur,omitempty"`
	CreatedAt time.Time `json:"date_creation"`
}

// NewProjectType creates a project type bound to a layout tag.
func NewProjectType(id, name, format, author string) ProjectType {
	return ProjectType{
		ID:        strings.TrimSpace(id),
		Name:      strings.TrimSpace(name),
		Format:    strings.TrimSpace(format),
		Author:    author,
		CreatedAt: time.Now(),
	}
}

// WithFormat returns a copy bound to another layout tag.
func (p ProjectType) WithFormat(format string) ProjectType {
	return ProjectType{
		ID:        p.ID,
		Name:      p.Name,
		Format:    strings.TrimSpace(format),
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
	}
}
