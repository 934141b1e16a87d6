package layout

import (
	"context"
	"errors"
	"strings"

	"github.com/rpattn/credittrack/internal/domain"
	"github.com/rpattn/credittrack/internal/repository"
)

// Resolver maps a project type id to the layout its uploads use.
type Resolver struct {
	types    repository.ProjectTypeRepository
	registry *Registry
}

// NewResolver creates a resolver over the project type store and a registry.
func NewResolver(types repository.ProjectTypeRepository, registry *Registry) *Resolver {
	return &Resolver{types: types, registry: registry}
}

// Resolve returns the project type and its layout.
func (r *Resolver) Resolve(ctx context.Context, projectTypeID string) (domain.ProjectType, domain.LayoutDefinition, error) {
	id := strings.TrimSpace(projectTypeID)
	if id == "" {
		return domain.ProjectType{}, domain.LayoutDefinition{}, &domain.UnknownProjectTypeError{ID: projectTypeID}
	}

	projectType, err := r.types.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ProjectType{}, domain.LayoutDefinition{}, &domain.UnknownProjectTypeError{ID: id}
		}
		return domain.ProjectType{}, domain.LayoutDefinition{}, domain.NewPersistenceError("load project type", err)
	}

	def, ok := r.registry.Get(projectType.Format)
	if !ok {
		return projectType, domain.LayoutDefinition{}, &domain.UnknownLayoutError{ProjectTypeID: id, Tag: projectType.Format}
	}
	return projectType, def, nil
}

// ProjectTypes lists the registered project types.
func (r *Resolver) ProjectTypes(ctx context.Context) ([]domain.ProjectType, error) {
	types, err := r.types.List(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("list project types", err)
	}
	return types, nil
}

// Layouts lists the registered layouts.
func (r *Resolver) Layouts() []domain.LayoutDefinition {
	return r.registry.List()
}

// CreateProjectType registers a project type against a known layout tag.
// The stored format is the registry's canonical tag.
func (r *Resolver) CreateProjectType(ctx context.Context, projectType domain.ProjectType) (domain.ProjectType, error) {
	projectType.ID = strings.TrimSpace(projectType.ID)
	projectType.Name = strings.TrimSpace(projectType.Name)

	def, ok := r.registry.Get(projectType.Format)
	if !ok {
		return domain.ProjectType{}, &domain.UnknownLayoutError{ProjectTypeID: projectType.ID, Tag: projectType.Format}
	}
	projectType.Format = def.Tag

	created, err := r.types.Create(ctx, projectType)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return domain.ProjectType{}, err
		}
		return domain.ProjectType{}, domain.NewPersistenceError("create project type", err)
	}
	return created, nil
}

// DeleteProjectType removes a project type. repository.ErrNotFound and
// repository.ErrConflict are returned as is.
func (r *Resolver) DeleteProjectType(ctx context.Context, id string) error {
	err := r.types.Delete(ctx, strings.TrimSpace(id))
	if err == nil || errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrConflict) {
		return err
	}
	return domain.NewPersistenceError("delete project type", err)
}
