package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rotisserie/eris"

	"github.com/rpattn/credittrack/internal/db"
	"github.com/rpattn/credittrack/internal/domain"
)

// projectTypeRepository implements ProjectTypeRepository
type projectTypeRepository struct {
	db db.DBTX
}

// NewProjectTypeRepository creates a new project type repository
func NewProjectTypeRepository(q db.DBTX) ProjectTypeRepository {
	return &projectTypeRepository{db: q}
}

// GetByID retrieves a project type by its identifier
func (r *projectTypeRepository) GetByID(ctx context.Context, id string) (domain.ProjectType, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ProjectType{}, ErrNotFound
	}

	row := r.db.QueryRow(ctx,
		`SELECT id_type_projet, nom_facilite, format, auteur, date_creation
		 FROM type_projet WHERE id_type_projet = $1`,
		id,
	)
	projectType, err := scanProjectType(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ProjectType{}, ErrNotFound
		}
		return domain.ProjectType{}, eris.Wrapf(err, "repository: get project type %q", id)
	}
	return projectType, nil
}

// List retrieves every project type ordered by name
func (r *projectTypeRepository) List(ctx context.Context) ([]domain.ProjectType, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id_type_projet, nom_facilite, format, auteur, date_creation
		 FROM type_projet ORDER BY nom_facilite`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "repository: list project types")
	}
	defer rows.Close()

	types := []domain.ProjectType{}
	for rows.Next() {
		projectType, scanErr := scanProjectType(rows)
		if scanErr != nil {
			return nil, eris.Wrap(scanErr, "repository: scan project type")
		}
		types = append(types, projectType)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate project types")
	}
	return types, nil
}

// Create inserts a project type. A taken id or name yields ErrConflict.
func (r *projectTypeRepository) Create(ctx context.Context, projectType domain.ProjectType) (domain.ProjectType, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO type_projet (id_type_projet, nom_facilite, format, auteur)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id_type_projet, nom_facilite, format, auteur, date_creation`,
		projectType.ID, projectType.Name, projectType.Format, nullableText(projectType.Author),
	)
	created, err := scanProjectType(row)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return domain.ProjectType{}, ErrConflict
		}
		return domain.ProjectType{}, eris.Wrapf(err, "repository: create project type %q", projectType.ID)
	}
	return created, nil
}

// Delete removes a project type. It returns ErrNotFound when nothing matched
// and ErrConflict while project facts still reference it.
func (r *projectTypeRepository) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM type_projet WHERE id_type_projet = $1`, id)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return ErrConflict
		}
		return eris.Wrapf(err, "repository: delete project type %q", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func scanProjectType(row pgx.Row) (domain.ProjectType, error) {
	var (
		projectType domain.ProjectType
		author      pgtype.Text
	)
	if err := row.Scan(
		&projectType.ID,
		&projectType.Name,
		&projectType.Format,
		&author,
		&projectType.CreatedAt,
	); err != nil {
		return domain.ProjectType{}, err
	}
	projectType.Author = author.String
	return projectType, nil
}
