package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/rpattn/credittrack/internal/db"
	"github.com/rpattn/credittrack/internal/domain"
)

// Dimension lookups compare lower(btrim(name)), the expression the unique
// indexes are built on, so the store is the final judge of identity. Inserts
// use ON CONFLICT DO NOTHING followed by a fresh lookup: a concurrent batch
// that created the same key first wins and both batches end up on its row.

type communeRepository struct {
	db db.DBTX
}

// NewCommuneRepository wires a commune lookup on q.
func NewCommuneRepository(q db.DBTX) CommuneRepository {
	return &communeRepository{db: q}
}

func (r *communeRepository) FindByName(ctx context.Context, name string) (domain.Commune, bool, error) {
	key := domain.NaturalKey(name)
	if key == "" {
		return domain.Commune{}, false, nil
	}

	var commune domain.Commune
	err := r.db.QueryRow(ctx,
		`SELECT id_commune, nom_commune FROM commune WHERE lower(btrim(nom_commune)) = $1`,
		key,
	).Scan(&commune.ID, &commune.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Commune{}, false, nil
		}
		return domain.Commune{}, false, eris.Wrapf(err, "repository: find commune %q", name)
	}
	return commune, true, nil
}

type promoterRepository struct {
	db db.DBTX
}

// NewPromoterRepository wires promoter resolution on q.
func NewPromoterRepository(q db.DBTX) PromoterRepository {
	return &promoterRepository{db: q}
}

func (r *promoterRepository) Ensure(ctx context.Context, promoter domain.Promoter) (int64, bool, error) {
	name := strings.TrimSpace(promoter.Name)
	entity := strings.TrimSpace(promoter.EntityName)
	if name == "" && entity == "" {
		return 0, false, eris.New("repository: promoter identity is empty")
	}

	id, found, err := r.find(ctx, name, entity)
	if err != nil {
		return 0, false, err
	}
	if found {
		if err := r.fillSideFields(ctx, id, promoter); err != nil {
			return 0, false, err
		}
		return id, false, nil
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO promoteur (nom_promoteur, nom_entite, sexe_promoteur, statut_juridique)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT DO NOTHING
		 RETURNING id_promoteur`,
		name, entity, nullableText(promoter.Sex), nullableText(promoter.LegalStatus),
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, eris.Wrapf(err, "repository: insert promoter %q/%q", name, entity)
	}

	id, found, err = r.find(ctx, name, entity)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, eris.Errorf("repository: promoter %q/%q conflicted but is not visible", name, entity)
	}
	return id, false, nil
}

func (r *promoterRepository) find(ctx context.Context, name, entity string) (int64, bool, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT id_promoteur FROM promoteur
		 WHERE lower(btrim(nom_promoteur)) = $1 AND lower(btrim(nom_entite)) = $2`,
		domain.NaturalKey(name), domain.NaturalKey(entity),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, eris.Wrapf(err, "repository: find promoter %q/%q", name, entity)
	}
	return id, true, nil
}

func (r *promoterRepository) fillSideFields(ctx context.Context, id int64, promoter domain.Promoter) error {
	sex := nullableText(promoter.Sex)
	status := nullableText(promoter.LegalStatus)
	if sex == nil && status == nil {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`UPDATE promoteur
		 SET sexe_promoteur = COALESCE(sexe_promoteur, $2),
		     statut_juridique = COALESCE(statut_juridique, $3)
		 WHERE id_promoteur = $1 AND (sexe_promoteur IS NULL OR statut_juridique IS NULL)`,
		id, sex, status,
	)
	if err != nil {
		return eris.Wrapf(err, "repository: enrich promoter %d", id)
	}
	return nil
}

type intermediaryRepository struct {
	db db.DBTX
}

// NewIntermediaryRepository wires intermediary resolution on q.
func NewIntermediaryRepository(q db.DBTX) IntermediaryRepository {
	return &intermediaryRepository{db: q}
}

func (r *intermediaryRepository) Ensure(ctx context.Context, name string) (int64, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false, eris.New("repository: intermediary name is empty")
	}

	id, found, err := r.find(ctx, name)
	if err != nil || found {
		return id, false, err
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO psf (nom_psf) VALUES ($1) ON CONFLICT DO NOTHING RETURNING id_psf`,
		name,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, eris.Wrapf(err, "repository: insert intermediary %q", name)
	}

	id, found, err = r.find(ctx, name)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, eris.Errorf("repository: intermediary %q conflicted but is not visible", name)
	}
	return id, false, nil
}

func (r *intermediaryRepository) find(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT id_psf FROM psf WHERE lower(btrim(nom_psf)) = $1`,
		domain.NaturalKey(name),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, eris.Wrapf(err, "repository: find intermediary %q", name)
	}
	return id, true, nil
}

type sectorRepository struct {
	db db.DBTX
}

// NewSectorRepository wires sector resolution on q.
func NewSectorRepository(q db.DBTX) SectorRepository {
	return &sectorRepository{db: q}
}

func (r *sectorRepository) Ensure(ctx context.Context, sector domain.ValueChainSector) (int64, bool, error) {
	name := strings.TrimSpace(sector.Name)
	if name == "" {
		return 0, false, eris.New("repository: sector name is empty")
	}
	segment := nullableText(sector.Segment)

	id, found, err := r.find(ctx, name)
	if err != nil {
		return 0, false, err
	}
	if found {
		if segment == nil {
			return id, false, nil
		}
		if _, err := r.db.Exec(ctx,
			`UPDATE filiere SET maillon = $2
			 WHERE id_filiere = $1 AND (maillon IS NULL OR btrim(maillon) = '')`,
			id, segment,
		); err != nil {
			return 0, false, eris.Wrapf(err, "repository: set segment of sector %d", id)
		}
		return id, false, nil
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO filiere (nom_filiere, maillon) VALUES ($1, $2) ON CONFLICT DO NOTHING RETURNING id_filiere`,
		name, segment,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, eris.Wrapf(err, "repository: insert sector %q", name)
	}

	id, found, err = r.find(ctx, name)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, eris.Errorf("repository: sector %q conflicted but is not visible", name)
	}
	return id, false, nil
}

func (r *sectorRepository) find(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT id_filiere FROM filiere WHERE lower(btrim(nom_filiere)) = $1`,
		domain.NaturalKey(name),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, eris.Wrapf(err, "repository: find sector %q", name)
	}
	return id, true, nil
}

func nullableText(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
