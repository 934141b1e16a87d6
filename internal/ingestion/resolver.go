package ingestion

import (
	"context"

	"github.com/rpattn/credittrack/internal/domain"
	"github.com/rpattn/credittrack/internal/repository"
)

type promoterEntry struct {
	id         int64
	sexSeen    bool
	statusSeen bool
}

type sectorEntry struct {
	id          int64
	segmentSeen bool
}

// dimensionResolver turns the free-text references of a record into
// dimension keys. It lives for one batch and caches what it resolved so
// repeated names cost one round trip.
type dimensionResolver struct {
	repos repository.Dimensions

	communes       map[string]int64
	promoters      map[domain.PromoterKey]promoterEntry
	intermediaries map[string]int64
	sectors        map[string]sectorEntry

	created domain.DimensionCounts
}

func newDimensionResolver(repos repository.Dimensions) *dimensionResolver {
	return &dimensionResolver{
		repos:          repos,
		communes:       make(map[string]int64),
		promoters:      make(map[domain.PromoterKey]promoterEntry),
		intermediaries: make(map[string]int64),
		sectors:        make(map[string]sectorEntry),
	}
}

func (r *dimensionResolver) resolve(ctx context.Context, record domain.Record) (domain.DimensionKeys, error) {
	var (
		keys domain.DimensionKeys
		err  error
	)

	if keys.CommuneID, err = r.commune(ctx, record); err != nil {
		return keys, err
	}
	if keys.PromoterID, err = r.promoter(ctx, record); err != nil {
		return keys, err
	}
	if keys.IntermediaryID, err = r.intermediary(ctx, record); err != nil {
		return keys, err
	}
	if keys.SectorID, err = r.sector(ctx, record); err != nil {
		return keys, err
	}
	return keys, nil
}

// commune is lookup only. A blank or unknown name fails the batch.
func (r *dimensionResolver) commune(ctx context.Context, record domain.Record) (int64, error) {
	name := record.TextOf(domain.FieldCommune)
	key := domain.NaturalKey(name)
	if key == "" {
		return 0, &domain.UnknownCommuneError{Value: name, Line: record.Line}
	}
	if id, ok := r.communes[key]; ok {
		return id, nil
	}

	commune, ok, err := r.repos.Communes.FindByName(ctx, name)
	if err != nil {
		return 0, domain.NewPersistenceError("look up commune", err)
	}
	if !ok {
		return 0, &domain.UnknownCommuneError{Value: name, Line: record.Line}
	}
	r.communes[key] = commune.ID
	return commune.ID, nil
}

func (r *dimensionResolver) promoter(ctx context.Context, record domain.Record) (*int64, error) {
	promoter := domain.Promoter{
		Name:        record.TextOf(domain.FieldPromoterName),
		EntityName:  record.TextOf(domain.FieldEntityName),
		Sex:         record.TextOf(domain.FieldPromoterSex),
		LegalStatus: record.TextOf(domain.FieldLegalStatus),
	}
	if promoter.IsBlank() {
		return nil, nil
	}

	key := promoter.Key()
	entry, cached := r.promoters[key]
	hasSex := promoter.Sex != ""
	hasStatus := promoter.LegalStatus != ""
	if cached && (entry.sexSeen || !hasSex) && (entry.statusSeen || !hasStatus) {
		return &entry.id, nil
	}

	id, created, err := r.repos.Promoters.Ensure(ctx, promoter)
	if err != nil {
		return nil, domain.NewPersistenceError("resolve promoter", err)
	}
	if created {
		r.created.Promoters++
	}
	entry = promoterEntry{
		id:         id,
		sexSeen:    entry.sexSeen || hasSex,
		statusSeen: entry.statusSeen || hasStatus,
	}
	r.promoters[key] = entry
	return &entry.id, nil
}

func (r *dimensionResolver) intermediary(ctx context.Context, record domain.Record) (*int64, error) {
	name := record.TextOf(domain.FieldIntermediary)
	key := domain.NaturalKey(name)
	if key == "" {
		return nil, nil
	}
	if id, ok := r.intermediaries[key]; ok {
		return &id, nil
	}

	id, created, err := r.repos.Intermediaries.Ensure(ctx, name)
	if err != nil {
		return nil, domain.NewPersistenceError("resolve intermediary", err)
	}
	if created {
		r.created.Intermediaries++
	}
	r.intermediaries[key] = id
	return &id, nil
}

func (r *dimensionResolver) sector(ctx context.Context, record domain.Record) (*int64, error) {
	sector := domain.ValueChainSector{
		Name:    record.TextOf(domain.FieldSector),
		Segment: record.TextOf(domain.FieldCreditSegment),
	}
	key := domain.NaturalKey(sector.Name)
	if key == "" {
		return nil, nil
	}

	hasSegment := sector.Segment != ""
	entry, cached := r.sectors[key]
	if cached && (entry.segmentSeen || !hasSegment) {
		return &entry.id, nil
	}

	id, created, err := r.repos.Sectors.Ensure(ctx, sector)
	if err != nil {
		return nil, domain.NewPersistenceError("resolve sector", err)
	}
	if created {
		r.created.Sectors++
	}
	r.sectors[key] = sectorEntry{id: id, segmentSeen: entry.segmentSeen || hasSegment}
	return &id, nil
}
