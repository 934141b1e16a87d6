package ingestion

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/rpattn/credittrack/internal/domain"
	"github.com/rpattn/credittrack/internal/repository"
)

// memState is the content of the in-memory store. Batches work on a copy
// that replaces the committed state only when the batch succeeds.
type memState struct {
	nextID         int64
	communes       map[string]domain.Commune
	promoters      map[domain.PromoterKey]domain.Promoter
	intermediaries map[string]domain.Intermediary
	sectors        map[string]domain.ValueChainSector
	facts          []domain.ProjectFact
	staging        []domain.StagedRow
}

func (s *memState) clone() *memState {
	c := &memState{
		nextID:         s.nextID,
		communes:       make(map[string]domain.Commune, len(s.communes)),
		promoters:      make(map[domain.PromoterKey]domain.Promoter, len(s.promoters)),
		intermediaries: make(map[string]domain.Intermediary, len(s.intermediaries)),
		sectors:        make(map[string]domain.ValueChainSector, len(s.sectors)),
		facts:          append([]domain.ProjectFact(nil), s.facts...),
		staging:        append([]domain.StagedRow(nil), s.staging...),
	}
	for k, v := range s.communes {
		c.communes[k] = v
	}
	for k, v := range s.promoters {
		c.promoters[k] = v
	}
	for k, v := range s.intermediaries {
		c.intermediaries[k] = v
	}
	for k, v := range s.sectors {
		c.sectors[k] = v
	}
	return c
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

// memStore is a BatchStore with all-or-nothing batches. Batches are
// serialized, like the staging lock serializes them in Postgres.
type memStore struct {
	mu        sync.Mutex
	state     *memState
	failFacts error
	batches   int
}

func newMemStore(communes ...string) *memStore {
	state := &memState{
		communes:       map[string]domain.Commune{},
		promoters:      map[domain.PromoterKey]domain.Promoter{},
		intermediaries: map[string]domain.Intermediary{},
		sectors:        map[string]domain.ValueChainSector{},
	}
	for _, name := range communes {
		state.communes[domain.NaturalKey(name)] = domain.Commune{ID: state.id(), Name: name}
	}
	return &memStore{state: state}
}

func (m *memStore) WithinBatch(ctx context.Context, fn func(ctx context.Context, repos repository.BatchRepositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++

	work := m.state.clone()
	repos := repository.BatchRepositories{
		Dimensions: repository.Dimensions{
			Communes:       memCommunes{work},
			Promoters:      memPromoters{work},
			Intermediaries: memIntermediaries{work},
			Sectors:        memSectors{work},
		},
		Facts:   memFacts{state: work, fail: m.failFacts},
		Staging: memStaging{work},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memStore) snapshot() *memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

type memCommunes struct{ s *memState }

func (r memCommunes) FindByName(_ context.Context, name string) (domain.Commune, bool, error) {
	c, ok := r.s.communes[domain.NaturalKey(name)]
	return c, ok, nil
}

type memPromoters struct{ s *memState }

func (r memPromoters) Ensure(_ context.Context, p domain.Promoter) (int64, bool, error) {
	key := p.Key()
	if existing, ok := r.s.promoters[key]; ok {
		if existing.Sex == "" {
			existing.Sex = p.Sex
		}
		if existing.LegalStatus == "" {
			existing.LegalStatus = p.LegalStatus
		}
		r.s.promoters[key] = existing
		return existing.ID, false, nil
	}
	p.ID = r.s.id()
	r.s.promoters[key] = p
	return p.ID, true, nil
}

type memIntermediaries struct{ s *memState }

func (r memIntermediaries) Ensure(_ context.Context, name string) (int64, bool, error) {
	key := domain.NaturalKey(name)
	if existing, ok := r.s.intermediaries[key]; ok {
		return existing.ID, false, nil
	}
	i := domain.Intermediary{ID: r.s.id(), Name: name}
	r.s.intermediaries[key] = i
	return i.ID, true, nil
}

type memSectors struct{ s *memState }

func (r memSectors) Ensure(_ context.Context, sector domain.ValueChainSector) (int64, bool, error) {
	key := domain.NaturalKey(sector.Name)
	if existing, ok := r.s.sectors[key]; ok {
		if existing.Segment == "" {
			existing.Segment = sector.Segment
			r.s.sectors[key] = existing
		}
		return existing.ID, false, nil
	}
	sector.ID = r.s.id()
	r.s.sectors[key] = sector
	return sector.ID, true, nil
}

type memFacts struct {
	state *memState
	fail  error
}

func (r memFacts) InsertBatch(_ context.Context, facts []domain.ProjectFact) (int64, error) {
	if r.fail != nil {
		return 0, r.fail
	}
	r.state.facts = append(r.state.facts, facts...)
	return int64(len(facts)), nil
}

type memStaging struct{ s *memState }

func (r memStaging) Replace(_ context.Context, _ uuid.UUID, rows []domain.StagedRow) (int64, error) {
	r.s.staging = append([]domain.StagedRow(nil), rows...)
	return int64(len(rows)), nil
}

type memLedger struct {
	mu      sync.Mutex
	entries []domain.ImportLedgerEntry
	fail    error
}

func (l *memLedger) Record(ctx context.Context, entry domain.ImportLedgerEntry) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail != nil {
		return l.fail
	}
	entry.ID = int64(len(l.entries) + 1)
	l.entries = append(l.entries, entry)
	return nil
}

func (l *memLedger) List(_ context.Context, limit, offset int) ([]domain.ImportLedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail != nil {
		return nil, l.fail
	}
	out := make([]domain.ImportLedgerEntry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		out = append(out, l.entries[i])
	}
	if offset > len(out) {
		return []domain.ImportLedgerEntry{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (l *memLedger) all() []domain.ImportLedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.ImportLedgerEntry(nil), l.entries...)
}

var errLedgerDown = errors.New("ledger unavailable")
