package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"neurogonos/internal/genotype"
	"neurogonos/internal/model"
)

// MemoryStore keeps every record in process memory. Values are copied on
// the way in and out so callers can keep mutating what they handed over.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	genomes     map[string]model.Genome
	runs        map[string]model.RunRecord
	runOrder    []string
	lineage     map[string][]model.LineageRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.reset()
	return nil
}

func (s *MemoryStore) reset() {
	s.initialized = true
	s.genomes = make(map[string]model.Genome)
	s.runs = make(map[string]model.RunRecord)
	s.runOrder = nil
	s.lineage = make(map[string][]model.LineageRecord)
}

func (s *MemoryStore) SaveGenome(_ context.Context, genome model.Genome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.genomes[genome.ID] = genotype.CloneGenome(genome)
	return nil
}

func (s *MemoryStore) GetGenome(_ context.Context, id string) (model.Genome, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.Genome{}, false, errNotInitialized
	}
	genome, ok := s.genomes[id]
	if !ok {
		return model.Genome{}, false, nil
	}
	return genotype.CloneGenome(genome), true, nil
}

func (s *MemoryStore) ListGenomeIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	ids := make([]string, 0, len(s.genomes))
	for id := range s.genomes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	if _, ok := s.runs[run.ID]; !ok {
		s.runOrder = append(s.runOrder, run.ID)
	}
	s.runs[run.ID] = cloneRun(run)
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.RunRecord{}, false, errNotInitialized
	}
	run, ok := s.runs[id]
	if !ok {
		return model.RunRecord{}, false, nil
	}
	return cloneRun(run), true, nil
}

// ListRuns returns runs newest first. A non-positive limit returns all of
// them.
func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	runs := make([]model.RunRecord, 0, len(s.runOrder))
	for i := len(s.runOrder) - 1; i >= 0; i-- {
		if limit > 0 && len(runs) == limit {
			break
		}
		runs = append(runs, cloneRun(s.runs[s.runOrder[i]]))
	}
	return runs, nil
}

func (s *MemoryStore) SaveLineage(_ context.Context, runID string, lineage []model.LineageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.lineage[runID] = cloneLineage(lineage)
	return nil
}

func (s *MemoryStore) GetLineage(_ context.Context, runID string) ([]model.LineageRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false, errNotInitialized
	}
	lineage, ok := s.lineage[runID]
	if !ok {
		return nil, false, nil
	}
	return cloneLineage(lineage), true, nil
}

var errNotInitialized = errors.New("store is not initialized")

func cloneRun(run model.RunRecord) model.RunRecord {
	run.DadWidths = append([]int(nil), run.DadWidths...)
	run.MomWidths = append([]int(nil), run.MomWidths...)
	return run
}

func cloneLineage(lineage []model.LineageRecord) []model.LineageRecord {
	copied := make([]model.LineageRecord, 0, len(lineage))
	for _, record := range lineage {
		record.ChildWidths = append([]int(nil), record.ChildWidths...)
		copied = append(copied, record)
	}
	return copied
}
