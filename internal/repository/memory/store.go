package memory

import (
	"context"
	"sort"
	"sync"

	"splitHub/business/assignment"
	"splitHub/domain"
)

// Store keeps experiments, assignments, counters and events in process.
// It backs the simulator and tests; every method is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	experiments map[string]domain.Experiment
	keys        map[string]string
	variants    map[string][]domain.Variant
	assignments map[string]domain.VisitorAssignment
	stats       map[string]map[string]domain.VariantStats
	configs     map[string]domain.BanditConfig
	events      []domain.AssignmentEvent
}

var (
	_ assignment.ExperimentRepository = (*Store)(nil)
	_ assignment.AssignmentRepository = (*Store)(nil)
	_ assignment.StatsRepository      = (*Store)(nil)
	_ assignment.EventRepository      = (*Store)(nil)
	_ assignment.ConfigRepository     = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		experiments: make(map[string]domain.Experiment),
		keys:        make(map[string]string),
		variants:    make(map[string][]domain.Variant),
		assignments: make(map[string]domain.VisitorAssignment),
		stats:       make(map[string]map[string]domain.VariantStats),
		configs:     make(map[string]domain.BanditConfig),
	}
}

// PutExperiment replaces the experiment and its variants.
func (s *Store) PutExperiment(exp domain.Experiment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	variants := make([]domain.Variant, len(exp.Variants))
	copy(variants, exp.Variants)
	for i := range variants {
		variants[i].ExperimentID = exp.ID
	}
	sort.SliceStable(variants, func(i, j int) bool {
		return variants[i].Position < variants[j].Position
	})

	exp.Variants = nil
	s.experiments[exp.ID] = exp
	if exp.Key != "" {
		s.keys[exp.Key] = exp.ID
	}
	s.variants[exp.ID] = variants
}

// SetStatus changes an experiment's lifecycle state.
func (s *Store) SetStatus(experimentID string, status domain.ExperimentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.experiments[experimentID]
	if !ok {
		return domain.ErrExperimentNotFound
	}
	exp.Status = status
	s.experiments[experimentID] = exp
	return nil
}

// SetAlgorithm switches the allocation algorithm of an experiment.
func (s *Store) SetAlgorithm(experimentID string, alg domain.Algorithm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.experiments[experimentID]
	if !ok {
		return domain.ErrExperimentNotFound
	}
	exp.Algorithm = alg
	s.experiments[experimentID] = exp
	return nil
}

// SeedStats overwrites the counters of one variant.
func (s *Store) SeedStats(st domain.VariantStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsFor(st.ExperimentID)[st.VariantID] = st
}

func (s *Store) GetExperiment(ctx context.Context, id string) (domain.Experiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exp, ok := s.experiments[id]
	if !ok {
		return domain.Experiment{}, domain.ErrExperimentNotFound
	}
	return exp, nil
}

func (s *Store) GetExperimentByKey(ctx context.Context, key string) (domain.Experiment, error) {
	s.mu.RLock()
	id, ok := s.keys[key]
	s.mu.RUnlock()
	if !ok {
		return domain.Experiment{}, domain.ErrExperimentNotFound
	}
	return s.GetExperiment(ctx, id)
}

func (s *Store) GetActiveVariants(ctx context.Context, experimentID string) ([]domain.Variant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Variant, 0, len(s.variants[experimentID]))
	for _, v := range s.variants[experimentID] {
		if v.Active {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Store) GetVariant(ctx context.Context, experimentID, variantID string) (domain.Variant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.variants[experimentID] {
		if v.ID == variantID {
			return v, nil
		}
	}
	return domain.Variant{}, domain.ErrVariantNotFound
}

func assignmentKey(experimentID, visitorID string) string {
	return experimentID + "\x00" + visitorID
}

func (s *Store) GetAssignment(ctx context.Context, experimentID, visitorID string) (*domain.VisitorAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assignments[assignmentKey(experimentID, visitorID)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *Store) CreateAssignment(ctx context.Context, a domain.VisitorAssignment) (domain.VisitorAssignment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := assignmentKey(a.ExperimentID, a.VisitorID)
	if stored, ok := s.assignments[k]; ok {
		return stored, false, nil
	}
	s.assignments[k] = a
	return a, true, nil
}

// AssignmentCount is the number of sticky assignments for an experiment.
func (s *Store) AssignmentCount(experimentID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, a := range s.assignments {
		if a.ExperimentID == experimentID {
			n++
		}
	}
	return n
}

// statsFor returns the per-variant map for an experiment. Caller holds s.mu.
func (s *Store) statsFor(experimentID string) map[string]domain.VariantStats {
	m, ok := s.stats[experimentID]
	if !ok {
		m = make(map[string]domain.VariantStats)
		s.stats[experimentID] = m
	}
	return m
}

func (s *Store) GetVariantStats(ctx context.Context, experimentID string) (map[string]domain.VariantStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.VariantStats, len(s.stats[experimentID]))
	for k, v := range s.stats[experimentID] {
		out[k] = v
	}
	return out, nil
}

func (s *Store) IncrementVisitorCount(ctx context.Context, experimentID, variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.statsFor(experimentID)
	st := m[variantID]
	st.ExperimentID, st.VariantID = experimentID, variantID
	st.Visitors++
	m[variantID] = st
	return nil
}

func (s *Store) IncrementConversionCount(ctx context.Context, experimentID, variantID string, revenue float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.statsFor(experimentID)
	st := m[variantID]
	st.ExperimentID, st.VariantID = experimentID, variantID
	st.Conversions++
	st.Revenue += revenue
	m[variantID] = st
	return nil
}

func (s *Store) SaveEvent(ctx context.Context, event domain.AssignmentEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of every saved event in insertion order.
func (s *Store) Events() []domain.AssignmentEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AssignmentEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Store) GetConfig(ctx context.Context, experimentID string) (domain.BanditConfig, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[experimentID]
	return cfg, ok, nil
}

func (s *Store) UpsertConfig(ctx context.Context, cfg domain.BanditConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.ExperimentID] = cfg
	return nil
}
