package assignment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"splitHub/business/bandit"
	"splitHub/domain"
	"splitHub/pkg/logger"

	"github.com/google/uuid"
)

// Dispatcher runs a fire-and-forget task.
type Dispatcher func(task func())

// GoDispatcher runs each task on its own goroutine.
func GoDispatcher(task func()) { go task() }

// SyncDispatcher runs tasks inline. Used by the simulator and tests.
func SyncDispatcher(task func()) { task() }

const defaultBestEffortTimeout = 5 * time.Second

type AssignRequest struct {
	ExperimentID  string
	ExperimentKey string
	VisitorID     string
	Context       map[string]any
}

// Service resolves sticky visitor assignments.
type Service struct {
	experimentRepo ExperimentRepository
	assignmentRepo AssignmentRepository
	statsRepo      StatsRepository
	eventRepo      EventRepository
	cfgRepo        ConfigRepository

	cache      *bandit.ScoreCache
	rng        bandit.RandomSource
	defaultCfg bandit.Config

	bestEffortTimeout time.Duration
	dispatch          Dispatcher
	newID             func() string

	// drainMu orders inflight.Add against Drain's Wait.
	drainMu  sync.Mutex
	draining bool
	inflight sync.WaitGroup
}

func NewService(
	experimentRepo ExperimentRepository,
	assignmentRepo AssignmentRepository,
	statsRepo StatsRepository,
	eventRepo EventRepository,
	cfgRepo ConfigRepository,
	cache *bandit.ScoreCache,
	rng bandit.RandomSource,
	defaultCfg bandit.Config,
	bestEffortTimeout time.Duration,
) *Service {
	if rng == nil {
		rng = bandit.DefaultSource()
	}
	if bestEffortTimeout <= 0 {
		bestEffortTimeout = defaultBestEffortTimeout
	}
	return &Service{
		experimentRepo:    experimentRepo,
		assignmentRepo:    assignmentRepo,
		statsRepo:         statsRepo,
		eventRepo:         eventRepo,
		cfgRepo:           cfgRepo,
		cache:             cache,
		rng:               rng,
		defaultCfg:        defaultCfg.Normalize(),
		bestEffortTimeout: bestEffortTimeout,
		dispatch:          GoDispatcher,
		newID:             uuid.NewString,
	}
}

// UseDispatcher replaces how fire-and-forget writes are run.
func (s *Service) UseDispatcher(d Dispatcher) {
	if d != nil {
		s.dispatch = d
	}
}

// Assign returns the visitor's variant, creating the sticky assignment on
// first contact. Once an assignment exists it is returned as stored, whatever
// the stats or algorithm say now.
func (s *Service) Assign(ctx context.Context, req AssignRequest) (domain.AssignmentResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.AssignmentResult{}, fmt.Errorf("context error: %w", err)
	}

	visitorID := strings.TrimSpace(req.VisitorID)
	if visitorID == "" {
		return domain.AssignmentResult{}, domain.NewValidationError(domain.ErrVisitorIDRequired)
	}

	exp, err := s.resolveExperiment(ctx, req.ExperimentID, req.ExperimentKey)
	if err != nil {
		return domain.AssignmentResult{}, err
	}

	tid := logger.TraceIDFromContext(ctx)

	// 1) sticky lookup
	existing, err := s.assignmentRepo.GetAssignment(ctx, exp.ID, visitorID)
	if err != nil {
		return domain.AssignmentResult{}, fmt.Errorf("load assignment: %w", err)
	}
	if existing != nil {
		return s.existingResult(ctx, exp, *existing, nil)
	}

	// 2) only running experiments with something to show take new visitors
	if !exp.IsRunning() {
		return domain.AssignmentResult{}, domain.NewValidationError(domain.ErrExperimentNotRunning)
	}

	variants, err := s.experimentRepo.GetActiveVariants(ctx, exp.ID)
	if err != nil {
		return domain.AssignmentResult{}, fmt.Errorf("load variants: %w", err)
	}
	if len(variants) == 0 {
		return domain.AssignmentResult{}, domain.NewValidationError(domain.ErrNoActiveVariants)
	}

	// 3) choose
	stats, err := s.statsRepo.GetVariantStats(ctx, exp.ID)
	if err != nil {
		return domain.AssignmentResult{}, fmt.Errorf("load variant stats: %w", err)
	}

	arms := buildArms(variants, stats)
	cfg := s.loadConfig(ctx, exp.ID)
	totalVisitors := bandit.TotalVisitors(arms)
	eligible := cfg.MABEligible(exp.Algorithm, totalVisitors)

	decision := s.decide(ctx, exp, visitorID, arms, cfg, eligible)
	chosen := variants[decision.Index]

	logger.Debug("allocation_decision",
		"trace_id", tid,
		"experiment_id", exp.ID,
		"visitor_id", visitorID,
		"configured_algorithm", exp.Algorithm,
		"algorithm", decision.Algorithm,
		"mab_eligible", eligible,
		"total_visitors", totalVisitors,
		"variant_id", chosen.ID,
		"explored", decision.Explored,
	)

	// 4) persist, insert-if-absent
	stored, created, err := s.assignmentRepo.CreateAssignment(ctx, domain.VisitorAssignment{
		ID:           s.newID(),
		ExperimentID: exp.ID,
		VisitorID:    visitorID,
		VariantID:    chosen.ID,
		Algorithm:    decision.Algorithm,
	})

	persisted := true
	switch {
	case err != nil:
		perr := &domain.PersistenceError{Op: "create_assignment", Err: err}
		logger.Error("assignment not persisted, serving computed variant",
			"trace_id", tid,
			"experiment_id", exp.ID,
			"visitor_id", visitorID,
			"variant_id", chosen.ID,
			"error", perr,
		)
		persisted = false
		AssignmentsTotal.WithLabelValues("unpersisted", string(decision.Algorithm)).Inc()

	case !created:
		// a concurrent request stored first; its answer is canonical
		logger.Info("assignment race lost, using stored variant",
			"trace_id", tid,
			"experiment_id", exp.ID,
			"visitor_id", visitorID,
			"computed_variant_id", chosen.ID,
			"stored_variant_id", stored.VariantID,
		)
		AssignmentsTotal.WithLabelValues("race_lost", string(stored.Algorithm)).Inc()
		return s.existingResult(ctx, exp, stored, variants)

	default:
		AssignmentsTotal.WithLabelValues(string(domain.AssignmentNew), string(decision.Algorithm)).Inc()
	}

	// 5) telemetry never fails the response
	s.trackAssignment(ctx, exp.ID, chosen.ID, visitorID, decision.Algorithm, req.Context)

	kind, url := ResolveURL(chosen, visitorID)
	return domain.AssignmentResult{
		ExperimentID: exp.ID,
		VisitorID:    visitorID,
		Variant:      chosen,
		Behavior:     kind,
		URL:          url,
		Assignment:   domain.AssignmentNew,
		Algorithm:    decision.Algorithm,
		MABEligible:  eligible,
		Score:        finiteScore(decision.Score),
		Persisted:    persisted,
	}, nil
}

// decide runs the percentage split below the bandit threshold and the
// configured scorer (through the cache) above it.
func (s *Service) decide(
	ctx context.Context,
	exp domain.Experiment,
	visitorID string,
	arms []bandit.Arm,
	cfg bandit.Config,
	eligible bool,
) bandit.Decision {
	tid := logger.TraceIDFromContext(ctx)

	if !eligible {
		d, err := bandit.AllocateVisitor(arms, visitorID, exp.ID)
		bandit.ObserveDecision(d, err)
		if err != nil {
			logger.Warn("traffic split failed safe to first variant",
				"trace_id", tid,
				"experiment_id", exp.ID,
				"error", err,
			)
		}
		return d
	}

	key := bandit.Fingerprint(exp.ID, exp.Algorithm, cfg, arms)
	if d, ok := s.cache.Get(key); ok {
		return d
	}

	scorer, err := bandit.NewScorer(exp.Algorithm, cfg, s.rng)
	if err != nil {
		d, allocErr := bandit.AllocateVisitor(arms, visitorID, exp.ID)
		bandit.ObserveDecision(d, allocErr)
		logger.Error("no scorer for algorithm, using traffic split",
			"trace_id", tid,
			"experiment_id", exp.ID,
			"error", err,
		)
		return d
	}

	d, err := scorer.Score(arms)
	bandit.ObserveDecision(d, err)
	if err != nil {
		logger.Warn("scorer failed safe to first variant",
			"trace_id", tid,
			"experiment_id", exp.ID,
			"algorithm", exp.Algorithm,
			"error", err,
		)
		return d
	}

	s.cache.Put(key, d)
	return d
}

// existingResult builds the response for a stored assignment. variants may
// carry the already-loaded active variants to skip a lookup.
func (s *Service) existingResult(
	ctx context.Context,
	exp domain.Experiment,
	a domain.VisitorAssignment,
	variants []domain.Variant,
) (domain.AssignmentResult, error) {
	var (
		variant domain.Variant
		found   bool
	)
	for _, v := range variants {
		if v.ID == a.VariantID {
			variant, found = v, true
			break
		}
	}
	if !found {
		v, err := s.experimentRepo.GetVariant(ctx, exp.ID, a.VariantID)
		if err != nil {
			return domain.AssignmentResult{}, fmt.Errorf("load assigned variant %s: %w", a.VariantID, err)
		}
		variant = v
	}

	if variants == nil {
		AssignmentsTotal.WithLabelValues(string(domain.AssignmentExisting), string(a.Algorithm)).Inc()
	}

	kind, url := ResolveURL(variant, a.VisitorID)
	return domain.AssignmentResult{
		ExperimentID: exp.ID,
		VisitorID:    a.VisitorID,
		Variant:      variant,
		Behavior:     kind,
		URL:          url,
		Assignment:   domain.AssignmentExisting,
		Algorithm:    a.Algorithm,
		MABEligible:  a.Algorithm.IsBandit(),
		Persisted:    true,
	}, nil
}

func (s *Service) resolveExperiment(ctx context.Context, id, key string) (domain.Experiment, error) {
	id = strings.TrimSpace(id)
	key = strings.TrimSpace(key)

	var (
		exp domain.Experiment
		err error
	)
	switch {
	case id != "":
		exp, err = s.experimentRepo.GetExperiment(ctx, id)
	case key != "":
		exp, err = s.experimentRepo.GetExperimentByKey(ctx, key)
	default:
		return domain.Experiment{}, domain.NewValidationError(domain.ErrExperimentRequired)
	}

	if errors.Is(err, domain.ErrExperimentNotFound) {
		return domain.Experiment{}, domain.NewValidationError(domain.ErrExperimentNotFound)
	}
	if err != nil {
		return domain.Experiment{}, fmt.Errorf("load experiment: %w", err)
	}
	return exp, nil
}

// buildArms pairs variants with their counters, keeping variant order.
func buildArms(variants []domain.Variant, stats map[string]domain.VariantStats) []bandit.Arm {
	arms := make([]bandit.Arm, 0, len(variants))
	for _, v := range variants {
		st := stats[v.ID]
		arms = append(arms, bandit.Arm{
			VariantID:         v.ID,
			TrafficPercentage: v.TrafficPercentage,
			Visitors:          st.Visitors,
			Conversions:       st.Conversions,
			Revenue:           st.Revenue,
		})
	}
	return arms
}

// finiteScore keeps +Inf (unexplored UCB1 arms) out of JSON responses.
func finiteScore(score float64) float64 {
	if math.IsInf(score, 0) || math.IsNaN(score) {
		return 0
	}
	return score
}
