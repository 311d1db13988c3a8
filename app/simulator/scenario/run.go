package scenario

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"splitHub/business/assignment"
	"splitHub/business/bandit"
	"splitHub/domain"
	"splitHub/internal/repository/memory"

	"github.com/google/uuid"
)

type VariantResult struct {
	ID           string
	Name         string
	TrueRate     float64
	Visitors     int64
	Share        float64
	Conversions  int64
	ObservedRate float64
	Revenue      float64
}

type Report struct {
	Scenario    string
	Algorithm   domain.Algorithm
	Visitors    int
	Conversions int64
	// Regret is expected conversions lost against always serving the best
	// variant.
	Regret   float64
	Variants []VariantResult
}

// Run replays sc.Visitors synthetic visitors through the real assignment
// service backed by the in-memory store. Conversions are drawn from each
// variant's true rate. Equal seeds give equal reports.
func Run(ctx context.Context, sc Scenario, seed int64) (Report, error) {
	store := memory.NewStore()
	exp := sc.Experiment()
	store.PutExperiment(exp)
	if err := store.UpsertConfig(ctx, sc.overrides(exp.ID)); err != nil {
		return Report{}, err
	}

	// scorer draws and visitor behaviour use separate streams so changing
	// one does not reshuffle the other
	scorerRNG := bandit.NewSeededSource(seed)
	world := rand.New(rand.NewSource(seed + 1))

	svc := assignment.NewService(store, store, store, store, store,
		bandit.NewScoreCache(sc.Config().ScoreCacheTTL, nil),
		scorerRNG, bandit.DefaultConfig(), time.Second)
	svc.UseDispatcher(assignment.SyncDispatcher)

	truth := make(map[string]VariantSpec, len(sc.Variants))
	for _, v := range sc.Variants {
		truth[v.ID] = v
	}
	best := sc.bestRate()

	report := Report{Scenario: sc.Name, Algorithm: sc.Algorithm, Visitors: sc.Visitors}

	for i := 0; i < sc.Visitors; i++ {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}

		id, err := uuid.NewRandomFromReader(world)
		if err != nil {
			return Report{}, fmt.Errorf("visitor id: %w", err)
		}
		visitorID := id.String()

		res, err := svc.Assign(ctx, assignment.AssignRequest{ExperimentID: exp.ID, VisitorID: visitorID})
		if err != nil {
			return Report{}, fmt.Errorf("assign visitor %d: %w", i, err)
		}

		v := truth[res.Variant.ID]
		report.Regret += best - v.ConversionRate

		if world.Float64() < v.ConversionRate {
			_, err := svc.RecordConversion(ctx, assignment.ConversionRequest{
				ExperimentID: exp.ID,
				VisitorID:    visitorID,
				Revenue:      v.Revenue,
			})
			if err != nil {
				return Report{}, fmt.Errorf("convert visitor %d: %w", i, err)
			}
		}
	}

	stats, err := store.GetVariantStats(ctx, exp.ID)
	if err != nil {
		return Report{}, err
	}

	for _, v := range exp.Variants {
		st := stats[v.ID]
		report.Conversions += st.Conversions
		report.Variants = append(report.Variants, VariantResult{
			ID:           v.ID,
			Name:         v.Name,
			TrueRate:     truth[v.ID].ConversionRate,
			Visitors:     st.Visitors,
			Share:        float64(st.Visitors) / float64(sc.Visitors),
			Conversions:  st.Conversions,
			ObservedRate: st.ConversionRate(),
			Revenue:      st.Revenue,
		})
	}

	return report, nil
}

type PolicyResult struct {
	Algorithm   domain.Algorithm
	Conversions int64
	Regret      float64
	Shares      []float64
}

// Compare runs each policy on its own copy of the arms with no sticky layer
// and no eligibility threshold, so the scorers are judged on their own.
func Compare(sc Scenario, seed int64, algorithms []domain.Algorithm) ([]PolicyResult, error) {
	cfg := sc.Config()
	best := sc.bestRate()

	out := make([]PolicyResult, 0, len(algorithms))
	for _, alg := range algorithms {
		rng := bandit.NewSeededSource(seed)
		world := rand.New(rand.NewSource(seed + 1))

		scorer, err := bandit.NewScorer(alg, cfg, rng)
		if err != nil {
			return nil, err
		}

		arms := make([]bandit.Arm, len(sc.Variants))
		for i, v := range sc.Variants {
			arms[i] = bandit.Arm{VariantID: v.ID, TrafficPercentage: v.TrafficPercentage}
		}

		res := PolicyResult{Algorithm: alg, Shares: make([]float64, len(arms))}
		for i := 0; i < sc.Visitors; i++ {
			d, err := scorer.Score(arms)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", alg, err)
			}

			v := sc.Variants[d.Index]
			arms[d.Index].Visitors++
			res.Regret += best - v.ConversionRate
			if world.Float64() < v.ConversionRate {
				arms[d.Index].Conversions++
				arms[d.Index].Revenue += v.Revenue
				res.Conversions++
			}
		}

		for i, a := range arms {
			res.Shares[i] = float64(a.Visitors) / float64(sc.Visitors)
		}
		out = append(out, res)
	}
	return out, nil
}
