package assignment

import (
	"context"
	"fmt"
	"math"

	"splitHub/business/bandit"
	"splitHub/domain"
	"splitHub/pkg/logger"
)

const (
	defaultDebugSamples = 1000
	maxDebugSamples     = 100000
)

// DebugScores shows how each policy sees the experiment right now. It reads
// only; nothing is assigned, cached or counted.
func (s *Service) DebugScores(ctx context.Context, experimentID string, samples int) (domain.ExperimentDebug, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExperimentDebug{}, fmt.Errorf("context error: %w", err)
	}
	if samples <= 0 {
		samples = defaultDebugSamples
	}
	if samples > maxDebugSamples {
		samples = maxDebugSamples
	}

	exp, err := s.resolveExperiment(ctx, experimentID, "")
	if err != nil {
		return domain.ExperimentDebug{}, err
	}

	variants, err := s.experimentRepo.GetActiveVariants(ctx, exp.ID)
	if err != nil {
		return domain.ExperimentDebug{}, fmt.Errorf("load variants: %w", err)
	}
	if len(variants) == 0 {
		return domain.ExperimentDebug{}, domain.NewValidationError(domain.ErrNoActiveVariants)
	}

	stats, err := s.statsRepo.GetVariantStats(ctx, exp.ID)
	if err != nil {
		return domain.ExperimentDebug{}, fmt.Errorf("load variant stats: %w", err)
	}

	arms := buildArms(variants, stats)
	cfg := s.loadConfig(ctx, exp.ID)
	total := bandit.TotalVisitors(arms)

	logger.Debug("allocation_debug_scores",
		"trace_id", logger.TraceIDFromContext(ctx),
		"experiment_id", exp.ID,
		"total_visitors", total,
		"samples", samples,
	)

	ts := bandit.NewThompsonSampling(cfg.PriorAlpha, cfg.PriorBeta, s.rng)
	wins := make([]int, len(arms))
	for i := 0; i < samples; i++ {
		d, err := ts.Score(arms)
		if err != nil {
			return domain.ExperimentDebug{}, err
		}
		wins[d.Index]++
	}

	out := domain.ExperimentDebug{
		ExperimentID:  exp.ID,
		Algorithm:     exp.Algorithm,
		TotalVisitors: total,
		MABEligible:   cfg.MABEligible(exp.Algorithm, total),
		Favourites:    make(map[domain.Algorithm]string, 4),
		DebugSamples:  samples,
		Variants:      make([]domain.DebugVariantScore, 0, len(arms)),
	}

	bestUCB, bestRate, bestShare, bestWins := 0, 0, 0, 0
	ucbScores := make([]float64, len(arms))
	for i, a := range arms {
		alpha, beta := ts.Posterior(a)
		ucbScores[i] = bandit.UCB1Score(a, total, cfg.UCBConfidence)

		ucb := ucbScores[i]
		if math.IsInf(ucb, 1) {
			ucb = -1
		}

		out.Variants = append(out.Variants, domain.DebugVariantScore{
			VariantID:         a.VariantID,
			Name:              variants[i].Name,
			TrafficPercentage: a.TrafficPercentage,
			Visitors:          a.Visitors,
			Conversions:       a.Conversions,
			Revenue:           a.Revenue,
			ConversionRate:    a.ConversionRate(),
			UCB1Score:         ucb,
			PosteriorMean:     bandit.PosteriorMean(alpha, beta),
			PosteriorWins:     wins[i],
		})

		if ucbScores[i] > ucbScores[bestUCB] {
			bestUCB = i
		}
		if a.ConversionRate() > arms[bestRate].ConversionRate() {
			bestRate = i
		}
		if a.TrafficPercentage > arms[bestShare].TrafficPercentage {
			bestShare = i
		}
		if wins[i] > wins[bestWins] {
			bestWins = i
		}
	}

	out.Favourites[domain.AlgorithmUCB1] = arms[bestUCB].VariantID
	out.Favourites[domain.AlgorithmEpsilonGreedy] = arms[bestRate].VariantID
	out.Favourites[domain.AlgorithmUniform] = arms[bestShare].VariantID
	out.Favourites[domain.AlgorithmThompsonSampling] = arms[bestWins].VariantID

	return out, nil
}
