package bandit

import (
	"errors"
	"fmt"
	"math"

	"splitHub/domain"
)

var ErrNoArms = errors.New("no arms to score")

// Arm is one variant as the scorers see it: its prior weight and live counters.
type Arm struct {
	VariantID         string
	TrafficPercentage float64
	Visitors          int64
	Conversions       int64
	// Revenue is carried for reporting; no scorer reads it.
	Revenue float64
}

// ConversionRate is conversions/visitors, 0 for an unseen arm.
func (a Arm) ConversionRate() float64 {
	if a.Visitors <= 0 {
		return 0
	}
	return float64(a.Conversions) / float64(a.Visitors)
}

// Decision is the outcome of one scoring pass.
type Decision struct {
	VariantID string
	Index     int
	Score     float64
	Algorithm domain.Algorithm
	Explored  bool
}

// Scorer picks one arm. Implementations do no I/O and keep no state beyond
// their parameters and random source.
type Scorer interface {
	Algorithm() domain.Algorithm
	Score(arms []Arm) (Decision, error)
}

// NewScorer builds the scorer for alg using cfg's parameters.
func NewScorer(alg domain.Algorithm, cfg Config, rng RandomSource) (Scorer, error) {
	cfg = cfg.Normalize()
	if rng == nil {
		rng = DefaultSource()
	}

	switch alg {
	case domain.AlgorithmThompsonSampling:
		return NewThompsonSampling(cfg.PriorAlpha, cfg.PriorBeta, rng), nil
	case domain.AlgorithmUCB1:
		return NewUCB1(cfg.UCBConfidence, rng), nil
	case domain.AlgorithmEpsilonGreedy:
		return NewEpsilonGreedy(cfg.Epsilon, cfg.EpsilonDecay, rng), nil
	case domain.AlgorithmUniform:
		return NewWeightedRandom(rng), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", alg)
	}
}

// TotalVisitors sums visitors across arms.
func TotalVisitors(arms []Arm) int64 {
	var total int64
	for _, a := range arms {
		total += a.Visitors
	}
	return total
}

// validateArms rejects counters no scorer can reason about.
func validateArms(op string, arms []Arm) error {
	if len(arms) == 0 {
		return ErrNoArms
	}
	for _, a := range arms {
		if a.Visitors < 0 || a.Conversions < 0 {
			return &domain.ComputationError{
				Op:  op,
				Err: fmt.Errorf("variant %s has negative counters (visitors=%d conversions=%d)", a.VariantID, a.Visitors, a.Conversions),
			}
		}
		if math.IsNaN(a.Revenue) || math.IsInf(a.Revenue, 0) {
			return &domain.ComputationError{
				Op:  op,
				Err: fmt.Errorf("variant %s has non-finite revenue", a.VariantID),
			}
		}
	}
	return nil
}

// failSafe is the answer for malformed input: the first arm, i.e. the control.
func failSafe(arms []Arm, alg domain.Algorithm, err error) (Decision, error) {
	if len(arms) == 0 {
		return Decision{}, err
	}
	return Decision{
		VariantID: arms[0].VariantID,
		Index:     0,
		Algorithm: alg,
	}, err
}

func decisionFor(arms []Arm, i int, score float64, alg domain.Algorithm) Decision {
	return Decision{
		VariantID: arms[i].VariantID,
		Index:     i,
		Score:     score,
		Algorithm: alg,
	}
}
