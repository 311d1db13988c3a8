package bandit

import (
	"math"

	"splitHub/domain"
)

const (
	epsilonDecayFactor = 0.95
	epsilonDecayStep   = 1000
)

// EpsilonGreedy explores a uniformly random arm with probability epsilon and
// otherwise exploits the best empirical conversion rate. With decay enabled,
// epsilon shrinks by 0.95 for every 1000 visitors seen.
type EpsilonGreedy struct {
	epsilon float64
	decay   bool
	rng     RandomSource
}

func NewEpsilonGreedy(epsilon float64, decay bool, rng RandomSource) *EpsilonGreedy {
	if epsilon < 0 || epsilon > 1 || math.IsNaN(epsilon) {
		epsilon = defaultEpsilon
	}
	return &EpsilonGreedy{epsilon: epsilon, decay: decay, rng: rng}
}

func (e *EpsilonGreedy) Algorithm() domain.Algorithm { return domain.AlgorithmEpsilonGreedy }

// EffectiveEpsilon applies the optional decay for totalVisitors.
func EffectiveEpsilon(epsilon float64, decay bool, totalVisitors int64) float64 {
	if !decay || totalVisitors < epsilonDecayStep {
		return epsilon
	}
	steps := math.Floor(float64(totalVisitors) / epsilonDecayStep)
	return epsilon * math.Pow(epsilonDecayFactor, steps)
}

func (e *EpsilonGreedy) Score(arms []Arm) (Decision, error) {
	if err := validateArms("epsilon_greedy", arms); err != nil {
		return failSafe(arms, domain.AlgorithmEpsilonGreedy, err)
	}

	eps := EffectiveEpsilon(e.epsilon, e.decay, TotalVisitors(arms))
	if e.rng.Float64() < eps {
		i := e.rng.Intn(len(arms))
		d := decisionFor(arms, i, arms[i].ConversionRate(), domain.AlgorithmEpsilonGreedy)
		d.Explored = true
		return d, nil
	}

	// ties keep the earlier variant
	best := 0
	bestRate := arms[0].ConversionRate()
	for i := 1; i < len(arms); i++ {
		if rate := arms[i].ConversionRate(); rate > bestRate {
			best = i
			bestRate = rate
		}
	}

	return decisionFor(arms, best, bestRate, domain.AlgorithmEpsilonGreedy), nil
}
