package bandit

import "splitHub/domain"

// ThompsonSampling draws once from every arm's Beta posterior and picks the
// highest draw. An unseen arm samples from Beta(priorAlpha, priorBeta), which
// is uniform(0,1) with the default priors.
type ThompsonSampling struct {
	priorAlpha float64
	priorBeta  float64
	rng        RandomSource
}

func NewThompsonSampling(priorAlpha, priorBeta float64, rng RandomSource) *ThompsonSampling {
	if priorAlpha <= 0 {
		priorAlpha = defaultPriorAlpha
	}
	if priorBeta <= 0 {
		priorBeta = defaultPriorBeta
	}
	return &ThompsonSampling{priorAlpha: priorAlpha, priorBeta: priorBeta, rng: rng}
}

func (t *ThompsonSampling) Algorithm() domain.Algorithm { return domain.AlgorithmThompsonSampling }

// Posterior returns the Beta parameters for a.
func (t *ThompsonSampling) Posterior(a Arm) (alpha, beta float64) {
	failures := a.Visitors - a.Conversions
	if failures < 0 {
		// conversions can outrun visitors when a best-effort visitor increment was lost
		failures = 0
	}
	return float64(a.Conversions) + t.priorAlpha, float64(failures) + t.priorBeta
}

func (t *ThompsonSampling) Score(arms []Arm) (Decision, error) {
	if err := validateArms("thompson_sampling", arms); err != nil {
		return failSafe(arms, domain.AlgorithmThompsonSampling, err)
	}

	best := 0
	bestSample := -1.0
	for i, a := range arms {
		alpha, beta := t.Posterior(a)
		x := sampleBeta(t.rng, alpha, beta)
		if x > bestSample {
			best = i
			bestSample = x
		}
	}

	return decisionFor(arms, best, bestSample, domain.AlgorithmThompsonSampling), nil
}
