package bandit

import (
	"math"

	"splitHub/domain"
)

// UCB1 scores rate + sqrt(confidence * ln(total) / visitors). Any arm that
// has never been shown wins outright, so every variant is tried before UCB1
// starts exploiting.
type UCB1 struct {
	confidence float64
	rng        RandomSource
}

func NewUCB1(confidence float64, rng RandomSource) *UCB1 {
	if confidence <= 0 {
		confidence = defaultUCBConfidence
	}
	return &UCB1{confidence: confidence, rng: rng}
}

func (u *UCB1) Algorithm() domain.Algorithm { return domain.AlgorithmUCB1 }

// UCB1Score is +Inf for an unseen arm.
func UCB1Score(a Arm, totalVisitors int64, confidence float64) float64 {
	if a.Visitors <= 0 {
		return math.Inf(1)
	}
	return a.ConversionRate() + math.Sqrt(confidence*math.Log(float64(totalVisitors))/float64(a.Visitors))
}

func (u *UCB1) Score(arms []Arm) (Decision, error) {
	if err := validateArms("ucb1", arms); err != nil {
		return failSafe(arms, domain.AlgorithmUCB1, err)
	}

	total := TotalVisitors(arms)
	if total == 0 {
		i := u.rng.Intn(len(arms))
		d := decisionFor(arms, i, math.Inf(1), domain.AlgorithmUCB1)
		d.Explored = true
		return d, nil
	}

	for i, a := range arms {
		if a.Visitors == 0 {
			d := decisionFor(arms, i, math.Inf(1), domain.AlgorithmUCB1)
			d.Explored = true
			return d, nil
		}
	}

	best := 0
	bestScore := math.Inf(-1)
	for i, a := range arms {
		score := UCB1Score(a, total, u.confidence)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	return decisionFor(arms, best, bestScore, domain.AlgorithmUCB1), nil
}
