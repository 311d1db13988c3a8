package bandit

import (
	"fmt"
	"math"

	"splitHub/domain"
)

// AllocateByBucket is the classic percentage split. Shares are accumulated in
// variant order and the first variant whose cumulative share exceeds bucket
// wins.
//
// Shares that sum below BucketCount leave the top buckets unallocated; those
// visitors get the first variant (the control). A share that is not a finite,
// non-negative number also answers the first variant.
func AllocateByBucket(arms []Arm, bucket int) (Decision, error) {
	if len(arms) == 0 {
		return Decision{}, ErrNoArms
	}

	for _, a := range arms {
		p := a.TrafficPercentage
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return failSafe(arms, domain.AlgorithmUniform, &domain.ComputationError{
				Op:  "allocate",
				Err: fmt.Errorf("variant %s has invalid traffic percentage %v", a.VariantID, p),
			})
		}
	}

	cumulative := 0.0
	for i, a := range arms {
		cumulative += a.TrafficPercentage
		if float64(bucket) < cumulative {
			return decisionFor(arms, i, a.TrafficPercentage, domain.AlgorithmUniform), nil
		}
	}

	return decisionFor(arms, 0, arms[0].TrafficPercentage, domain.AlgorithmUniform), nil
}

// AllocateVisitor hashes the visitor into a bucket and allocates it.
func AllocateVisitor(arms []Arm, visitorID, experimentID string) (Decision, error) {
	return AllocateByBucket(arms, Bucket(visitorID, experimentID))
}

// WeightedRandom treats traffic percentages as relative weights and makes a
// single random draw. Unlike AllocateVisitor it is not sticky per visitor.
type WeightedRandom struct {
	rng RandomSource
}

func NewWeightedRandom(rng RandomSource) *WeightedRandom {
	return &WeightedRandom{rng: rng}
}

func (w *WeightedRandom) Algorithm() domain.Algorithm { return domain.AlgorithmUniform }

func (w *WeightedRandom) Score(arms []Arm) (Decision, error) {
	if len(arms) == 0 {
		return Decision{}, ErrNoArms
	}

	total := 0.0
	for _, a := range arms {
		p := a.TrafficPercentage
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return failSafe(arms, domain.AlgorithmUniform, &domain.ComputationError{
				Op:  "weighted_random",
				Err: fmt.Errorf("variant %s has invalid traffic percentage %v", a.VariantID, p),
			})
		}
		total += p
	}
	if total <= 0 {
		return decisionFor(arms, 0, 0, domain.AlgorithmUniform), nil
	}

	r := w.rng.Float64() * total
	cumulative := 0.0
	for i, a := range arms {
		cumulative += a.TrafficPercentage
		if r < cumulative {
			return decisionFor(arms, i, a.TrafficPercentage/total, domain.AlgorithmUniform), nil
		}
	}

	last := len(arms) - 1
	return decisionFor(arms, last, arms[last].TrafficPercentage/total, domain.AlgorithmUniform), nil
}
