package bandit

import (
	"testing"

	"splitHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleBetaRange(t *testing.T) {
	rng := NewSeededSource(1)
	for _, params := range [][2]float64{{1, 1}, {0.3, 0.7}, {50, 2}, {2, 500}} {
		for i := 0; i < 1000; i++ {
			v := sampleBeta(rng, params[0], params[1])
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestSampleBetaMean(t *testing.T) {
	rng := NewSeededSource(2)
	const n = 20000

	cases := []struct {
		alpha, beta float64
	}{
		{10, 1},
		{1, 10},
		{0.5, 0.5},
		{3, 7},
	}

	for _, tc := range cases {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += sampleBeta(rng, tc.alpha, tc.beta)
		}
		assert.InDelta(t, PosteriorMean(tc.alpha, tc.beta), sum/n, 0.02, "Beta(%g,%g)", tc.alpha, tc.beta)
	}
}

func TestSampleGammaMean(t *testing.T) {
	rng := NewSeededSource(3)
	const n = 20000

	for _, shape := range []float64{0.4, 1, 2.5, 9} {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += sampleGamma(rng, shape)
		}
		// Gamma(k, 1) has mean k
		assert.InEpsilon(t, shape, sum/n, 0.05, "shape %g", shape)
	}
}

func TestThompsonBaselineFairness(t *testing.T) {
	ts := NewThompsonSampling(1, 1, NewSeededSource(4))
	arms := []Arm{{VariantID: "a"}, {VariantID: "b"}}

	const n = 10000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		d, err := ts.Score(arms)
		require.NoError(t, err)
		counts[d.VariantID]++
	}

	assert.InDelta(t, 0.5, float64(counts["a"])/n, 0.03)
}

func TestThompsonFavoursStrongArm(t *testing.T) {
	ts := NewThompsonSampling(1, 1, NewSeededSource(5))
	arms := []Arm{
		{VariantID: "weak", Visitors: 1000, Conversions: 20},
		{VariantID: "strong", Visitors: 1000, Conversions: 80},
	}

	wins := 0
	for i := 0; i < 1000; i++ {
		d, err := ts.Score(arms)
		require.NoError(t, err)
		if d.VariantID == "strong" {
			wins++
		}
	}
	assert.Greater(t, wins, 990)
}

func TestThompsonPosteriorClampsFailures(t *testing.T) {
	ts := NewThompsonSampling(1, 1, NewSeededSource(6))

	alpha, beta := ts.Posterior(Arm{Visitors: 3, Conversions: 5})
	assert.Equal(t, 6.0, alpha)
	assert.Equal(t, 1.0, beta)
}

func TestThompsonNegativeCountersFailSafe(t *testing.T) {
	ts := NewThompsonSampling(1, 1, NewSeededSource(7))
	arms := []Arm{{VariantID: "control"}, {VariantID: "b", Visitors: -1}}

	d, err := ts.Score(arms)
	var cerr *domain.ComputationError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, "control", d.VariantID)
	assert.Equal(t, domain.AlgorithmThompsonSampling, d.Algorithm)
}
