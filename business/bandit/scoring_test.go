package bandit

import (
	"testing"

	"splitHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScorer(t *testing.T) {
	cfg := DefaultConfig()
	rng := NewSeededSource(1)

	for _, alg := range []domain.Algorithm{
		domain.AlgorithmUniform,
		domain.AlgorithmThompsonSampling,
		domain.AlgorithmUCB1,
		domain.AlgorithmEpsilonGreedy,
	} {
		s, err := NewScorer(alg, cfg, rng)
		require.NoError(t, err)
		assert.Equal(t, alg, s.Algorithm())

		d, err := s.Score([]Arm{{VariantID: "a", TrafficPercentage: 50}, {VariantID: "b", TrafficPercentage: 50}})
		require.NoError(t, err)
		assert.Equal(t, alg, d.Algorithm)
	}

	_, err := NewScorer("softmax", cfg, rng)
	assert.Error(t, err)
}

func TestScorersRejectEmptyInput(t *testing.T) {
	rng := NewSeededSource(1)
	for _, s := range []Scorer{
		NewThompsonSampling(1, 1, rng),
		NewUCB1(2, rng),
		NewEpsilonGreedy(0.1, false, rng),
		NewWeightedRandom(rng),
	} {
		_, err := s.Score(nil)
		assert.ErrorIs(t, err, ErrNoArms)
	}
}

func TestArmConversionRate(t *testing.T) {
	assert.Equal(t, 0.0, Arm{}.ConversionRate())
	assert.Equal(t, 0.25, Arm{Visitors: 8, Conversions: 2}.ConversionRate())
}

func ptr[T any](v T) *T { return &v }

func TestConfigWithOverrides(t *testing.T) {
	cfg := DefaultConfig().WithOverrides(domain.BanditConfig{
		UCBConfidence:   ptr(4.0),
		Epsilon:         ptr(0.3),
		EpsilonDecay:    ptr(true),
		MinBanditVisits: ptr(int64(250)),
	})

	assert.Equal(t, 1.0, cfg.PriorAlpha)
	assert.Equal(t, 4.0, cfg.UCBConfidence)
	assert.Equal(t, 0.3, cfg.Epsilon)
	assert.True(t, cfg.EpsilonDecay)
	assert.Equal(t, int64(250), cfg.MinBanditVisitors)
}

func TestConfigWithOverridesKeepsExplicitZero(t *testing.T) {
	base := DefaultConfig()
	base.EpsilonDecay = true

	cfg := base.WithOverrides(domain.BanditConfig{
		Epsilon:         ptr(0.0),
		MinBanditVisits: ptr(int64(0)),
	})
	assert.Equal(t, 0.0, cfg.Epsilon)
	assert.Equal(t, int64(0), cfg.MinBanditVisitors)
	assert.True(t, cfg.EpsilonDecay, "unset decay keeps the default")
	assert.True(t, cfg.MABEligible(domain.AlgorithmEpsilonGreedy, 0))

	unset := base.WithOverrides(domain.BanditConfig{})
	assert.Equal(t, base.Normalize(), unset)

	// out-of-range values are still repaired
	cfg = base.WithOverrides(domain.BanditConfig{PriorAlpha: ptr(-1.0)})
	assert.Equal(t, 1.0, cfg.PriorAlpha)
}

func TestConfigMABEligible(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.MABEligible(domain.AlgorithmUCB1, 50))
	assert.True(t, cfg.MABEligible(domain.AlgorithmUCB1, 100))
	assert.False(t, cfg.MABEligible(domain.AlgorithmUniform, 10000))
	assert.False(t, cfg.MABEligible("unknown", 10000))
}
