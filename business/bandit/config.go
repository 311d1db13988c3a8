package bandit

import (
	"math"
	"time"

	"splitHub/domain"
)

type Config struct {
	// Beta prior for Thompson Sampling
	PriorAlpha float64
	PriorBeta  float64

	UCBConfidence float64

	Epsilon      float64
	EpsilonDecay bool

	// below this many total visitors the resolver ignores the configured
	// bandit and uses the percentage split
	MinBanditVisitors int64

	ScoreCacheTTL time.Duration
}

const (
	defaultPriorAlpha        = 1.0
	defaultPriorBeta         = 1.0
	defaultUCBConfidence     = 2.0
	defaultEpsilon           = 0.1
	defaultMinBanditVisitors = 100
	defaultScoreCacheTTL     = 60 * time.Second
)

func DefaultConfig() Config {
	return Config{
		PriorAlpha:        defaultPriorAlpha,
		PriorBeta:         defaultPriorBeta,
		UCBConfidence:     defaultUCBConfidence,
		Epsilon:           defaultEpsilon,
		EpsilonDecay:      false,
		MinBanditVisitors: defaultMinBanditVisitors,
		ScoreCacheTTL:     defaultScoreCacheTTL,
	}
}

// Normalize replaces out-of-range values with defaults.
func (c Config) Normalize() Config {
	if c.PriorAlpha <= 0 || math.IsNaN(c.PriorAlpha) {
		c.PriorAlpha = defaultPriorAlpha
	}
	if c.PriorBeta <= 0 || math.IsNaN(c.PriorBeta) {
		c.PriorBeta = defaultPriorBeta
	}
	if c.UCBConfidence <= 0 || math.IsNaN(c.UCBConfidence) {
		c.UCBConfidence = defaultUCBConfidence
	}
	if c.Epsilon < 0 || c.Epsilon > 1 || math.IsNaN(c.Epsilon) {
		c.Epsilon = defaultEpsilon
	}
	if c.MinBanditVisitors < 0 {
		c.MinBanditVisitors = defaultMinBanditVisitors
	}
	return c
}

// WithOverrides layers a stored per-experiment row over c. Nil fields keep
// c's value. Set fields replace it, so epsilon 0 (pure greedy) and a zero
// MAB threshold are honoured; Normalize still repairs out-of-range values.
func (c Config) WithOverrides(o domain.BanditConfig) Config {
	if o.PriorAlpha != nil {
		c.PriorAlpha = *o.PriorAlpha
	}
	if o.PriorBeta != nil {
		c.PriorBeta = *o.PriorBeta
	}
	if o.UCBConfidence != nil {
		c.UCBConfidence = *o.UCBConfidence
	}
	if o.Epsilon != nil {
		c.Epsilon = *o.Epsilon
	}
	if o.EpsilonDecay != nil {
		c.EpsilonDecay = *o.EpsilonDecay
	}
	if o.MinBanditVisits != nil {
		c.MinBanditVisitors = *o.MinBanditVisits
	}

	return c.Normalize()
}

// MABEligible reports whether alg may run its bandit scorer given the
// current traffic.
func (c Config) MABEligible(alg domain.Algorithm, totalVisitors int64) bool {
	return alg.IsBandit() && totalVisitors >= c.MinBanditVisitors
}
