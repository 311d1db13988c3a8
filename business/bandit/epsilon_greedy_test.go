package bandit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpsilonGreedyExploitBranch(t *testing.T) {
	// 0.5 >= epsilon: exploit
	e := NewEpsilonGreedy(0.1, false, &scriptedSource{floats: []float64{0.5}})
	arms := []Arm{
		{VariantID: "a", Visitors: 100, Conversions: 5},
		{VariantID: "b", Visitors: 100, Conversions: 15},
		{VariantID: "c", Visitors: 100, Conversions: 10},
	}

	d, err := e.Score(arms)
	require.NoError(t, err)
	assert.Equal(t, "b", d.VariantID)
	assert.False(t, d.Explored)
	assert.InDelta(t, 0.15, d.Score, 1e-12)
}

func TestEpsilonGreedyExploreBranch(t *testing.T) {
	// 0.05 < epsilon: explore, Intn picks index 2
	e := NewEpsilonGreedy(0.1, false, &scriptedSource{floats: []float64{0.05}, ints: []int{2}})
	arms := []Arm{
		{VariantID: "a", Visitors: 100, Conversions: 50},
		{VariantID: "b", Visitors: 100, Conversions: 1},
		{VariantID: "c", Visitors: 100, Conversions: 1},
	}

	d, err := e.Score(arms)
	require.NoError(t, err)
	assert.Equal(t, "c", d.VariantID)
	assert.True(t, d.Explored)
}

func TestEpsilonGreedyUnseenArmNotPreferred(t *testing.T) {
	e := NewEpsilonGreedy(0, false, NewSeededSource(1))
	arms := []Arm{
		{VariantID: "unseen"},
		{VariantID: "seen", Visitors: 10, Conversions: 1},
	}

	d, err := e.Score(arms)
	require.NoError(t, err)
	assert.Equal(t, "seen", d.VariantID)
}

func TestEpsilonGreedyAllTiedKeepsFirst(t *testing.T) {
	e := NewEpsilonGreedy(0, false, NewSeededSource(1))
	arms := []Arm{{VariantID: "a"}, {VariantID: "b", Visitors: 10}}

	d, err := e.Score(arms)
	require.NoError(t, err)
	assert.Equal(t, "a", d.VariantID)
}

func TestEffectiveEpsilonDecay(t *testing.T) {
	assert.Equal(t, 0.1, EffectiveEpsilon(0.1, false, 50000))
	assert.Equal(t, 0.1, EffectiveEpsilon(0.1, true, 999))
	assert.InDelta(t, 0.1*0.95, EffectiveEpsilon(0.1, true, 1000), 1e-12)
	assert.InDelta(t, 0.1*math.Pow(0.95, 12), EffectiveEpsilon(0.1, true, 12345), 1e-12)
}

func TestEpsilonGreedyDecayChangesBranch(t *testing.T) {
	// draw 0.09 explores at epsilon 0.1 but not at 0.1*0.95^5 ~= 0.077
	arms := []Arm{
		{VariantID: "a", Visitors: 2500, Conversions: 500},
		{VariantID: "b", Visitors: 2500, Conversions: 100},
	}

	plain := NewEpsilonGreedy(0.1, false, &scriptedSource{floats: []float64{0.09}, ints: []int{1}})
	d, err := plain.Score(arms)
	require.NoError(t, err)
	assert.True(t, d.Explored)

	decayed := NewEpsilonGreedy(0.1, true, &scriptedSource{floats: []float64{0.09}, ints: []int{1}})
	d, err = decayed.Score(arms)
	require.NoError(t, err)
	assert.False(t, d.Explored)
	assert.Equal(t, "a", d.VariantID)
}

func TestNewEpsilonGreedyClampsEpsilon(t *testing.T) {
	assert.Equal(t, defaultEpsilon, NewEpsilonGreedy(1.5, false, nil).epsilon)
	assert.Equal(t, defaultEpsilon, NewEpsilonGreedy(-0.1, false, nil).epsilon)
}
