package bandit

import (
	"math"
	"testing"

	"splitHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUCB1ForcedExploration(t *testing.T) {
	u := NewUCB1(2, NewSeededSource(1))
	arms := []Arm{
		{VariantID: "fresh", Visitors: 0},
		{VariantID: "known", Visitors: 1000, Conversions: 100},
	}

	for i := 0; i < 100; i++ {
		d, err := u.Score(arms)
		require.NoError(t, err)
		assert.Equal(t, "fresh", d.VariantID)
		assert.True(t, math.IsInf(d.Score, 1))
		assert.True(t, d.Explored)
	}
}

func TestUCB1ForcedExplorationAnyPosition(t *testing.T) {
	u := NewUCB1(2, NewSeededSource(1))
	arms := []Arm{
		{VariantID: "known", Visitors: 1000, Conversions: 900},
		{VariantID: "fresh"},
	}

	d, err := u.Score(arms)
	require.NoError(t, err)
	assert.Equal(t, "fresh", d.VariantID)
}

func TestUCB1NoDataPicksRandomly(t *testing.T) {
	u := NewUCB1(2, &scriptedSource{ints: []int{2, 0}})
	arms := []Arm{{VariantID: "a"}, {VariantID: "b"}, {VariantID: "c"}}

	d, err := u.Score(arms)
	require.NoError(t, err)
	assert.Equal(t, "c", d.VariantID)

	d, err = u.Score(arms)
	require.NoError(t, err)
	assert.Equal(t, "a", d.VariantID)
}

func TestUCB1Formula(t *testing.T) {
	a := Arm{Visitors: 100, Conversions: 10}
	total := int64(400)

	want := 0.1 + math.Sqrt(2*math.Log(400)/100)
	assert.InDelta(t, want, UCB1Score(a, total, 2), 1e-12)
}

func TestUCB1PrefersUncertainArmWithSimilarRate(t *testing.T) {
	u := NewUCB1(2, NewSeededSource(1))
	arms := []Arm{
		{VariantID: "heavy", Visitors: 5000, Conversions: 500},
		{VariantID: "light", Visitors: 50, Conversions: 5},
	}

	d, err := u.Score(arms)
	require.NoError(t, err)
	assert.Equal(t, "light", d.VariantID)
	assert.Equal(t, domain.AlgorithmUCB1, d.Algorithm)
	assert.False(t, d.Explored)
}

func TestUCB1ExploitsClearWinner(t *testing.T) {
	u := NewUCB1(2, NewSeededSource(1))
	arms := []Arm{
		{VariantID: "bad", Visitors: 5000, Conversions: 50},
		{VariantID: "good", Visitors: 5000, Conversions: 1500},
	}

	d, err := u.Score(arms)
	require.NoError(t, err)
	assert.Equal(t, "good", d.VariantID)
}
