package scenario

import (
	"bytes"
	"context"
	"testing"

	"splitHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greenButton = `
name: green-button
algorithm: thompson_sampling
visitors: 3000
bandit:
  min_bandit_visitors: 200
variants:
  - id: a
    name: control
    traffic_percentage: 50
    conversion_rate: 0.02
  - id: b
    name: green
    traffic_percentage: 50
    conversion_rate: 0.10
    revenue: 20
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(greenButton))
	require.NoError(t, err)

	assert.Equal(t, "green-button", sc.Name)
	assert.Equal(t, domain.AlgorithmThompsonSampling, sc.Algorithm)
	assert.Equal(t, 3000, sc.Visitors)
	require.Len(t, sc.Variants, 2)
	assert.Equal(t, 0.10, sc.Variants[1].ConversionRate)
	assert.Equal(t, int64(200), sc.Config().MinBanditVisitors)
	assert.Equal(t, 1.0, sc.Config().PriorAlpha)

	exp := sc.Experiment()
	assert.True(t, exp.IsRunning())
	assert.True(t, exp.Variants[0].IsControl)
	assert.Equal(t, "green", exp.Variants[1].Name)
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":       "name: x\nvisitors: 1\nvarients: []\n",
		"unknown algorithm": "name: x\nalgorithm: softmax\nvisitors: 1\nvariants: [{id: a}]\n",
		"no visitors":       "name: x\nvariants: [{id: a}]\n",
		"no variants":       "name: x\nvisitors: 10\n",
		"duplicate ids":     "name: x\nvisitors: 10\nvariants: [{id: a}, {id: a}]\n",
		"rate above one":    "name: x\nvisitors: 10\nvariants: [{id: a, conversion_rate: 1.5}]\n",
		"bad epsilon":       "name: x\nvisitors: 10\nbandit: {epsilon: 2}\nvariants: [{id: a}]\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestRunIsDeterministicAndFavoursWinner(t *testing.T) {
	sc, err := Parse([]byte(greenButton))
	require.NoError(t, err)

	first, err := Run(context.Background(), sc, 7)
	require.NoError(t, err)
	second, err := Run(context.Background(), sc, 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var total int64
	for _, v := range first.Variants {
		total += v.Visitors
	}
	assert.Equal(t, int64(sc.Visitors), total)

	// once past the threshold Thompson Sampling should push most traffic to b
	assert.Greater(t, first.Variants[1].Share, 0.6)
}

func TestRunUniformKeepsSplit(t *testing.T) {
	sc, err := Parse([]byte(greenButton))
	require.NoError(t, err)
	sc.Algorithm = domain.AlgorithmUniform

	r, err := Run(context.Background(), sc, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, r.Variants[0].Share, 0.05)
}

func TestCompare(t *testing.T) {
	sc, err := Parse([]byte(greenButton))
	require.NoError(t, err)

	results, err := Compare(sc, 11, []domain.Algorithm{
		domain.AlgorithmUniform,
		domain.AlgorithmThompsonSampling,
		domain.AlgorithmUCB1,
		domain.AlgorithmEpsilonGreedy,
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	uniform := results[0]
	assert.InDelta(t, 0.5, uniform.Shares[0], 0.05)
	for _, r := range results[1:] {
		assert.Less(t, r.Regret, uniform.Regret, r.Algorithm)
	}

	var buf bytes.Buffer
	RenderComparison(&buf, sc, results)
	assert.Contains(t, buf.String(), "thompson_sampling")
}

func TestRenderReport(t *testing.T) {
	sc, err := Parse([]byte(greenButton))
	require.NoError(t, err)
	sc.Visitors = 100

	r, err := Run(context.Background(), sc, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderReport(&buf, r)
	assert.Contains(t, buf.String(), "green-button")
	assert.Contains(t, buf.String(), "control")
}
