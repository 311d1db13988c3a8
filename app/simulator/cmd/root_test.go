package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"splitHub/app/simulator/scenario"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledScenariosParse(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			_, err := scenario.Load(f)
			assert.NoError(t, err)
		})
	}
}

func TestEffectiveSeed(t *testing.T) {
	defer func() { seed = 0 }()

	sc := scenario.Scenario{Seed: 9}
	assert.Equal(t, int64(9), effectiveSeed(sc))

	seed = 4
	assert.Equal(t, int64(4), effectiveSeed(sc))
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: tiny
visitors: 50
variants:
  - {id: a, traffic_percentage: 50, conversion_rate: 0.1}
  - {id: b, traffic_percentage: 50, conversion_rate: 0.2}
`), 0o644))

	rootCmd.SetArgs([]string{"run", "--scenario", path, "--seed", "3"})
	assert.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"compare", "--scenario", path, "--algorithms", "uniform,ucb1"})
	assert.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"compare", "--scenario", path, "--algorithms", "softmax"})
	assert.Error(t, rootCmd.Execute())
}
