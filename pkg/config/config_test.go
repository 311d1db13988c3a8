package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "password")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"PORT", "REDIS_HOST", "BANDIT_PRIOR_ALPHA", "BANDIT_PRIOR_BETA", "BANDIT_UCB_CONFIDENCE",
		"BANDIT_EPSILON", "BANDIT_EPSILON_DECAY", "BANDIT_MIN_VISITORS", "BANDIT_SCORE_CACHE_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 1.0, cfg.Bandit.PriorAlpha)
	assert.Equal(t, 1.0, cfg.Bandit.PriorBeta)
	assert.Equal(t, 2.0, cfg.Bandit.UCBConfidence)
	assert.Equal(t, 0.1, cfg.Bandit.Epsilon)
	assert.False(t, cfg.Bandit.EpsilonDecay)
	assert.Equal(t, int64(100), cfg.Bandit.MinBanditVisitors)
	assert.Equal(t, 60*time.Second, cfg.Bandit.ScoreCacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("BANDIT_EPSILON", "0.25")
	t.Setenv("BANDIT_EPSILON_DECAY", "true")
	t.Setenv("BANDIT_MIN_VISITORS", "500")
	t.Setenv("BANDIT_SCORE_CACHE_TTL", "5s")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 0.25, cfg.Bandit.Epsilon)
	assert.True(t, cfg.Bandit.EpsilonDecay)
	assert.Equal(t, int64(500), cfg.Bandit.MinBanditVisitors)
	assert.Equal(t, 5*time.Second, cfg.Bandit.ScoreCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowOrigins)
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "password")

	_, err := Load()
	assert.EqualError(t, err, "missing jwt secret")
}

func TestLoadRejectsBadEpsilon(t *testing.T) {
	setRequired(t)
	t.Setenv("BANDIT_EPSILON", "1.5")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}

	assert.Equal(t, "host=h user=u password=p dbname=n port=5432 sslmode=disable", d.DSN())
}
