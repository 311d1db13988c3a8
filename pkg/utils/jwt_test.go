package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("7", "admin", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("7", "admin", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	token, err := GenerateJWT("7", "admin", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestGenerateJWTMissingSecret(t *testing.T) {
	_, err := GenerateJWT("7", "admin", "", time.Hour)
	assert.Error(t, err)
}
