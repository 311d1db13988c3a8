package bandit

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashKnownValues(t *testing.T) {
	cases := []struct {
		in   string
		want uint32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 97*31 + 98},
		{"abc", (97*31+98)*31 + 99},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Hash(tc.in), "Hash(%q)", tc.in)
	}
}

// Values produced by the browser SDK's hash for inputs that overflow int32.
func TestHashMatchesSDKOnOverflow(t *testing.T) {
	cases := []struct {
		in   string
		want uint32
	}{
		{"hello world", 1794106052},
		// wraps to exactly math.MinInt32, whose absolute value only fits unsigned
		{"polygenelubricants", 2147483648},
		{"ñandú😀x", 1691993983},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Hash(tc.in), "Hash(%q)", tc.in)
	}
}

func TestBucketMatchesSDK(t *testing.T) {
	assert.Equal(t, 8, Bucket("ñandú😀x", "exp-1"))
}

func TestHashUsesUTF16CodeUnits(t *testing.T) {
	// U+1F600 is the surrogate pair D83D DE00 in UTF-16
	want := uint32(0xD83D*31 + 0xDE00)

	assert.Equal(t, want, Hash("\U0001F600"))
}

func TestBucketDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := uuid.NewString()
		first := Bucket(v, "exp-1")
		for j := 0; j < 5; j++ {
			assert.Equal(t, first, Bucket(v, "exp-1"))
		}
		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, BucketCount)
	}
}

func TestBucketDependsOnExperiment(t *testing.T) {
	differs := 0
	for i := 0; i < 200; i++ {
		v := uuid.NewString()
		if Bucket(v, "exp-a") != Bucket(v, "exp-b") {
			differs++
		}
	}
	assert.Greater(t, differs, 150)
}

func TestHashModRange(t *testing.T) {
	assert.Equal(t, 0, HashMod("anything", 0))
	assert.Equal(t, 0, HashMod("anything", -3))

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		id, err := uuid.NewRandomFromReader(rng)
		require.NoError(t, err)
		m := HashMod(id.String(), 7)
		assert.GreaterOrEqual(t, m, 0)
		assert.Less(t, m, 7)
	}
}
