package bandit

import "unicode/utf16"

// BucketCount is the size of the cumulative-percentage space.
const BucketCount = 100

// Hash is the 32-bit rolling hash shared with the client SDK and the edge
// function: h = h*31 + c over UTF-16 code units, wrapped to a signed 32-bit
// integer, then made absolute. Any change here moves visitors between
// buckets on the client side, so it must stay byte-for-byte compatible.
func Hash(s string) uint32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}

// Bucket maps a visitor into [0, BucketCount) for one experiment.
func Bucket(visitorID, experimentID string) int {
	return int(Hash(visitorID+experimentID) % BucketCount)
}

// HashMod maps s into [0, n). n <= 0 yields 0.
func HashMod(s string, n int) int {
	if n <= 0 {
		return 0
	}
	return int(Hash(s) % uint32(n))
}
