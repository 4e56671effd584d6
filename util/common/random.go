package common

import (
	"crypto/rand"
	"math/big"
)

// RandomInt returns a uniform random integer in [0, max) using crypto/rand.
// This is the sole randomness source of the draw engine.
func RandomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}
