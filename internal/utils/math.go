package utils

import (
	"math/rand"
)

// RandomFloat returns a random float64 in [0.0, 1.0)
func RandomFloat() float64 {
	return rand.Float64() //nolint:gosec // Game logic randomness, not security critical
}

// RandomInt returns a random integer between min and max (inclusive)
func RandomInt(min, max int) int {
	if min > max {
		return min
	}
	return rand.Intn(max-min+1) + min //nolint:gosec // Game logic randomness, not security critical
}

// MathRandSource adapts the package-level math/rand functions to the
// Float64/Intn shape used by outcome and asset selection.
type MathRandSource struct{}

// Float64 returns a random float64 in [0.0, 1.0)
func (MathRandSource) Float64() float64 {
	return RandomFloat()
}

// Intn returns a random integer in [0, n)
func (MathRandSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return RandomInt(0, n-1)
}
