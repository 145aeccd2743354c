//go:build fastmath

package dynamics

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// mathPow computes x^y as exp(y*ln x) using fast approximations.
// Only called with x > 1 from the gain curve.
func mathPow(x, y float64) float64 {
	return approx.FastExp(y * approx.FastLog(x))
}

// mathExp computes e^x using fast approximation.
func mathExp(x float64) float64 {
	return approx.FastExp(x)
}

// mathPower10 computes 10^x using standard library.
// Called once per Configure, not per sample.
func mathPower10(x float64) float64 {
	return math.Pow(10, x)
}
