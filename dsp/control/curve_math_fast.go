//go:build fastmath

package control

import "github.com/meko-christian/algo-approx"

// curvePow computes x^e for x >= 0 using fast approximation.
// Uses the identity: x^e = exp(e * ln(x))
func curvePow(x, e float64) float64 {
	if x <= 0 {
		return 0
	}
	return approx.FastExp(e * approx.FastLog(x))
}

// curveExp computes e^x using fast approximation.
func curveExp(x float64) float64 {
	return approx.FastExp(x)
}
