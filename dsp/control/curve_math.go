//go:build !fastmath

package control

import "math"

// curvePow computes x^e for x >= 0 using standard library math.
func curvePow(x, e float64) float64 {
	return math.Pow(x, e)
}

// curveExp computes e^x using standard library math.
func curveExp(x float64) float64 {
	return math.Exp(x)
}
