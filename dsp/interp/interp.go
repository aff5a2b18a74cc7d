package interp

// Hermite4 interpolates between x0 and x1 at fraction t in [0, 1) with a
// 4-point, 3rd-order Hermite (Catmull-Rom) polynomial. xm1 and x2 are the
// outer neighbours. Hermite4(0, ...) returns x0 exactly.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	slope := 0.5 * (x1 - xm1)
	step := x0 - x1
	w := slope + step
	a := w + step + 0.5*(x2-x0)
	b := w + a

	return ((a*t-b)*t+slope)*t + x0
}
