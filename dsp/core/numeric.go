package core

import "math"

// denormalFloor is the magnitude below which feedback state is zeroed.
const denormalFloor = 1e-30

// Clamp limits value to [lo, hi]. Swapped bounds are accepted.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	return math.Min(math.Max(value, lo), hi)
}

// Finite returns value, or fallback when value is NaN or ±Inf.
func Finite(value, fallback float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fallback
	}

	return value
}

// FlushDenormals zeroes values too small to matter. A recirculating tape
// loop decays toward zero forever and would otherwise end up in the
// denormal range.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < denormalFloor {
		return 0
	}

	return x
}

// MsToSamples converts milliseconds to a fractional sample count.
func MsToSamples(ms, sampleRate float64) float64 {
	return ms * sampleRate / 1000
}

// SamplesToMs converts a sample count to milliseconds. It returns 0 for a
// non-positive rate.
func SamplesToMs(samples, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}

	return samples * 1000 / sampleRate
}

// LinearToDB converts an amplitude to decibels. The sign is ignored and
// silence maps to -Inf.
func LinearToDB(linear float64) float64 {
	a := math.Abs(linear)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}
