package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair differs by more than eps.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps || math.IsNaN(diff) {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t on the first NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireBelow fails t if any |sample| reaches limit.
func RequireBelow(t *testing.T, data []float64, limit float64) {
	t.Helper()

	for i, v := range data {
		if !(math.Abs(v) < limit) {
			t.Fatalf("index %d: |%v| not below %v", i, v, limit)
		}
	}
}

// PeakIndex returns the index of the largest |sample|, the first one on
// ties. It returns -1 for an empty slice.
func PeakIndex(data []float64) int {
	idx := -1
	peak := -1.0

	for i, v := range data {
		if a := math.Abs(v); a > peak {
			idx, peak = i, a
		}
	}

	return idx
}

// PeakAbs returns the largest |sample|, or 0 for an empty slice.
func PeakAbs(data []float64) float64 {
	idx := PeakIndex(data)
	if idx < 0 {
		return 0
	}

	return math.Abs(data[idx])
}
