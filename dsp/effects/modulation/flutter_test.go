package modulation

import (
	"math"
	"testing"
)

func TestFlutterValidation(t *testing.T) {
	if _, err := NewFlutter(48000, WithFlutterSlowHz(0)); err == nil {
		t.Fatal("expected error for zero slow rate")
	}

	if _, err := NewFlutter(48000, WithFlutterFastHz(math.Inf(1))); err == nil {
		t.Fatal("expected error for infinite fast rate")
	}

	if _, err := NewFlutter(48000, WithFlutterFastWeight(2)); err == nil {
		t.Fatal("expected error for weight > 1")
	}

	if _, err := NewFlutter(-1); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
}

func TestFlutterZeroDepth(t *testing.T) {
	f, err := NewFlutter(48000)
	if err != nil {
		t.Fatalf("NewFlutter() error = %v", err)
	}

	for range 4800 {
		if got := f.Next(0); got != 0 {
			t.Fatalf("depth 0 produced %g", got)
		}
	}
}

func TestFlutterBoundedByPeak(t *testing.T) {
	f, err := NewFlutter(48000)
	if err != nil {
		t.Fatalf("NewFlutter() error = %v", err)
	}

	const depth = 60.0

	peak := f.Peak(depth)
	if math.Abs(peak-69) > 1e-12 {
		t.Fatalf("Peak(60) = %g, want 69", peak)
	}

	first := f.Next(depth)
	if math.Abs(first-9) > 1e-12 {
		t.Fatalf("first offset = %g, want 9", first)
	}

	maxAbs := 0.0
	for range 48000 * 3 {
		v := f.Next(depth)
		if math.Abs(v) > peak+1e-9 {
			t.Fatalf("offset %g exceeds peak %g", v, peak)
		}

		maxAbs = math.Max(maxAbs, math.Abs(v))
	}

	if maxAbs < 50 {
		t.Fatalf("flutter swing too small: %g", maxAbs)
	}
}

func TestFlutterReset(t *testing.T) {
	f, err := NewFlutter(48000)
	if err != nil {
		t.Fatalf("NewFlutter() error = %v", err)
	}

	a := make([]float64, 64)
	for i := range a {
		a[i] = f.Next(20)
	}

	f.Reset()

	for i := range a {
		if got := f.Next(20); got != a[i] {
			t.Fatalf("sample %d after reset: got %g want %g", i, got, a[i])
		}
	}
}

func BenchmarkFlutter(b *testing.B) {
	f, err := NewFlutter(48000)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for range b.N {
		f.Next(30)
	}
}
