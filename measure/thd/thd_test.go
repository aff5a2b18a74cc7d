package thd

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tapedelay/dsp/window"
	"github.com/cwbudde/algo-tapedelay/internal/testutil"
)

func TestCalculateFromMagnitudeKnownSpectrum(t *testing.T) {
	cfg := Config{
		SampleRate:      48000,
		FFTSize:         48000,
		FundamentalFreq: 1000,
		RangeLowerFreq:  20,
		RangeUpperFreq:  4000,
		CaptureBins:     1,
	}

	mag := make([]float64, cfg.FFTSize/2+1)
	mag[1000] = 1.0       // fundamental amplitude 1.0
	mag[2000] = 0.1 * 0.1 // H2 amplitude 0.1
	mag[3000] = 0.05 * 0.05
	mag[3500] = 0.02 * 0.02 // non-harmonic noise

	res := NewCalculator(cfg).CalculateFromMagnitude(mag)

	if math.Abs(res.FundamentalFreq-1000) > 1e-9 {
		t.Fatalf("fundamental freq mismatch: got %f", res.FundamentalFreq)
	}

	if math.Abs(res.FundamentalLevel-1.0) > 1e-9 {
		t.Fatalf("fundamental level mismatch: got %f", res.FundamentalLevel)
	}

	checks := []struct {
		name      string
		got, want float64
	}{
		{"THD", res.THD, 0.15},
		{"THDN", res.THDN, 0.17},
		{"Noise", res.Noise, 0.02},
		{"OddHD", res.OddHD, 0.05},
		{"EvenHD", res.EvenHD, 0.1},
		{"SINAD", res.SINAD, 20 * math.Log10(1/0.17)},
	}

	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Fatalf("%s mismatch: got %.12f want %.12f", c.name, c.got, c.want)
		}
	}

	// H2..H4 fit below 4 kHz; H4 is empty but keeps its slot.
	testutil.RequireSliceNearlyEqual(t, res.Harmonics, []float64{0.1, 0.05, 0}, 1e-12)
}

func TestCalculateAutodetectFundamental(t *testing.T) {
	cfg := Config{
		SampleRate:     48000,
		FFTSize:        48000,
		RangeLowerFreq: 20,
		RangeUpperFreq: 5000,
		CaptureBins:    1,
	}

	mag := make([]float64, cfg.FFTSize/2+1)
	mag[1000] = 0.8 * 0.8
	mag[1200] = 1.2 * 1.2
	mag[2400] = 0.1 * 0.1

	res := NewCalculator(cfg).CalculateFromMagnitude(mag)
	if math.Abs(res.FundamentalFreq-1200) > 1e-9 {
		t.Fatalf("auto fundamental mismatch: got %f", res.FundamentalFreq)
	}

	if math.Abs(res.Harmonics[0]-0.1/1.2) > 1e-12 {
		t.Fatalf("H2 = %f, want %f", res.Harmonics[0], 0.1/1.2)
	}
}

func TestCalculateMaxHarmonics(t *testing.T) {
	mag := make([]float64, 1025)
	mag[100] = 1

	res := NewCalculator(Config{SampleRate: 2048, MaxHarmonics: 3}).CalculateFromMagnitude(mag)
	if len(res.Harmonics) != 3 {
		t.Fatalf("harmonics = %d, want 3", len(res.Harmonics))
	}

	if res.THD != 0 || !math.IsInf(res.SINAD, 1) {
		t.Fatalf("pure tone THD=%g SINAD=%g", res.THD, res.SINAD)
	}
}

func TestCalculateEmpty(t *testing.T) {
	if res := AnalyzeSignal(nil, Config{SampleRate: 48000}); res.FundamentalLevel != 0 {
		t.Fatalf("empty signal result = %+v", res)
	}

	res := NewCalculator(Config{}).CalculateFromMagnitude(make([]float64, 64))
	if res.FundamentalLevel != 0 || res.Harmonics != nil {
		t.Fatalf("silent spectrum result = %+v", res)
	}
}

func TestAnalyzeSignalSecondHarmonic(t *testing.T) {
	const (
		sr   = 48000.0
		size = 4096
	)

	f0 := 64 * sr / size

	sig := testutil.DeterministicSine(f0, sr, 1, size)
	h2 := testutil.DeterministicSine(2*f0, sr, 0.02, size)

	for i := range sig {
		sig[i] += h2[i]
	}

	for _, typ := range []window.Type{window.TypeHann, window.TypeBlackman} {
		res := AnalyzeSignal(sig, Config{SampleRate: sr, FundamentalFreq: f0, WindowType: typ})

		if math.Abs(res.THD-0.02) > 1e-6 {
			t.Fatalf("%s THD = %g, want 0.02", window.Info(typ).Name, res.THD)
		}

		if res.OddHD > 1e-6 {
			t.Fatalf("%s odd HD = %g, want 0", window.Info(typ).Name, res.OddHD)
		}
	}
}

func TestAnalyzeSignalClippedSine(t *testing.T) {
	const (
		sr   = 48000.0
		size = 8192
	)

	f0 := 32 * sr / size
	sig := testutil.DeterministicSine(f0, sr, 1, size)

	for i, x := range sig {
		sig[i] = math.Max(-0.5, math.Min(0.5, x))
	}

	res := AnalyzeSignal(sig, Config{SampleRate: sr, FundamentalFreq: f0, MaxHarmonics: 8})
	if len(res.Harmonics) != 8 {
		t.Fatalf("harmonics = %d, want 8", len(res.Harmonics))
	}

	// Symmetric clipping makes odd harmonics dominate even ones.
	if res.Harmonics[1] < 10*res.Harmonics[0] {
		t.Fatalf("3rd harmonic %g not well above 2nd %g", res.Harmonics[1], res.Harmonics[0])
	}

	if res.THD < 0.05 || res.OddHD < 10*res.EvenHD {
		t.Fatalf("clipped sine THD=%g odd=%g even=%g", res.THD, res.OddHD, res.EvenHD)
	}
}

func TestAnalyzeSignalOffBinHighOrder(t *testing.T) {
	const (
		sr   = 48000.0
		size = 4096
		f0   = 1000.0
	)

	// 1 kHz falls a third of a bin off centre; the 9th harmonic lands
	// three bins away from 9 times the rounded fundamental bin.
	sig := testutil.DeterministicSine(f0, sr, 1, size)
	h9 := testutil.DeterministicSine(9*f0, sr, 0.1, size)

	for i := range sig {
		sig[i] += h9[i]
	}

	res := AnalyzeSignal(sig, Config{SampleRate: sr, FundamentalFreq: f0, MaxHarmonics: 8})
	if len(res.Harmonics) != 8 {
		t.Fatalf("harmonics = %d, want 8", len(res.Harmonics))
	}

	if got := res.Harmonics[7]; math.Abs(got-0.1) > 0.01 {
		t.Fatalf("H9 = %g, want ~0.1", got)
	}

	if got := res.Harmonics[0]; got > 1e-3 {
		t.Fatalf("H2 = %g, want ~0", got)
	}
}
