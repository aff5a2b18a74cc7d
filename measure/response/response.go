package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tapedelay/dsp/window"
)

// ErrEmptySignal is returned when there is nothing to analyze.
var ErrEmptySignal = errors.New("response: empty signal")

// Config holds spectrum analysis parameters.
type Config struct {
	SampleRate float64
	// FFTSize is rounded up to a power of two; 0 picks the smallest one
	// that holds the signal. Longer signals are truncated.
	FFTSize int
	// Window is applied over the signal before the transform and the
	// magnitudes are corrected for its coherent gain. The zero value,
	// TypeRectangular, leaves the signal as is; keep it for impulse
	// responses.
	Window window.Type
}

// Spectrum is a one-sided magnitude spectrum, bins 0..FFTSize/2.
type Spectrum struct {
	SampleRate float64
	FFTSize    int
	Magnitude  []float64
}

// Analyze computes the magnitude spectrum of a real signal.
func Analyze(signal []float64, cfg Config) (Spectrum, error) {
	if len(signal) == 0 {
		return Spectrum{}, ErrEmptySignal
	}

	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return Spectrum{}, fmt.Errorf("response sample rate must be > 0 and finite: %f", cfg.SampleRate)
	}

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = len(signal)
	}

	fftSize = nextPowerOf2(fftSize)
	if fftSize < 2 {
		fftSize = 2
	}

	n := min(len(signal), fftSize)
	frame := make([]float64, n)

	scale := 1.0

	if cfg.Window != window.TypeRectangular {
		coeffs := window.Generate(cfg.Window, n, window.WithPeriodic())

		err := window.ApplyCoefficients(frame, signal[:n], coeffs)
		if err != nil {
			return Spectrum{}, fmt.Errorf("response window: %w", err)
		}

		// One-sided amplitude: a full-scale sine reads 1.
		if gain := window.CoherentGain(coeffs); gain > 0 {
			scale = 2 / (float64(n) * gain)
		}
	} else {
		copy(frame, signal[:n])
	}

	inData := make([]complex128, fftSize)
	for i, x := range frame {
		inData[i] = complex(x, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("response fft plan: %w", err)
	}

	out := make([]complex128, fftSize)

	err = plan.Forward(out, inData)
	if err != nil {
		return Spectrum{}, fmt.Errorf("response fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	if scale != 1 {
		vecmath.ScaleBlock(mag, mag, scale)
	}

	return Spectrum{
		SampleRate: cfg.SampleRate,
		FFTSize:    fftSize,
		Magnitude:  mag,
	}, nil
}

// BinWidth returns the spacing between bins in Hz.
func (s Spectrum) BinWidth() float64 {
	if s.FFTSize == 0 {
		return 0
	}

	return s.SampleRate / float64(s.FFTSize)
}

// Bin returns the index of the bin nearest freq, clamped to the spectrum.
func (s Spectrum) Bin(freq float64) int {
	if len(s.Magnitude) == 0 {
		return 0
	}

	idx := int(math.Round(freq / s.BinWidth()))

	return min(max(idx, 0), len(s.Magnitude)-1)
}

// At returns the magnitude at the bin nearest freq.
func (s Spectrum) At(freq float64) float64 {
	if len(s.Magnitude) == 0 {
		return 0
	}

	return s.Magnitude[s.Bin(freq)]
}

// AtDB returns At(freq) in decibels.
func (s Spectrum) AtDB(freq float64) float64 {
	return toDB(s.At(freq))
}

func toDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
