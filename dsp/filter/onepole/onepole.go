package onepole

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tapedelay/dsp/core"
)

const (
	minCoefficient = 0.00001
	maxCoefficient = 0.99999
)

// Response selects which output a OnePole returns.
type Response int

const (
	// Lowpass returns the smoothed state y0.
	Lowpass Response = iota
	// InvertedHighpass returns lp − x.
	InvertedHighpass
)

// String implements fmt.Stringer.
func (r Response) String() string {
	switch r {
	case Lowpass:
		return "lowpass"
	case InvertedHighpass:
		return "inverted-highpass"
	default:
		return fmt.Sprintf("Response(%d)", int(r))
	}
}

// Coefficient returns the smoothing coefficient for cutoffHz at sampleRate:
// sin(2π·fc/fs) clamped to [1e-5, 0.99999].
func Coefficient(cutoffHz, sampleRate float64) float64 {
	return core.Clamp(math.Sin(cutoffHz*2*math.Pi/sampleRate), minCoefficient, maxCoefficient)
}

// OnePole is a one-pole low-pass with an optional inverted high-pass output.
// The cutoff is passed per sample; the coefficient is only recomputed when
// it changes.
type OnePole struct {
	sampleRate float64
	response   Response

	cutoff float64
	coeff  float64
	y0     float64
}

// New creates a one-pole filter.
func New(sampleRate float64, response Response) (*OnePole, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("onepole sample rate must be > 0: %f", sampleRate)
	}
	if response != Lowpass && response != InvertedHighpass {
		return nil, fmt.Errorf("onepole response is invalid: %d", response)
	}
	return &OnePole{
		sampleRate: sampleRate,
		response:   response,
		cutoff:     -1,
	}, nil
}

// ProcessSample filters x at cutoffHz.
func (f *OnePole) ProcessSample(x, cutoffHz float64) float64 {
	if cutoffHz != f.cutoff {
		f.cutoff = cutoffHz
		f.coeff = Coefficient(cutoffHz, f.sampleRate)
	}

	lp := f.y0 + f.coeff*(x-f.y0)
	f.y0 = lp

	if f.response == InvertedHighpass {
		return lp - x
	}
	return lp
}

// Response returns the configured output type.
func (f *OnePole) Response() Response { return f.response }

// SampleRate returns sample rate in Hz.
func (f *OnePole) SampleRate() float64 { return f.sampleRate }

// Reset clears the filter memory.
func (f *OnePole) Reset() {
	f.y0 = 0
}
