package modulation

import (
	"fmt"
	"math"
)

const (
	defaultFlutterSlowHz     = 0.4
	defaultFlutterFastHz     = 3.5
	defaultFlutterFastAmp    = 0.3
	defaultFlutterFastWeight = 0.5
)

// FlutterOption mutates flutter construction parameters.
type FlutterOption func(*flutterConfig) error

type flutterConfig struct {
	slowHz     float64
	fastHz     float64
	fastAmp    float64
	fastWeight float64
}

func defaultFlutterConfig() flutterConfig {
	return flutterConfig{
		slowHz:     defaultFlutterSlowHz,
		fastHz:     defaultFlutterFastHz,
		fastAmp:    defaultFlutterFastAmp,
		fastWeight: defaultFlutterFastWeight,
	}
}

// WithFlutterSlowHz sets the rate of the sine (wow) component.
func WithFlutterSlowHz(hz float64) FlutterOption {
	return func(cfg *flutterConfig) error {
		if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
			return fmt.Errorf("flutter slow rate must be > 0 and finite: %f", hz)
		}

		cfg.slowHz = hz

		return nil
	}
}

// WithFlutterFastHz sets the rate of the triangle (flutter) component.
func WithFlutterFastHz(hz float64) FlutterOption {
	return func(cfg *flutterConfig) error {
		if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
			return fmt.Errorf("flutter fast rate must be > 0 and finite: %f", hz)
		}

		cfg.fastHz = hz

		return nil
	}
}

// WithFlutterFastWeight sets how much of the triangle component is added.
func WithFlutterFastWeight(weight float64) FlutterOption {
	return func(cfg *flutterConfig) error {
		if weight < 0 || weight > 1 || math.IsNaN(weight) {
			return fmt.Errorf("flutter fast weight must be in [0, 1]: %f", weight)
		}

		cfg.fastWeight = weight

		return nil
	}
}

// Flutter produces the tape-speed wobble in samples: a slow sine plus a
// weighted faster triangle, scaled by a depth given per sample.
type Flutter struct {
	slow       *Oscillator
	fast       *Oscillator
	fastWeight float64
}

// NewFlutter creates a flutter modulator with practical defaults.
func NewFlutter(sampleRate float64, opts ...FlutterOption) (*Flutter, error) {
	cfg := defaultFlutterConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	slow, err := NewOscillator(sampleRate, WaveformSine, cfg.slowHz, 1)
	if err != nil {
		return nil, err
	}

	fast, err := NewOscillator(sampleRate, WaveformTriangle, cfg.fastHz, cfg.fastAmp)
	if err != nil {
		return nil, err
	}

	return &Flutter{
		slow:       slow,
		fast:       fast,
		fastWeight: cfg.fastWeight,
	}, nil
}

// Next advances both oscillators and returns the offset in samples for the
// given depth.
func (f *Flutter) Next(depth float64) float64 {
	return (f.slow.Process() + f.fastWeight*f.fast.Process()) * depth
}

// Peak returns the largest absolute offset Next can produce for depth.
func (f *Flutter) Peak(depth float64) float64 {
	return (f.slow.Amplitude() + f.fastWeight*f.fast.Amplitude()) * math.Abs(depth)
}

// Reset returns both oscillators to phase zero.
func (f *Flutter) Reset() {
	f.slow.Reset()
	f.fast.Reset()
}
