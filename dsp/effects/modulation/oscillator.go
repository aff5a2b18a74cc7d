package modulation

import (
	"fmt"
	"math"
)

// Waveform selects the shape produced by an Oscillator.
type Waveform int

const (
	// WaveformSine is sin(phase).
	WaveformSine Waveform = iota
	// WaveformTriangle starts at +1, falls to -1 at half period and rises back.
	WaveformTriangle
)

// String implements fmt.Stringer.
func (w Waveform) String() string {
	switch w {
	case WaveformSine:
		return "sine"
	case WaveformTriangle:
		return "triangle"
	default:
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
}

// Oscillator is a phase-accumulator LFO.
type Oscillator struct {
	sampleRate float64
	waveform   Waveform
	freqHz     float64
	amplitude  float64

	phase float64
	inc   float64
}

// NewOscillator creates an LFO with the given shape, frequency and peak amplitude.
func NewOscillator(sampleRate float64, waveform Waveform, freqHz, amplitude float64) (*Oscillator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("oscillator sample rate must be > 0 and finite: %f", sampleRate)
	}

	if waveform != WaveformSine && waveform != WaveformTriangle {
		return nil, fmt.Errorf("oscillator waveform is invalid: %d", waveform)
	}

	if amplitude < 0 || math.IsNaN(amplitude) || math.IsInf(amplitude, 0) {
		return nil, fmt.Errorf("oscillator amplitude must be >= 0 and finite: %f", amplitude)
	}

	o := &Oscillator{
		sampleRate: sampleRate,
		waveform:   waveform,
		amplitude:  amplitude,
	}

	err := o.SetFrequency(freqHz)
	if err != nil {
		return nil, err
	}

	return o, nil
}

// SetFrequency sets the rate in Hz, below Nyquist.
func (o *Oscillator) SetFrequency(freqHz float64) error {
	if freqHz <= 0 || freqHz >= o.sampleRate/2 || math.IsNaN(freqHz) {
		return fmt.Errorf("oscillator frequency must be in (0, %f): %f", o.sampleRate/2, freqHz)
	}

	o.freqHz = freqHz
	o.inc = 2 * math.Pi * freqHz / o.sampleRate

	return nil
}

// Frequency returns the rate in Hz.
func (o *Oscillator) Frequency() float64 { return o.freqHz }

// Amplitude returns the peak amplitude.
func (o *Oscillator) Amplitude() float64 { return o.amplitude }

// Phase returns the current phase in radians, in [0, 2π).
func (o *Oscillator) Phase() float64 { return o.phase }

// Process returns the value at the current phase and advances by one sample.
func (o *Oscillator) Process() float64 {
	var out float64

	switch o.waveform {
	case WaveformTriangle:
		t := -1 + 2*o.phase/(2*math.Pi)
		out = 2 * (math.Abs(t) - 0.5)
	default:
		out = math.Sin(o.phase)
	}

	o.phase += o.inc
	if o.phase >= 2*math.Pi {
		o.phase -= 2 * math.Pi
	}

	return out * o.amplitude
}

// Reset returns the phase to zero.
func (o *Oscillator) Reset() {
	o.phase = 0
}
