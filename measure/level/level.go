package level

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tapedelay/dsp/core"
)

// DefaultDecay is the per-block multiplier applied to a held peak.
const DefaultDecay = 0.95

// Stats holds block level statistics.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64 // mean
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max |x|
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS (linear)
	CrestFactor_dB float64
	ZeroCrossings  int
}

// Calculate computes level statistics in a single pass.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{
			RMS_dB:         math.Inf(-1),
			Peak_dB:        math.Inf(-1),
			CrestFactor_dB: math.Inf(-1),
		}
	}

	var (
		sum           float64
		sumSq         float64
		peak          float64
		zeroCrossings int
	)

	for i, x := range signal {
		sum += x
		sumSq += x * x

		if a := math.Abs(x); a > peak {
			peak = a
		}

		if i > 0 && signal[i-1]*x < 0 {
			zeroCrossings++
		}
	}

	nf := float64(n)
	rms := math.Sqrt(sumSq / nf)

	var crest, crestdB float64
	if rms > 0 {
		crest = peak / rms
		crestdB = core.LinearToDB(crest)
	}

	return Stats{
		Length:         n,
		DC:             sum / nf,
		RMS:            rms,
		RMS_dB:         core.LinearToDB(rms),
		Peak:           peak,
		Peak_dB:        core.LinearToDB(peak),
		CrestFactor:    crest,
		CrestFactor_dB: crestdB,
		ZeroCrossings:  zeroCrossings,
	}
}

// Reading is the current state of a Meter.
type Reading struct {
	Peak float64 // held peak, decaying per block
	RMS  float64 // RMS of the most recent block
}

// PeakDB returns the held peak in dBFS.
func (r Reading) PeakDB() float64 { return core.LinearToDB(r.Peak) }

// RMSDB returns the block RMS in dBFS.
func (r Reading) RMSDB() float64 { return core.LinearToDB(r.RMS) }

// Meter is a streaming level meter with a decaying peak hold, suitable for
// driving a VU or LED display once per block.
type Meter struct {
	decay   float64
	reading Reading
}

// NewMeter creates a meter whose held peak is multiplied by decay after
// each block.
func NewMeter(decay float64) (*Meter, error) {
	if decay < 0 || decay >= 1 || math.IsNaN(decay) {
		return nil, fmt.Errorf("meter decay must be in [0, 1): %f", decay)
	}

	return &Meter{decay: decay}, nil
}

// Process updates the meter with one block.
func (m *Meter) Process(block []float64) {
	if len(block) == 0 {
		return
	}

	var (
		sumSq float64
		peak  float64
	)

	for _, x := range block {
		sumSq += x * x

		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	m.reading.RMS = math.Sqrt(sumSq / float64(len(block)))
	m.reading.Peak = math.Max(peak, m.reading.Peak*m.decay)
}

// Reading returns the current meter state.
func (m *Meter) Reading() Reading { return m.reading }

// Reset clears the meter.
func (m *Meter) Reset() {
	m.reading = Reading{}
}
