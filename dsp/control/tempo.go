package control

import (
	"fmt"
	"math"
)

const ledOnFraction = 0.1

// Tempo is the phase accumulator behind the tempo LED and gate output. It
// completes one cycle per delay period.
type Tempo struct {
	sampleRate float64
	phase      float64
	gate       bool
}

// NewTempo creates a tempo accumulator.
func NewTempo(sampleRate float64) (*Tempo, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("tempo sample rate must be > 0 and finite: %f", sampleRate)
	}

	return &Tempo{sampleRate: sampleRate}, nil
}

// Advance moves the phase by n samples at the given delay period. The gate
// goes high on the sample where the phase wraps and drops once the loop is
// past the middle of the block without another wrap.
func (t *Tempo) Advance(delayMs float64, n int) {
	if n <= 0 || delayMs <= 0 {
		return
	}

	inc := 1 / (delayMs / 1000 * t.sampleRate)
	half := n / 2

	for i := range n {
		wrapped := t.phase+inc >= 1

		t.phase += inc
		if t.phase >= 1 {
			t.phase -= 1
		}

		if wrapped {
			t.gate = true
		} else if i > half {
			t.gate = false
		}
	}
}

// Restart zeroes the phase, aligning the LED with an accepted tick.
func (t *Tempo) Restart() {
	t.phase = 0
}

// Phase returns the position in the delay cycle, in [0, 1).
func (t *Tempo) Phase() float64 { return t.phase }

// Gate returns the tempo gate output.
func (t *Tempo) Gate() bool { return t.gate }

// LED reports whether the tempo indicator is lit: during the first tenth of
// each cycle, or solid while freeze or reverse is engaged.
func (t *Tempo) LED(mode Mode) bool {
	return t.phase < ledOnFraction || mode != ModeForward
}

// Reset zeroes the phase and drops the gate.
func (t *Tempo) Reset() {
	t.phase = 0
	t.gate = false
}
