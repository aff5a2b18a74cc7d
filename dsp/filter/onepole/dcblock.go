package onepole

import (
	"fmt"
	"math"
)

// DefaultDCPole is the feedback pole of the DC blocker.
const DefaultDCPole = 0.995

// DCBlocker implements y[n] = x[n] − x[n−1] + pole·y[n−1].
type DCBlocker struct {
	pole   float64
	x1, y1 float64
}

// NewDCBlocker creates a DC blocker with a pole in (0, 1).
func NewDCBlocker(pole float64) (*DCBlocker, error) {
	if pole <= 0 || pole >= 1 || math.IsNaN(pole) {
		return nil, fmt.Errorf("dc blocker pole must be in (0, 1): %f", pole)
	}
	return &DCBlocker{pole: pole}, nil
}

// ProcessSample filters one sample.
func (b *DCBlocker) ProcessSample(x float64) float64 {
	y := x - b.x1 + b.pole*b.y1
	b.x1 = x
	b.y1 = y
	return y
}

// Pole returns the feedback pole.
func (b *DCBlocker) Pole() float64 { return b.pole }

// Reset clears the filter memory.
func (b *DCBlocker) Reset() {
	b.x1 = 0
	b.y1 = 0
}
