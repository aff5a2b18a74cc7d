package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tapedelay/dsp/interp"
)

const (
	// DefaultSlew is the per-sample one-pole coefficient used to glide the
	// read position toward a new target delay.
	DefaultSlew = 0.0005
)

// Line is a circular delay line with a gliding read position.
//
// The write cursor advances one slot per Write. Reads address samples by
// their distance behind the cursor: Read(1) is the most recently written
// sample. The smoothed "current delay" approaches the requested target by
// an exponential step each time Glide is called, so a changed delay time
// bends the pitch instead of clicking.
type Line struct {
	buffer   []float64
	writePos int

	slew         float64
	initialDelay float64
	current      float64
}

// Option configures a Line at construction time.
type Option func(*Line) error

// WithSlew sets the glide coefficient in (0, 1].
func WithSlew(coeff float64) Option {
	return func(d *Line) error {
		if coeff <= 0 || coeff > 1 || math.IsNaN(coeff) {
			return fmt.Errorf("delay slew must be in (0, 1]: %f", coeff)
		}
		d.slew = coeff
		return nil
	}
}

// WithInitialDelay sets the smoothed delay the line starts (and resets) at.
func WithInitialDelay(samples float64) Option {
	return func(d *Line) error {
		if samples < 0 || math.IsNaN(samples) || math.IsInf(samples, 0) {
			return fmt.Errorf("delay initial delay must be >= 0: %f", samples)
		}
		d.initialDelay = samples
		return nil
	}
}

// New returns a delay line of fixed size.
func New(size int, opts ...Option) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	d := &Line{
		buffer: make([]float64, size),
		slew:   DefaultSlew,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	d.current = d.clampDelay(d.initialDelay)
	return d, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write writes one sample and advances the write cursor.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := (d.writePos - delay) % size
	if readPos < 0 {
		readPos += size
	}
	return d.buffer[readPos]
}

// ReadFractional reads with cubic Hermite interpolation. Integer delays
// return the stored sample exactly.
func (d *Line) ReadFractional(delay float64) float64 {
	delay = d.clampDelay(delay)

	p := int(math.Floor(delay))
	t := delay - float64(p)

	xm1 := d.Read(max(0, p-1))
	x0 := d.Read(p)
	x1 := d.Read(p + 1)
	x2 := d.Read(p + 2)
	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// Glide moves the smoothed delay one slew step toward target and returns
// the new value. The step never overshoots because the coefficient is at
// most 1.
func (d *Line) Glide(target float64) float64 {
	target = d.clampDelay(target)
	d.current += d.slew * (target - d.current)
	return d.current
}

// ReadSmoothed glides toward target and reads at the smoothed delay.
func (d *Line) ReadSmoothed(target float64) float64 {
	return d.ReadFractional(d.Glide(target))
}

// CurrentDelay returns the smoothed delay in samples.
func (d *Line) CurrentDelay() float64 {
	return d.current
}

// MaxDelay returns the longest delay a fractional read can address.
func (d *Line) MaxDelay() float64 {
	return float64(max(0, len(d.buffer)-3))
}

// Reset clears line state and returns the read position to its initial delay.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
	d.current = d.clampDelay(d.initialDelay)
}

func (d *Line) clampDelay(delay float64) float64 {
	if delay < 0 {
		return 0
	}
	if maxDelay := d.MaxDelay(); delay > maxDelay {
		return maxDelay
	}
	return delay
}
