package buffer

import "fmt"

// Capture records a continuous stream into a circular buffer and plays it
// back in reverse. Writing never stops. After Reset, playback stays silent
// until the buffer has been completely refilled, then walks backward from
// the sample written just before the reset point.
type Capture struct {
	data    []float64
	write   int
	read    int
	written int
	filled  bool
}

// NewCapture creates a capture buffer of size samples.
func NewCapture(size int) (*Capture, error) {
	if size <= 0 {
		return nil, fmt.Errorf("capture size must be > 0: %d", size)
	}

	c := &Capture{data: make([]float64, size)}
	c.Reset()

	return c, nil
}

// Len returns the capacity in samples.
func (c *Capture) Len() int {
	return len(c.data)
}

// Filled reports whether a full buffer has been written since the last Reset.
func (c *Capture) Filled() bool {
	return c.filled
}

// Write records one sample.
func (c *Capture) Write(x float64) {
	c.data[c.write] = x

	c.write++
	if c.write == len(c.data) {
		c.write = 0
	}

	if !c.filled {
		c.written++
		if c.written >= len(c.data) {
			c.filled = true
		}
	}
}

// Next returns the next reversed sample, or 0 while still recording.
func (c *Capture) Next() float64 {
	if !c.filled {
		return 0
	}

	v := c.data[c.read]

	c.read--
	if c.read < 0 {
		c.read = len(c.data) - 1
	}

	return v
}

// Process writes x and returns the next reversed sample.
func (c *Capture) Process(x float64) float64 {
	c.Write(x)
	return c.Next()
}

// Reset restarts recording. Stored samples are kept but not played until
// the buffer has been overwritten once.
func (c *Capture) Reset() {
	c.read = c.write - 1
	if c.read < 0 {
		c.read = len(c.data) - 1
	}

	c.written = 0
	c.filled = false
}
