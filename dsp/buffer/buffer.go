package buffer

// Buffer is fixed-capacity scratch storage for block processing. It is
// sized once and never grows, so callers can take views of it from inside
// a realtime callback.
type Buffer struct {
	samples []float64
}

// New returns a zero-filled Buffer holding capacity samples.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{samples: make([]float64, capacity)}
}

// Cap returns the number of samples the buffer holds.
func (b *Buffer) Cap() int {
	return len(b.samples)
}

// Slice returns a view of the first n samples, clamped to [0, Cap()].
func (b *Buffer) Slice(n int) []float64 {
	if n < 0 {
		n = 0
	}
	if n > len(b.samples) {
		n = len(b.samples)
	}
	return b.samples[:n]
}

// Zero clears the buffer.
func (b *Buffer) Zero() {
	clear(b.samples)
}
