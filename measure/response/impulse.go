package response

// SampleProcessor is anything that maps one input sample to one output
// sample while keeping its own state.
type SampleProcessor interface {
	ProcessSample(x float64) float64
}

// SampleProcessorFunc adapts a function to SampleProcessor.
type SampleProcessorFunc func(x float64) float64

// ProcessSample calls f(x).
func (f SampleProcessorFunc) ProcessSample(x float64) float64 { return f(x) }

// ImpulseResponse feeds a unit impulse followed by n-1 zeros through p and
// returns the n output samples.
func ImpulseResponse(p SampleProcessor, n int) []float64 {
	if p == nil || n <= 0 {
		return nil
	}

	out := make([]float64, n)
	out[0] = p.ProcessSample(1)

	for i := 1; i < n; i++ {
		out[i] = p.ProcessSample(0)
	}

	return out
}
