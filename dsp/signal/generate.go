package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-tapedelay/dsp/core"
)

// Generator creates deterministic test material for the echo: tones, noise
// and percussive bursts that make repeats easy to hear and measure.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed used for noise and bursts.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator with shared processor options and
// signal-specific options.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Config returns the processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out, nil
}

// WhiteNoise generates uniform noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}

	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out, nil
}

// Bursts generates short noise bursts with an exponential decay, one every
// periodSeconds starting at sample 0. decaySeconds is the time for a burst
// to fall to 1/e; each burst is cut off before the next one starts.
func (g *Generator) Bursts(periodSeconds, decaySeconds, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("burst samples must be > 0: %d", samples)
	}

	if periodSeconds <= 0 || math.IsNaN(periodSeconds) {
		return nil, fmt.Errorf("burst period must be > 0: %f", periodSeconds)
	}

	if decaySeconds <= 0 || math.IsNaN(decaySeconds) {
		return nil, fmt.Errorf("burst decay must be > 0: %f", decaySeconds)
	}

	period := max(1, int(math.Round(periodSeconds*g.cfg.SampleRate)))
	tau := decaySeconds * g.cfg.SampleRate
	rng := rand.New(rand.NewSource(g.seed))
	out := make([]float64, samples)

	for i := range out {
		env := amplitude * math.Exp(-float64(i%period)/tau)
		out[i] = (rng.Float64()*2 - 1) * env
	}

	return out, nil
}

// Normalize scales data to the target peak and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	peak := 0.0
	for _, v := range data {
		peak = math.Max(peak, math.Abs(v))
	}

	out := make([]float64, len(data))
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / peak
	for i, v := range data {
		out[i] = v * scale
	}

	return out, nil
}
