package core

import (
	"math"
	"time"
)

// ProcessorConfig holds the audio-rate settings every processor shares.
type ProcessorConfig struct {
	SampleRate float64
	// BlockSize is the control period in samples. Controls are sampled
	// once per block.
	BlockSize int
}

// ProcessorOption mutates a ProcessorConfig. Non-positive values are
// ignored so callers can pass zero for "keep the default".
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns 48 kHz with 48-sample blocks, so the
// controls run at 1 kHz.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{SampleRate: 48000, BlockSize: 48}
}

// WithSampleRate sets the sample rate in Hz.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the control block size in samples.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions returns the defaults with opts applied in order.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		opt(&cfg)
	}

	return cfg
}

// BlockDuration returns the wall-clock length of one block, rounded to
// the nearest nanosecond.
func (c ProcessorConfig) BlockDuration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}

	return time.Duration(math.Round(float64(c.BlockSize) * float64(time.Second) / c.SampleRate))
}
