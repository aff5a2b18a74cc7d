package tape

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tapedelay/dsp/control"
	"github.com/cwbudde/algo-tapedelay/dsp/core"
	"github.com/cwbudde/algo-tapedelay/dsp/delay"
	"github.com/cwbudde/algo-tapedelay/dsp/effects"
	"github.com/cwbudde/algo-tapedelay/dsp/effects/modulation"
	"github.com/cwbudde/algo-tapedelay/dsp/filter/onepole"
	"github.com/cwbudde/algo-tapedelay/measure/level"
)

const (
	defaultMaxDelaySeconds     = 3.0
	defaultReverseSeconds      = 1.0
	defaultInitialDelaySeconds = 0.5
	defaultFreezeCorrection    = 0.85
	defaultStereoOffset        = 50.0
	defaultMinDelaySamples     = 10.0
	defaultDelayHeadroom       = 100.0

	maxMaxDelaySeconds = 30.0
)

// Config holds engine construction parameters.
type Config struct {
	core.ProcessorConfig

	MaxDelaySeconds     float64
	ReverseSeconds      float64
	InitialDelaySeconds float64
	Drive               float64
	Slew                float64
	HighpassHz          float64
	DCPole              float64
	FreezeCorrection    float64
	CrossFeed           float64
	StereoOffset        float64
	MinDelaySamples     float64
	DelayHeadroom       float64
	MeterDecay          float64

	MapperOptions  []control.MapperOption
	ClockOptions   []control.ClockOption
	FlutterOptions []modulation.FlutterOption
}

// DefaultConfig returns the stock settings: 3 s of tape, 1 s reverse
// capture, 500 ms initial delay.
func DefaultConfig() Config {
	return Config{
		ProcessorConfig:     core.DefaultProcessorConfig(),
		MaxDelaySeconds:     defaultMaxDelaySeconds,
		ReverseSeconds:      defaultReverseSeconds,
		InitialDelaySeconds: defaultInitialDelaySeconds,
		Drive:               effects.DefaultTapeDrive,
		Slew:                delay.DefaultSlew,
		HighpassHz:          onepole.DefaultHighpassHz,
		DCPole:              onepole.DefaultDCPole,
		FreezeCorrection:    defaultFreezeCorrection,
		StereoOffset:        defaultStereoOffset,
		MinDelaySamples:     defaultMinDelaySamples,
		DelayHeadroom:       defaultDelayHeadroom,
		MeterDecay:          level.DefaultDecay,
	}
}

// Option mutates engine construction parameters.
type Option func(*Config) error

// WithProcessorOptions applies shared sample rate and block size options.
func WithProcessorOptions(opts ...core.ProcessorOption) Option {
	return func(cfg *Config) error {
		for _, opt := range opts {
			if opt != nil {
				opt(&cfg.ProcessorConfig)
			}
		}

		return nil
	}
}

// WithSampleRate sets the sample rate in Hz.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) error {
		if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
			return fmt.Errorf("tape sample rate must be > 0 and finite: %f", sampleRate)
		}

		cfg.SampleRate = sampleRate

		return nil
	}
}

// WithBlockSize sets the control block size in samples.
func WithBlockSize(blockSize int) Option {
	return func(cfg *Config) error {
		if blockSize <= 0 {
			return fmt.Errorf("tape block size must be > 0: %d", blockSize)
		}

		cfg.BlockSize = blockSize

		return nil
	}
}

// WithMaxDelaySeconds sets the tape loop length.
func WithMaxDelaySeconds(seconds float64) Option {
	return func(cfg *Config) error {
		if seconds <= 0 || seconds > maxMaxDelaySeconds || math.IsNaN(seconds) {
			return fmt.Errorf("tape max delay must be in (0, %g] seconds: %f", maxMaxDelaySeconds, seconds)
		}

		cfg.MaxDelaySeconds = seconds

		return nil
	}
}

// WithReverseSeconds sets the length of the reverse capture loop.
func WithReverseSeconds(seconds float64) Option {
	return func(cfg *Config) error {
		if seconds <= 0 || seconds > maxMaxDelaySeconds || math.IsNaN(seconds) {
			return fmt.Errorf("tape reverse length must be in (0, %g] seconds: %f", maxMaxDelaySeconds, seconds)
		}

		cfg.ReverseSeconds = seconds

		return nil
	}
}

// WithDrive sets the gain ahead of the record saturation.
func WithDrive(drive float64) Option {
	return func(cfg *Config) error {
		if drive <= 0 || math.IsNaN(drive) || math.IsInf(drive, 0) {
			return fmt.Errorf("tape drive must be > 0 and finite: %f", drive)
		}

		cfg.Drive = drive

		return nil
	}
}

// WithSlew sets the delay glide coefficient in (0, 1].
func WithSlew(slew float64) Option {
	return func(cfg *Config) error {
		if slew <= 0 || slew > 1 || math.IsNaN(slew) {
			return fmt.Errorf("tape slew must be in (0, 1]: %f", slew)
		}

		cfg.Slew = slew

		return nil
	}
}

// WithFreezeCorrection sets the loop attenuation applied while frozen.
func WithFreezeCorrection(correction float64) Option {
	return func(cfg *Config) error {
		if correction <= 0 || correction >= 1 || math.IsNaN(correction) {
			return fmt.Errorf("tape freeze correction must be in (0, 1): %f", correction)
		}

		cfg.FreezeCorrection = correction

		return nil
	}
}

// WithCrossFeed blends each channel's feedback with the other's. 0 keeps the
// channels independent, 1 swaps them (ping-pong).
func WithCrossFeed(amount float64) Option {
	return func(cfg *Config) error {
		if amount < 0 || amount > 1 || math.IsNaN(amount) {
			return fmt.Errorf("tape cross-feed must be in [0, 1]: %f", amount)
		}

		cfg.CrossFeed = amount

		return nil
	}
}

// WithStereoOffset sets the extra delay of the right head in samples.
func WithStereoOffset(samples float64) Option {
	return func(cfg *Config) error {
		if samples < 0 || math.IsNaN(samples) || math.IsInf(samples, 0) {
			return fmt.Errorf("tape stereo offset must be >= 0 and finite: %f", samples)
		}

		cfg.StereoOffset = samples

		return nil
	}
}

// WithMapperOptions forwards options to the parameter mapper.
func WithMapperOptions(opts ...control.MapperOption) Option {
	return func(cfg *Config) error {
		cfg.MapperOptions = append(cfg.MapperOptions, opts...)
		return nil
	}
}

// WithClockOptions forwards options to the tap-tempo clock.
func WithClockOptions(opts ...control.ClockOption) Option {
	return func(cfg *Config) error {
		cfg.ClockOptions = append(cfg.ClockOptions, opts...)
		return nil
	}
}

// WithFlutterOptions forwards options to the flutter modulator.
func WithFlutterOptions(opts ...modulation.FlutterOption) Option {
	return func(cfg *Config) error {
		cfg.FlutterOptions = append(cfg.FlutterOptions, opts...)
		return nil
	}
}

func (cfg Config) validate() error {
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return fmt.Errorf("tape sample rate must be > 0 and finite: %f", cfg.SampleRate)
	}

	if cfg.BlockSize <= 0 {
		return fmt.Errorf("tape block size must be > 0: %d", cfg.BlockSize)
	}

	capacity := cfg.lineSize()
	if float64(capacity) <= cfg.MinDelaySamples+cfg.DelayHeadroom {
		return fmt.Errorf("tape max delay too short for %g Hz: %d samples", cfg.SampleRate, capacity)
	}

	if cfg.reverseSize() <= 0 {
		return fmt.Errorf("tape reverse length too short for %g Hz: %f s", cfg.SampleRate, cfg.ReverseSeconds)
	}

	return nil
}

func (cfg Config) lineSize() int {
	return int(math.Ceil(cfg.MaxDelaySeconds * cfg.SampleRate))
}

func (cfg Config) reverseSize() int {
	return int(math.Round(cfg.ReverseSeconds * cfg.SampleRate))
}

func (cfg Config) initialDelay() float64 {
	return math.Min(cfg.InitialDelaySeconds*cfg.SampleRate, cfg.maxDelaySamples())
}

func (cfg Config) maxDelaySamples() float64 {
	return float64(cfg.lineSize()) - cfg.DelayHeadroom
}
