package control

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tapedelay/dsp/core"
)

const (
	defaultMinDelayMs        = 10.0
	defaultMaxTimeKnobMs     = 1500.0
	defaultTimeCurve         = 2.5
	defaultFeedbackBoost     = 1.1
	defaultFeedbackCeiling   = 1.2
	defaultToneMinHz         = 400.0
	defaultToneMaxHz         = 18000.0
	defaultFlutterMaxSamples = 60.0
	defaultCVWeight          = 1.0

	freezeFeedbackGain = 1.0
	freezeDryWetMix    = 1.0
)

// MapperConfig holds the curve constants of the parameter mapper.
type MapperConfig struct {
	MinDelayMs        float64
	MaxTimeKnobMs     float64
	TimeCurve         float64
	FeedbackBoost     float64
	FeedbackCeiling   float64
	ToneMinHz         float64
	ToneMaxHz         float64
	FlutterMaxSamples float64

	TimeCV     float64
	FeedbackCV float64
	ToneCV     float64
	FlutterCV  float64
	MixCV      float64
}

// DefaultMapperConfig returns the stock panel curves.
func DefaultMapperConfig() MapperConfig {
	return MapperConfig{
		MinDelayMs:        defaultMinDelayMs,
		MaxTimeKnobMs:     defaultMaxTimeKnobMs,
		TimeCurve:         defaultTimeCurve,
		FeedbackBoost:     defaultFeedbackBoost,
		FeedbackCeiling:   defaultFeedbackCeiling,
		ToneMinHz:         defaultToneMinHz,
		ToneMaxHz:         defaultToneMaxHz,
		FlutterMaxSamples: defaultFlutterMaxSamples,
		TimeCV:            defaultCVWeight,
		FeedbackCV:        defaultCVWeight,
		ToneCV:            defaultCVWeight,
		FlutterCV:         defaultCVWeight,
		MixCV:             defaultCVWeight,
	}
}

// MapperOption mutates mapper construction parameters.
type MapperOption func(*MapperConfig) error

// WithTimeRangeMs sets the knob delay range in milliseconds.
func WithTimeRangeMs(minMs, maxMs float64) MapperOption {
	return func(cfg *MapperConfig) error {
		if minMs <= 0 || maxMs <= minMs || math.IsNaN(minMs) || math.IsInf(maxMs, 0) {
			return fmt.Errorf("mapper time range must satisfy 0 < min < max: %f, %f", minMs, maxMs)
		}

		cfg.MinDelayMs = minMs
		cfg.MaxTimeKnobMs = maxMs

		return nil
	}
}

// WithFeedbackCeiling sets the largest feedback gain the knob can reach.
func WithFeedbackCeiling(ceiling float64) MapperOption {
	return func(cfg *MapperConfig) error {
		if ceiling <= 0 || ceiling > 2 || math.IsNaN(ceiling) {
			return fmt.Errorf("mapper feedback ceiling must be in (0, 2]: %f", ceiling)
		}

		cfg.FeedbackCeiling = ceiling

		return nil
	}
}

// WithToneRangeHz sets the tone cutoff range.
func WithToneRangeHz(minHz, maxHz float64) MapperOption {
	return func(cfg *MapperConfig) error {
		if minHz <= 0 || maxHz <= minHz || math.IsNaN(minHz) || math.IsInf(maxHz, 0) {
			return fmt.Errorf("mapper tone range must satisfy 0 < min < max: %f, %f", minHz, maxHz)
		}

		cfg.ToneMinHz = minHz
		cfg.ToneMaxHz = maxHz

		return nil
	}
}

// WithFlutterMaxSamples sets the flutter depth at full knob.
func WithFlutterMaxSamples(samples float64) MapperOption {
	return func(cfg *MapperConfig) error {
		if samples < 0 || math.IsNaN(samples) || math.IsInf(samples, 0) {
			return fmt.Errorf("mapper flutter depth must be >= 0 and finite: %f", samples)
		}

		cfg.FlutterMaxSamples = samples

		return nil
	}
}

// WithCVWeights sets the CV attenuation for time, feedback, tone, flutter
// and mix, in that order.
func WithCVWeights(time, feedback, tone, flutter, mix float64) MapperOption {
	return func(cfg *MapperConfig) error {
		for _, w := range []float64{time, feedback, tone, flutter, mix} {
			if w < -1 || w > 1 || math.IsNaN(w) {
				return fmt.Errorf("mapper cv weight must be in [-1, 1]: %f", w)
			}
		}

		cfg.TimeCV = time
		cfg.FeedbackCV = feedback
		cfg.ToneCV = tone
		cfg.FlutterCV = flutter
		cfg.MixCV = mix

		return nil
	}
}

// Mapper converts knob and CV readings into a Snapshot.
type Mapper struct {
	cfg          MapperConfig
	sampleRate   float64
	toneLogRatio float64
}

// NewMapper creates a mapper for the given sample rate.
func NewMapper(sampleRate float64, opts ...MapperOption) (*Mapper, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("mapper sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := DefaultMapperConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	return &Mapper{
		cfg:          cfg,
		sampleRate:   sampleRate,
		toneLogRatio: math.Log(cfg.ToneMaxHz / cfg.ToneMinHz),
	}, nil
}

// Config returns the active curve constants.
func (m *Mapper) Config() MapperConfig { return m.cfg }

// SampleRate returns the sample rate in Hz.
func (m *Mapper) SampleRate() float64 { return m.sampleRate }

// Map computes the block snapshot for in under mode. Freeze pins feedback
// and mix to 1.
func (m *Mapper) Map(in Inputs, mode Mode) Snapshot {
	ms := m.TimeMs(in.Time.Raw(m.cfg.TimeCV))

	s := Snapshot{
		DelayTimeMs:         ms,
		DelayTimeSamples:    core.MsToSamples(ms, m.sampleRate),
		FeedbackGain:        m.Feedback(in.Feedback.Raw(m.cfg.FeedbackCV)),
		ToneCutoffHz:        m.ToneHz(in.Tone.Raw(m.cfg.ToneCV)),
		FlutterDepthSamples: core.Clamp(in.Flutter.Raw(m.cfg.FlutterCV), 0, 1) * m.cfg.FlutterMaxSamples,
		DryWetMix:           core.Clamp(in.Mix.Raw(m.cfg.MixCV), 0, 1),
		Mode:                mode,
	}

	if mode == ModeFreeze {
		s.FeedbackGain = freezeFeedbackGain
		s.DryWetMix = freezeDryWetMix
	}

	return s
}

// TimeMs maps a raw time reading to milliseconds on the power-law curve.
func (m *Mapper) TimeMs(raw float64) float64 {
	x := core.Clamp(core.Finite(raw, 0), 0, 1)
	return m.cfg.MinDelayMs + curvePow(x, m.cfg.TimeCurve)*(m.cfg.MaxTimeKnobMs-m.cfg.MinDelayMs)
}

// Feedback maps a raw feedback reading to loop gain.
func (m *Mapper) Feedback(raw float64) float64 {
	return core.Clamp(core.Finite(raw, 0)*m.cfg.FeedbackBoost, 0, m.cfg.FeedbackCeiling)
}

// ToneHz maps a raw tone reading to a cutoff on a logarithmic scale.
func (m *Mapper) ToneHz(raw float64) float64 {
	x := core.Clamp(core.Finite(raw, 0), 0, 1)
	return m.cfg.ToneMinHz * curveExp(x*m.toneLogRatio)
}
