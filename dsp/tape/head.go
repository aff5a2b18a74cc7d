package tape

import (
	"github.com/cwbudde/algo-tapedelay/dsp/delay"
	"github.com/cwbudde/algo-tapedelay/dsp/effects"
	"github.com/cwbudde/algo-tapedelay/dsp/filter/onepole"
)

// Head is one channel's tape path: record saturation, the delay loop with a
// gliding Hermite read, tone filtering, DC blocking and the soft limiter.
type Head struct {
	sat  *effects.Saturator
	line *delay.Line
	tone *onepole.ToneChain
}

// NewHead builds a head from cfg.
func NewHead(cfg Config) (*Head, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	sat, err := effects.NewSaturator(cfg.Drive)
	if err != nil {
		return nil, err
	}

	line, err := delay.New(cfg.lineSize(),
		delay.WithSlew(cfg.Slew),
		delay.WithInitialDelay(cfg.initialDelay()),
	)
	if err != nil {
		return nil, err
	}

	tone, err := onepole.NewToneChain(cfg.SampleRate,
		onepole.WithHighpassHz(cfg.HighpassHz),
		onepole.WithDCPole(cfg.DCPole),
	)
	if err != nil {
		return nil, err
	}

	return &Head{sat: sat, line: line, tone: tone}, nil
}

// Process runs one sample through the head. delaySamples is the flutter
// modulated target; the read position glides toward it.
func (h *Head) Process(in, feedback, delaySamples, toneHz float64) float64 {
	h.line.Write(h.sat.ProcessSample(in + feedback))

	tap := h.line.ReadSmoothed(delaySamples)

	return effects.SoftStatic(h.tone.ProcessSample(tap, toneHz))
}

// CurrentDelay returns the smoothed read delay in samples.
func (h *Head) CurrentDelay() float64 {
	return h.line.CurrentDelay()
}

// Reset clears the tape and filters and returns the read delay to its
// initial value.
func (h *Head) Reset() {
	h.line.Reset()
	h.tone.Reset()
}
