package onepole

import (
	"fmt"
	"math"
)

// DefaultHighpassHz is the fixed rumble cutoff after the tone stage.
const DefaultHighpassHz = 147.0

// ToneChain is the timbre stage of a tape head: a low-pass at the tone
// cutoff, an inverted high-pass at a fixed low cutoff, then a DC blocker.
type ToneChain struct {
	lowpass    *OnePole
	highpass   *OnePole
	dc         *DCBlocker
	highpassHz float64
}

// ToneOption configures a ToneChain.
type ToneOption func(*toneConfig) error

type toneConfig struct {
	highpassHz float64
	dcPole     float64
}

// WithHighpassHz sets the fixed high-pass cutoff.
func WithHighpassHz(hz float64) ToneOption {
	return func(cfg *toneConfig) error {
		if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
			return fmt.Errorf("tone highpass cutoff must be > 0: %f", hz)
		}
		cfg.highpassHz = hz
		return nil
	}
}

// WithDCPole sets the DC blocker pole.
func WithDCPole(pole float64) ToneOption {
	return func(cfg *toneConfig) error {
		if pole <= 0 || pole >= 1 || math.IsNaN(pole) {
			return fmt.Errorf("tone dc pole must be in (0, 1): %f", pole)
		}
		cfg.dcPole = pole
		return nil
	}
}

// NewToneChain creates the filter cascade.
func NewToneChain(sampleRate float64, opts ...ToneOption) (*ToneChain, error) {
	cfg := toneConfig{
		highpassHz: DefaultHighpassHz,
		dcPole:     DefaultDCPole,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	lp, err := New(sampleRate, Lowpass)
	if err != nil {
		return nil, err
	}
	hp, err := New(sampleRate, InvertedHighpass)
	if err != nil {
		return nil, err
	}
	dc, err := NewDCBlocker(cfg.dcPole)
	if err != nil {
		return nil, err
	}

	return &ToneChain{
		lowpass:    lp,
		highpass:   hp,
		dc:         dc,
		highpassHz: cfg.highpassHz,
	}, nil
}

// ProcessSample runs x through low-pass at toneHz, the fixed high-pass and
// the DC blocker.
func (c *ToneChain) ProcessSample(x, toneHz float64) float64 {
	lp := c.lowpass.ProcessSample(x, toneHz)
	hp := c.highpass.ProcessSample(lp, c.highpassHz)
	return c.dc.ProcessSample(hp)
}

// HighpassHz returns the fixed high-pass cutoff.
func (c *ToneChain) HighpassHz() float64 { return c.highpassHz }

// Reset clears all filter memories.
func (c *ToneChain) Reset() {
	c.lowpass.Reset()
	c.highpass.Reset()
	c.dc.Reset()
}
