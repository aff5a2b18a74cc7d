package control

import (
	"fmt"
	"math"
	"time"
)

const (
	defaultMinTickInterval   = 40 * time.Millisecond
	defaultMaxTickInterval   = 3000 * time.Millisecond
	defaultTapTimeout        = 3500 * time.Millisecond
	defaultKnobOverrideDelta = 0.05
)

// ClockConfig holds the tap-tempo window and override threshold.
type ClockConfig struct {
	MinTickInterval   time.Duration
	MaxTickInterval   time.Duration
	TapTimeout        time.Duration
	KnobOverrideDelta float64
}

// DefaultClockConfig returns the stock tap window:
// ticks between 40 ms and 3 s, 3.5 s timeout.
func DefaultClockConfig() ClockConfig {
	return ClockConfig{
		MinTickInterval:   defaultMinTickInterval,
		MaxTickInterval:   defaultMaxTickInterval,
		TapTimeout:        defaultTapTimeout,
		KnobOverrideDelta: defaultKnobOverrideDelta,
	}
}

// ClockOption mutates clock construction parameters.
type ClockOption func(*ClockConfig) error

// WithTickWindow sets the accepted tick interval range.
func WithTickWindow(minInterval, maxInterval time.Duration) ClockOption {
	return func(cfg *ClockConfig) error {
		if minInterval <= 0 || maxInterval <= minInterval {
			return fmt.Errorf("clock tick window must satisfy 0 < min < max: %v, %v", minInterval, maxInterval)
		}

		cfg.MinTickInterval = minInterval
		cfg.MaxTickInterval = maxInterval

		return nil
	}
}

// WithTapTimeout sets how long a lock survives without ticks.
func WithTapTimeout(timeout time.Duration) ClockOption {
	return func(cfg *ClockConfig) error {
		if timeout <= 0 {
			return fmt.Errorf("clock tap timeout must be > 0: %v", timeout)
		}

		cfg.TapTimeout = timeout

		return nil
	}
}

// WithKnobOverrideDelta sets how far the time knob must move in one block to
// release a lock.
func WithKnobOverrideDelta(delta float64) ClockOption {
	return func(cfg *ClockConfig) error {
		if delta <= 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
			return fmt.Errorf("clock knob override delta must be > 0 and finite: %f", delta)
		}

		cfg.KnobOverrideDelta = delta

		return nil
	}
}

// ClockState is the observable state of a Clock.
type ClockState struct {
	LastTick time.Duration
	Interval time.Duration
	Locked   bool
	HasTick  bool
}

// Clock is the tap-tempo and external clock state machine. While locked,
// the measured tick interval replaces the knob delay time.
type Clock struct {
	cfg   ClockConfig
	state ClockState

	lastKnob float64
	hasKnob  bool
}

// NewClock creates a free-running clock.
func NewClock(opts ...ClockOption) (*Clock, error) {
	cfg := DefaultClockConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	if cfg.TapTimeout < cfg.MaxTickInterval {
		return nil, fmt.Errorf("clock tap timeout must be >= max tick interval: %v < %v",
			cfg.TapTimeout, cfg.MaxTickInterval)
	}

	return &Clock{cfg: cfg}, nil
}

// Config returns the active configuration.
func (c *Clock) Config() ClockConfig { return c.cfg }

// State returns a copy of the current state.
func (c *Clock) State() ClockState { return c.state }

// Locked reports whether the tick interval currently sets the delay time.
func (c *Clock) Locked() bool { return c.state.Locked }

// Tick registers a tap or gate edge at now. It reports whether the interval
// since the previous tick was accepted and the clock is now locked to it.
//
// Intervals shorter than the minimum are contact noise and are ignored
// without moving the reference tick. Intervals longer than the maximum are
// rejected and restart the measurement from now; past the timeout they also
// release the lock.
func (c *Clock) Tick(now time.Duration) bool {
	if !c.state.HasTick {
		c.state.LastTick = now
		c.state.HasTick = true

		return false
	}

	interval := now - c.state.LastTick

	switch {
	case interval < c.cfg.MinTickInterval:
		return false
	case interval > c.cfg.MaxTickInterval:
		if interval > c.cfg.TapTimeout {
			c.state.Locked = false
		}

		c.state.LastTick = now

		return false
	}

	c.state.Interval = interval
	c.state.LastTick = now
	c.state.Locked = true

	return true
}

// Update runs the per-block unlock checks: timeout since the last tick, or
// a time knob jump larger than the override delta since the previous block.
func (c *Clock) Update(now time.Duration, timeKnob float64) {
	if c.state.Locked && now-c.state.LastTick > c.cfg.TapTimeout {
		c.state.Locked = false
	}

	if c.hasKnob && math.Abs(timeKnob-c.lastKnob) > c.cfg.KnobOverrideDelta {
		c.state.Locked = false
	}

	c.lastKnob = timeKnob
	c.hasKnob = true
}

// Apply overrides the snapshot delay time with the tick interval while locked.
func (c *Clock) Apply(s *Snapshot, sampleRate float64) {
	if !c.state.Locked {
		return
	}

	s.DelayTimeMs = float64(c.state.Interval) / float64(time.Millisecond)
	s.DelayTimeSamples = float64(c.state.Interval) * sampleRate / float64(time.Second)
}

// Reset forgets all ticks and unlocks.
func (c *Clock) Reset() {
	c.state = ClockState{}
	c.hasKnob = false
	c.lastKnob = 0
}
