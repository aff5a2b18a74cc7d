package tape

import (
	"fmt"

	"github.com/cwbudde/algo-tapedelay/dsp/buffer"
	"github.com/cwbudde/algo-tapedelay/dsp/control"
)

// Router picks the signal a head feeds back into itself. Every output sample
// is recorded into the reverse capture regardless of mode.
type Router struct {
	capture          *buffer.Capture
	freezeCorrection float64
}

// NewRouter builds a router from cfg.
func NewRouter(cfg Config) (*Router, error) {
	if cfg.FreezeCorrection <= 0 || cfg.FreezeCorrection >= 1 {
		return nil, fmt.Errorf("tape freeze correction must be in (0, 1): %f", cfg.FreezeCorrection)
	}

	capture, err := buffer.NewCapture(cfg.reverseSize())
	if err != nil {
		return nil, err
	}

	return &Router{capture: capture, freezeCorrection: cfg.FreezeCorrection}, nil
}

// Route records out and returns the next feedback sample for mode.
func (r *Router) Route(out, gain float64, mode control.Mode) float64 {
	if mode == control.ModeReverse {
		return r.capture.Process(out) * gain
	}

	r.capture.Write(out)

	switch mode {
	case control.ModeFreeze:
		return out * gain * r.freezeCorrection
	case control.ModeForward:
		return out * gain
	default:
		// Unknown modes behave as Forward.
		return out * gain
	}
}

// Rearm restarts the reverse capture; feedback is silent in Reverse until
// the capture has been refilled.
func (r *Router) Rearm() {
	r.capture.Reset()
}

// Capturing reports whether the reverse capture is still refilling.
func (r *Router) Capturing() bool {
	return !r.capture.Filled()
}
