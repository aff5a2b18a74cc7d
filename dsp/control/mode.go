package control

import "fmt"

// Mode selects what feeds the delay loop. Exactly one mode is active.
type Mode int

const (
	// ModeForward feeds the filtered head output back.
	ModeForward Mode = iota
	// ModeReverse feeds back a reversed capture of the head output.
	ModeReverse
	// ModeFreeze mutes the input and holds the loop near unity gain.
	ModeFreeze
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeForward:
		return "forward"
	case ModeReverse:
		return "reverse"
	case ModeFreeze:
		return "freeze"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name as printed by String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "forward", "":
		return ModeForward, nil
	case "reverse":
		return ModeReverse, nil
	case "freeze":
		return ModeFreeze, nil
	default:
		return ModeForward, fmt.Errorf("control mode is invalid: %q", s)
	}
}

// ModeSwitch enforces mutual exclusion between modes at the toggle boundary.
type ModeSwitch struct {
	mode Mode
}

// Mode returns the active mode.
func (s *ModeSwitch) Mode() Mode { return s.mode }

// Toggle applies a button edge for m. Toggling the active mode returns to
// Forward; toggling another mode replaces the active one. It reports whether
// Reverse was newly engaged.
func (s *ModeSwitch) Toggle(m Mode) bool {
	if m == ModeForward {
		s.mode = ModeForward
		return false
	}

	if s.mode == m {
		s.mode = ModeForward
		return false
	}

	s.mode = m

	return m == ModeReverse
}

// Apply consumes the freeze and reverse edges of in, freeze first. It
// reports whether Reverse was newly engaged.
func (s *ModeSwitch) Apply(in Inputs) bool {
	engaged := false

	if in.FreezePressed {
		s.Toggle(ModeFreeze)
	}

	if in.ReversePressed {
		engaged = s.Toggle(ModeReverse)
	}

	return engaged
}

// Reset returns to Forward.
func (s *ModeSwitch) Reset() {
	s.mode = ModeForward
}
