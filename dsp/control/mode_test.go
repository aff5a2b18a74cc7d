package control

import "testing"

func TestModeSwitchToggle(t *testing.T) {
	tests := []struct {
		name    string
		toggles []Mode
		want    Mode
		engaged bool
	}{
		{name: "initial", want: ModeForward},
		{name: "freeze", toggles: []Mode{ModeFreeze}, want: ModeFreeze},
		{name: "freeze twice", toggles: []Mode{ModeFreeze, ModeFreeze}, want: ModeForward},
		{name: "reverse", toggles: []Mode{ModeReverse}, want: ModeReverse, engaged: true},
		{name: "reverse replaces freeze", toggles: []Mode{ModeFreeze, ModeReverse}, want: ModeReverse, engaged: true},
		{name: "freeze replaces reverse", toggles: []Mode{ModeReverse, ModeFreeze}, want: ModeFreeze},
		{name: "reverse off", toggles: []Mode{ModeReverse, ModeReverse}, want: ModeForward},
		{name: "forward clears", toggles: []Mode{ModeFreeze, ModeForward}, want: ModeForward},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ModeSwitch

			engaged := false
			for _, m := range tt.toggles {
				engaged = s.Toggle(m)
			}

			if s.Mode() != tt.want {
				t.Fatalf("mode = %v, want %v", s.Mode(), tt.want)
			}
			if engaged != tt.engaged {
				t.Fatalf("engaged = %v, want %v", engaged, tt.engaged)
			}
		})
	}
}

func TestModeSwitchApply(t *testing.T) {
	var s ModeSwitch

	if s.Apply(Inputs{FreezePressed: true}) {
		t.Fatal("freeze edge should not report reverse")
	}
	if s.Mode() != ModeFreeze {
		t.Fatalf("mode = %v", s.Mode())
	}

	if !s.Apply(Inputs{ReversePressed: true}) {
		t.Fatal("reverse edge should report engagement")
	}

	// Both edges in one block: freeze is handled first, then reverse.
	if !s.Apply(Inputs{FreezePressed: true, ReversePressed: true}) {
		t.Fatal("reverse should be re-engaged after freeze replaced it")
	}
	if s.Mode() != ModeReverse {
		t.Fatalf("mode = %v", s.Mode())
	}

	s.Reset()
	if s.Mode() != ModeForward {
		t.Fatal("Reset should return to forward")
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeForward, ModeReverse, ModeFreeze} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}

	if _, err := ParseMode("sideways"); err == nil {
		t.Fatal("expected error")
	}
}
