package control

import (
	"math"
	"testing"
)

func newTestMapper(t *testing.T, opts ...MapperOption) *Mapper {
	t.Helper()

	m, err := NewMapper(48000, opts...)
	if err != nil {
		t.Fatalf("NewMapper() error = %v", err)
	}

	return m
}

func nearlyRel(got, want, rel float64) bool {
	return math.Abs(got-want) <= rel*math.Max(1, math.Abs(want))
}

func TestMapperValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  MapperOption
	}{
		{name: "time range inverted", opt: WithTimeRangeMs(100, 50)},
		{name: "time min zero", opt: WithTimeRangeMs(0, 50)},
		{name: "ceiling zero", opt: WithFeedbackCeiling(0)},
		{name: "ceiling huge", opt: WithFeedbackCeiling(3)},
		{name: "tone inverted", opt: WithToneRangeHz(1000, 100)},
		{name: "flutter negative", opt: WithFlutterMaxSamples(-1)},
		{name: "cv weight", opt: WithCVWeights(1, 1, 2, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMapper(48000, tt.opt); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := NewMapper(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestMapperEndpoints(t *testing.T) {
	m := newTestMapper(t)

	low := m.Map(Inputs{}, ModeForward)
	if low.DelayTimeMs != 10 || low.DelayTimeSamples != 480 {
		t.Fatalf("min time = %g ms / %g samples", low.DelayTimeMs, low.DelayTimeSamples)
	}
	if low.FeedbackGain != 0 || low.FlutterDepthSamples != 0 || low.DryWetMix != 0 {
		t.Fatalf("zero inputs mapped to %+v", low)
	}
	if !nearlyRel(low.ToneCutoffHz, 400, 1e-3) {
		t.Fatalf("min tone = %g", low.ToneCutoffHz)
	}

	full := Knob{Value: 1}
	high := m.Map(Inputs{Time: full, Feedback: full, Tone: full, Flutter: full, Mix: full}, ModeForward)
	if !nearlyRel(high.DelayTimeMs, 1500, 1e-3) || !nearlyRel(high.DelayTimeSamples, 72000, 1e-3) {
		t.Fatalf("max time = %g ms / %g samples", high.DelayTimeMs, high.DelayTimeSamples)
	}
	if math.Abs(high.FeedbackGain-1.1) > 1e-12 {
		t.Fatalf("full feedback = %g, want 1.1", high.FeedbackGain)
	}
	if !nearlyRel(high.ToneCutoffHz, 18000, 1e-3) {
		t.Fatalf("max tone = %g", high.ToneCutoffHz)
	}
	if high.FlutterDepthSamples != 60 || high.DryWetMix != 1 {
		t.Fatalf("flutter %g mix %g", high.FlutterDepthSamples, high.DryWetMix)
	}
}

func TestMapperTimeCurve(t *testing.T) {
	m := newTestMapper(t)

	for _, raw := range []float64{0.1, 0.25, 0.5, 0.9} {
		want := 10 + math.Pow(raw, 2.5)*1490
		if got := m.TimeMs(raw); !nearlyRel(got, want, 1e-3) {
			t.Fatalf("TimeMs(%g) = %g, want %g", raw, got, want)
		}
	}
}

func TestMapperFeedbackCeiling(t *testing.T) {
	m := newTestMapper(t)

	s := m.Map(Inputs{Feedback: Knob{Value: 1, CV: 1}}, ModeForward)
	if s.FeedbackGain != 1.2 {
		t.Fatalf("feedback = %g, want ceiling 1.2", s.FeedbackGain)
	}

	s = m.Map(Inputs{Feedback: Knob{Value: 0.2, CV: -1}}, ModeReverse)
	if s.FeedbackGain != 0 {
		t.Fatalf("feedback = %g, want 0", s.FeedbackGain)
	}
}

func TestMapperCVWeights(t *testing.T) {
	m := newTestMapper(t, WithCVWeights(0.5, 1, 1, 1, 0.3))

	s := m.Map(Inputs{Mix: Knob{Value: 0.2, CV: 1}}, ModeForward)
	if math.Abs(s.DryWetMix-0.5) > 1e-12 {
		t.Fatalf("mix = %g, want 0.5", s.DryWetMix)
	}

	want := m.TimeMs(0.25)
	s = m.Map(Inputs{Time: Knob{CV: 0.5}}, ModeForward)
	if s.DelayTimeMs != want {
		t.Fatalf("time = %g, want %g", s.DelayTimeMs, want)
	}
}

func TestMapperFreezePins(t *testing.T) {
	m := newTestMapper(t)

	in := Inputs{Feedback: Knob{Value: 0.2}, Mix: Knob{Value: 0.1}, Tone: Knob{Value: 0.5}}
	s := m.Map(in, ModeFreeze)

	if s.FeedbackGain != 1 || s.DryWetMix != 1 {
		t.Fatalf("freeze feedback %g mix %g, want 1 and 1", s.FeedbackGain, s.DryWetMix)
	}
	if s.Mode != ModeFreeze {
		t.Fatalf("mode = %v", s.Mode)
	}

	fwd := m.Map(in, ModeForward)
	if fwd.ToneCutoffHz != s.ToneCutoffHz {
		t.Fatal("freeze should not change tone")
	}
}

func TestMapperNonFiniteInputs(t *testing.T) {
	m := newTestMapper(t)

	bad := Knob{Value: math.NaN(), CV: math.Inf(1)}
	s := m.Map(Inputs{Time: bad, Feedback: bad, Tone: bad, Flutter: bad, Mix: bad}, ModeForward)

	for name, v := range map[string]float64{
		"time":     s.DelayTimeSamples,
		"feedback": s.FeedbackGain,
		"tone":     s.ToneCutoffHz,
		"flutter":  s.FlutterDepthSamples,
		"mix":      s.DryWetMix,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("%s is not finite: %g", name, v)
		}
	}

	if s.DelayTimeMs != 10 {
		t.Fatalf("NaN time should map as 0: %g", s.DelayTimeMs)
	}
}

func BenchmarkMapperMap(b *testing.B) {
	m, err := NewMapper(48000)
	if err != nil {
		b.Fatal(err)
	}

	in := Inputs{Time: Knob{Value: 0.4}, Tone: Knob{Value: 0.7}, Mix: Knob{Value: 0.5}}

	b.ResetTimer()

	for range b.N {
		_ = m.Map(in, ModeForward)
	}
}
