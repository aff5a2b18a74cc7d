package control

import "github.com/cwbudde/algo-tapedelay/dsp/core"

// Knob is one continuous parameter: a panel position plus its CV input.
// Both are nominally normalized; the sum is clamped by the mapper.
type Knob struct {
	Value float64
	CV    float64
}

// Raw returns Value + weight·CV, with non-finite readings treated as 0.
func (k Knob) Raw(weight float64) float64 {
	return core.Finite(k.Value, 0) + weight*core.Finite(k.CV, 0)
}

// Inputs is the control surface sampled once per block. The boolean fields
// are edges: true only in the block where the event happened.
type Inputs struct {
	Time     Knob
	Feedback Knob
	Tone     Knob
	Flutter  Knob
	Mix      Knob

	Tap            bool
	Gate           bool
	FreezePressed  bool
	ReversePressed bool
}

// Ticked reports whether a manual tap or an external clock edge arrived.
func (in Inputs) Ticked() bool {
	return in.Tap || in.Gate
}

// Snapshot holds the control targets for one block.
type Snapshot struct {
	DelayTimeSamples    float64
	DelayTimeMs         float64
	FeedbackGain        float64
	ToneCutoffHz        float64
	FlutterDepthSamples float64
	DryWetMix           float64
	Mode                Mode
}
