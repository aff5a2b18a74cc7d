package main

import (
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-tapedelay/dsp/control"
	"github.com/cwbudde/algo-tapedelay/dsp/tape"
)

const (
	knobTime = iota
	knobFeedback
	knobTone
	knobFlutter
	knobMix
	knobCount
)

var knobNames = [knobCount]string{"time", "feedback", "tone", "flutter", "mix"}

func panel(knobs [knobCount]float64) control.Inputs {
	return control.Inputs{
		Time:     control.Knob{Value: knobs[knobTime]},
		Feedback: control.Knob{Value: knobs[knobFeedback]},
		Tone:     control.Knob{Value: knobs[knobTone]},
		Flutter:  control.Knob{Value: knobs[knobFlutter]},
		Mix:      control.Knob{Value: knobs[knobMix]},
	}
}

// pressMode sets the edge that moves the engine from forward into mode.
func pressMode(in *control.Inputs, mode control.Mode) {
	switch mode {
	case control.ModeFreeze:
		in.FreezePressed = true
	case control.ModeReverse:
		in.ReversePressed = true
	}
}

// render runs the whole input through the engine one block at a time. Tap
// and mode events fire in the block that contains their sample position.
func render(engine *tape.Engine, input [2][]float64, s settings) ([2][]float64, error) {
	n := len(input[0])
	out := [2][]float64{make([]float64, n), make([]float64, n)}
	block := engine.Config().BlockSize
	rate := engine.Config().SampleRate

	taps := make([]int, len(s.taps))
	for i, t := range s.taps {
		taps[i] = int(math.Round(t * rate))
	}

	modeAt := -1
	if s.mode != control.ModeForward {
		modeAt = int(math.Round(s.modeAt * rate))
	}

	for start := 0; start < n; start += block {
		end := min(start+block, n)
		ctrl := panel(s.knobs)

		for _, t := range taps {
			if t >= start && t < end {
				ctrl.Tap = true
			}
		}

		if modeAt >= start && modeAt < end {
			pressMode(&ctrl, s.mode)
		}

		err := engine.Process(ctrl,
			[2][]float64{input[0][start:end], input[1][start:end]},
			[2][]float64{out[0][start:end], out[1][start:end]})
		if err != nil {
			return out, err
		}
	}

	return out, nil
}

func renderToFile(engine *tape.Engine, input [2][]float64, s settings) error {
	out, err := render(engine, input, s)
	if err != nil {
		return err
	}

	err = writeWav(s.out, int(engine.Config().SampleRate), out)
	if err != nil {
		return err
	}

	snap := engine.Snapshot()
	fmt.Fprintf(os.Stderr, "wrote %s: %d frames, mode %s, delay %.1f ms\n",
		s.out, len(out[0]), engine.Mode(), snap.DelayTimeMs)

	return nil
}
