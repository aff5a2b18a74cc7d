// Command tapedelay runs the stereo tape echo on a WAV file, on generated
// noise bursts, or live on the default audio device.
//
// Usage:
//
//	tapedelay [flags]
//
// Without -in it feeds the echo with generated material, by default short
// noise bursts, one per second.
//
// Examples:
//
//	tapedelay -out echo.wav
//	tapedelay -in dry.wav -out wet.wav -time 0.3 -feedback 0.7
//	tapedelay -taps 0.5,1.1 -mode reverse -mode-at 3 -out rev.wav
//	tapedelay -play
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-tapedelay/dsp/control"
	"github.com/cwbudde/algo-tapedelay/dsp/core"
	"github.com/cwbudde/algo-tapedelay/dsp/signal"
	"github.com/cwbudde/algo-tapedelay/dsp/tape"
)

type settings struct {
	in        string
	out       string
	rate      float64
	block     int
	seconds   float64
	tail      float64
	source    string
	normalize float64
	knobs     [knobCount]float64
	taps      []float64
	mode      control.Mode
	modeAt    float64
	crossFeed float64
	drive     float64
	play      bool
}

func main() {
	var s settings

	flag.StringVar(&s.in, "in", "", "input WAV file (mono or stereo); noise bursts when empty")
	flag.StringVar(&s.out, "out", "tapedelay.wav", "output WAV file (16-bit stereo)")
	flag.Float64Var(&s.rate, "sr", 48000, "sample rate for generated input and playback")
	flag.IntVar(&s.block, "block", 48, "control block size in samples")
	flag.Float64Var(&s.seconds, "seconds", 6, "length of generated input in seconds")
	flag.Float64Var(&s.tail, "tail", 3, "silence appended to a WAV input in seconds")
	flag.StringVar(&s.source, "source", "bursts", "generated input without -in: bursts, noise or sine")
	flag.Float64Var(&s.normalize, "normalize", 0, "normalize a WAV input to this peak (0 keeps the level)")
	flag.Float64Var(&s.knobs[knobTime], "time", 0.5, "time knob [0,1]")
	flag.Float64Var(&s.knobs[knobFeedback], "feedback", 0.5, "feedback knob [0,1]")
	flag.Float64Var(&s.knobs[knobTone], "tone", 0.6, "tone knob [0,1]")
	flag.Float64Var(&s.knobs[knobFlutter], "flutter", 0.2, "flutter knob [0,1]")
	flag.Float64Var(&s.knobs[knobMix], "mix", 0.5, "dry/wet knob [0,1]")
	taps := flag.String("taps", "", "comma separated tap times in seconds")
	mode := flag.String("mode", "forward", "mode to engage: forward, reverse or freeze")
	flag.Float64Var(&s.modeAt, "mode-at", 2, "time in seconds at which -mode is engaged")
	flag.Float64Var(&s.crossFeed, "crossfeed", 0, "stereo cross feedback amount [0,1]")
	flag.Float64Var(&s.drive, "drive", 1.3, "tape saturation drive")
	flag.BoolVar(&s.play, "play", false, "play live on the default audio device with keyboard control")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tapedelay [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the stereo tape echo offline or live.\n")
		fmt.Fprintf(os.Stderr, "Without -in, the input is a train of noise bursts.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys in -play mode:\n")
		fmt.Fprintf(os.Stderr, "  space tap, f freeze, r reverse, 1-5 select knob, +/- adjust, q quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tapedelay -out echo.wav\n")
		fmt.Fprintf(os.Stderr, "  tapedelay -in dry.wav -out wet.wav -time 0.3 -feedback 0.7\n")
		fmt.Fprintf(os.Stderr, "  tapedelay -taps 0.5,1.1 -mode reverse -mode-at 3\n")
		fmt.Fprintf(os.Stderr, "  tapedelay -play\n")
	}
	flag.Parse()

	var err error

	s.taps, err = parseTaps(*taps)
	if err != nil {
		fail(err)
	}

	s.mode, err = control.ParseMode(strings.ToLower(strings.TrimSpace(*mode)))
	if err != nil {
		fail(err)
	}

	input, err := loadInput(&s)
	if err != nil {
		fail(err)
	}

	engine, err := tape.New(
		tape.WithSampleRate(s.rate),
		tape.WithBlockSize(s.block),
		tape.WithCrossFeed(s.crossFeed),
		tape.WithDrive(s.drive),
	)
	if err != nil {
		fail(err)
	}

	if s.play {
		err = play(engine, input, s)
	} else {
		err = renderToFile(engine, input, s)
	}

	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func parseTaps(list string) ([]float64, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}

	fields := strings.Split(list, ",")
	taps := make([]float64, 0, len(fields))

	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid tap time %q: %w", f, err)
		}

		if v < 0 || math.IsNaN(v) {
			return nil, fmt.Errorf("tap time must be >= 0: %f", v)
		}

		taps = append(taps, v)
	}

	return taps, nil
}

// loadInput returns the dry stereo signal. A WAV input overrides -sr with
// the file's own rate.
func loadInput(s *settings) ([2][]float64, error) {
	if s.in != "" {
		in, rate, err := readWav(s.in)
		if err != nil {
			return in, err
		}

		s.rate = float64(rate)
		tail := int(math.Max(0, s.tail) * s.rate)

		for ch := range in {
			if s.normalize > 0 && len(in[ch]) > 0 {
				in[ch], err = signal.Normalize(in[ch], s.normalize)
				if err != nil {
					return in, err
				}
			}

			in[ch] = append(in[ch], make([]float64, tail)...)
		}

		return in, nil
	}

	if s.seconds <= 0 {
		return [2][]float64{}, fmt.Errorf("seconds must be > 0: %f", s.seconds)
	}

	gen := signal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(s.rate)}, signal.WithSeed(1))
	n := int(s.seconds * s.rate)

	var (
		mono []float64
		err  error
	)

	switch strings.ToLower(s.source) {
	case "bursts":
		mono, err = gen.Bursts(1, 0.02, 0.5, n)
	case "noise":
		mono, err = gen.WhiteNoise(0.25, n)
	case "sine":
		mono, err = gen.Sine(440, 0.5, n)
	default:
		err = fmt.Errorf("unknown source %q", s.source)
	}

	if err != nil {
		return [2][]float64{}, err
	}

	return [2][]float64{mono, append([]float64(nil), mono...)}, nil
}
