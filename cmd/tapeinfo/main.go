// Command tapeinfo prints the static characteristics of the tape echo:
// how the panel knobs map to delay time, feedback and tone, how the tone
// chain shapes the spectrum, and how much the tape saturation distorts.
//
// Usage:
//
//	tapeinfo [flags] [table ...]
//
// Tables are "knobs", "tone" and "drive". Without arguments all three are
// printed.
//
// Examples:
//
//	tapeinfo
//	tapeinfo -steps 20 knobs
//	tapeinfo -sr 96000 tone
//	tapeinfo -level 0.8 drive
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-tapedelay/dsp/control"
	"github.com/cwbudde/algo-tapedelay/dsp/core"
	"github.com/cwbudde/algo-tapedelay/dsp/effects"
	"github.com/cwbudde/algo-tapedelay/dsp/filter/onepole"
	"github.com/cwbudde/algo-tapedelay/dsp/signal"
	"github.com/cwbudde/algo-tapedelay/dsp/window"
	"github.com/cwbudde/algo-tapedelay/measure/response"
	"github.com/cwbudde/algo-tapedelay/measure/thd"
)

type table struct {
	name  string
	about string
	print func(w io.Writer, o options) error
}

type options struct {
	sampleRate float64
	steps      int
	fftSize    int
	level      float64
}

var tables = []table{
	{"knobs", "knob position to delay time, feedback and tone cutoff", printKnobs},
	{"tone", "tone chain magnitude at several tone settings", printTone},
	{"drive", "tape saturation harmonics of a 1 kHz sine", printDrive},
}

func main() {
	var o options

	flag.Float64Var(&o.sampleRate, "sr", 48000, "sample rate in Hz")
	flag.IntVar(&o.steps, "steps", 10, "knob steps for the knobs table")
	flag.IntVar(&o.fftSize, "fft", 8192, "FFT size for spectral tables")
	flag.Float64Var(&o.level, "level", 0.5, "sine amplitude for the drive table")
	list := flag.Bool("list", false, "list available tables")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tapeinfo [flags] [table ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints control mapping, tone response and saturation tables.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints all tables.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tapeinfo knobs\n")
		fmt.Fprintf(os.Stderr, "  tapeinfo -sr 96000 tone\n")
		fmt.Fprintf(os.Stderr, "  tapeinfo -level 0.8 drive\n")
	}
	flag.Parse()

	if *list {
		for _, t := range tables {
			fmt.Printf("%-6s %s\n", t.name, t.about)
		}

		return
	}

	if o.steps < 1 {
		fmt.Fprintf(os.Stderr, "error: steps must be >= 1: %d\n", o.steps)
		os.Exit(1)
	}

	if o.fftSize < 256 {
		fmt.Fprintf(os.Stderr, "error: fft must be >= 256: %d\n", o.fftSize)
		os.Exit(1)
	}

	selected, err := selectTables(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	for i, t := range selected {
		if i > 0 {
			fmt.Println()
		}

		err := t.print(os.Stdout, o)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", t.name, err)
			os.Exit(1)
		}
	}
}

func selectTables(names []string) ([]table, error) {
	if len(names) == 0 {
		return tables, nil
	}

	var out []table

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		found := false

		for _, t := range tables {
			if t.name == name {
				out = append(out, t)
				found = true
			}
		}

		if !found {
			return nil, fmt.Errorf("unknown table %q (use -list to see available)", name)
		}
	}

	return out, nil
}

func printKnobs(w io.Writer, o options) error {
	m, err := control.NewMapper(o.sampleRate)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Knob\tTime [ms]\tTime [samples]\tFeedback\tTone [Hz]\n")
	fmt.Fprintf(tw, "----\t---------\t--------------\t--------\t---------\n")

	for i := 0; i <= o.steps; i++ {
		raw := float64(i) / float64(o.steps)
		ms := m.TimeMs(raw)

		fmt.Fprintf(tw, "%.2f\t%.1f\t%.0f\t%.3f\t%.0f\n",
			raw, ms, core.MsToSamples(ms, o.sampleRate), m.Feedback(raw), m.ToneHz(raw))
	}

	return tw.Flush()
}

var toneFreqs = []float64{50, 147, 500, 1000, 2000, 5000, 10000}

func printTone(w io.Writer, o options) error {
	m, err := control.NewMapper(o.sampleRate)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Tone\tCutoff [Hz]")

	for _, f := range toneFreqs {
		fmt.Fprintf(tw, "\t%.0f Hz [dB]", f)
	}

	fmt.Fprintf(tw, "\n----\t-----------")

	for range toneFreqs {
		fmt.Fprintf(tw, "\t----------")
	}

	fmt.Fprintln(tw)

	for _, knob := range []float64{0, 0.25, 0.5, 0.75, 1} {
		cutoff := m.ToneHz(knob)

		chain, err := onepole.NewToneChain(o.sampleRate)
		if err != nil {
			return err
		}

		ir := response.ImpulseResponse(response.SampleProcessorFunc(func(x float64) float64 {
			return chain.ProcessSample(x, cutoff)
		}), o.fftSize)

		spec, err := response.Analyze(ir, response.Config{SampleRate: o.sampleRate, FFTSize: o.fftSize})
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%.2f\t%.0f", knob, cutoff)

		for _, f := range toneFreqs {
			fmt.Fprintf(tw, "\t%.1f", spec.AtDB(f))
		}

		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

func printDrive(w io.Writer, o options) error {
	const f0 = 1000.0

	gen := signal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(o.sampleRate)})

	sine, err := gen.Sine(f0, o.level, o.fftSize)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Drive\tH2 [dB]\tH3 [dB]\tH5 [dB]\tTHD [%%]\tTHD+N [%%]\n")
	fmt.Fprintf(tw, "-----\t-------\t-------\t-------\t-------\t---------\n")

	for _, drive := range []float64{0.5, 1, effects.DefaultTapeDrive, 2, 4, 8} {
		sat, err := effects.NewSaturator(drive)
		if err != nil {
			return err
		}

		out := make([]float64, len(sine))
		copy(out, sine)
		sat.ProcessInPlace(out)

		res := thd.AnalyzeSignal(out, thd.Config{
			SampleRate:      o.sampleRate,
			FFTSize:         o.fftSize,
			FundamentalFreq: f0,
			MaxHarmonics:    8,
			WindowType:      window.TypeHann,
		})

		// Harmonics[k-2] is harmonic k.
		h := res.Harmonics
		if len(h) < 4 {
			return fmt.Errorf("sample rate too low for five harmonics of %.0f Hz: %f", f0, o.sampleRate)
		}

		fmt.Fprintf(tw, "%.2f\t%.1f\t%.1f\t%.1f\t%.3f\t%.3f\n",
			drive, ratioDB(h[0]), ratioDB(h[1]), ratioDB(h[3]), 100*res.THD, 100*res.THDN)
	}

	return tw.Flush()
}

func ratioDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}
