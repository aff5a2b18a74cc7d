package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-tapedelay/dsp/control"
	"github.com/cwbudde/algo-tapedelay/dsp/tape"
	"github.com/cwbudde/algo-tapedelay/internal/testutil"
)

func TestParseTaps(t *testing.T) {
	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{"", nil, false},
		{"0.5", []float64{0.5}, false},
		{" 0.5, 1.1 ,2", []float64{0.5, 1.1, 2}, false},
		{"abc", nil, true},
		{"-1", nil, true},
	}

	for _, tt := range tests {
		got, err := parseTaps(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseTaps(%q) err=%v wantErr=%v", tt.in, err, tt.wantErr)
		}

		if len(got) != len(tt.want) {
			t.Fatalf("parseTaps(%q) = %v, want %v", tt.in, got, tt.want)
		}

		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("parseTaps(%q)[%d] = %f, want %f", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func testSettings() settings {
	s := settings{rate: 48000, block: 48}
	s.knobs = [knobCount]float64{0.5, 0.4, 0.6, 0, 0.5}

	return s
}

func TestRenderTapsLockClock(t *testing.T) {
	engine, err := tape.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s := testSettings()
	s.taps = []float64{0.5, 1.1}

	n := 72000
	input := [2][]float64{testutil.Impulse(n, 0), testutil.Impulse(n, 0)}

	out, err := render(engine, input, s)
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}

	testutil.RequireFinite(t, out[0])
	testutil.RequireFinite(t, out[1])

	if !engine.Clock().Locked {
		t.Fatal("clock not locked after two taps")
	}

	if got := engine.Snapshot().DelayTimeMs; math.Abs(got-600) > 1 {
		t.Fatalf("delay = %.2f ms, want 600", got)
	}
}

func TestRenderEngagesMode(t *testing.T) {
	engine, err := tape.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s := testSettings()
	s.mode = control.ModeFreeze
	s.modeAt = 0.1

	n := 9600
	input := [2][]float64{make([]float64, n), make([]float64, n)}

	_, err = render(engine, input, s)
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}

	if engine.Mode() != control.ModeFreeze {
		t.Fatalf("mode = %s, want freeze", engine.Mode())
	}
}

func TestWavRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echo.wav")
	data := [2][]float64{
		{0, 0.5, -0.5, 0.25, 2},
		{0.1, -0.1, 0.9, -1, math.NaN()},
	}

	err := writeWav(path, 44100, data)
	if err != nil {
		t.Fatalf("writeWav() error = %v", err)
	}

	got, rate, err := readWav(path)
	if err != nil {
		t.Fatalf("readWav() error = %v", err)
	}

	if rate != 44100 {
		t.Fatalf("rate = %d, want 44100", rate)
	}

	want := [2][]float64{
		{0, 0.5, -0.5, 0.25, 1},
		{0.1, -0.1, 0.9, -1, 0},
	}

	for ch := range want {
		testutil.RequireSliceNearlyEqual(t, got[ch], want[ch], 1e-4)
	}
}

func TestReadWav8BitIsCentred(t *testing.T) {
	path := filepath.Join(t.TempDir(), "u8.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	enc := wav.NewEncoder(f, 8000, 8, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           []int{128, 128, 192, 64, 0, 255},
		SourceBitDepth: 8,
	}

	if err := enc.Write(buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("file Close() error = %v", err)
	}

	got, rate, err := readWav(path)
	if err != nil {
		t.Fatalf("readWav() error = %v", err)
	}

	if rate != 8000 {
		t.Fatalf("rate = %d, want 8000", rate)
	}

	want := []float64{0, 0, 0.5, -0.5, -1, 127.0 / 128}
	for ch := range got {
		testutil.RequireSliceNearlyEqual(t, got[ch], want, 1e-12)
	}
}

func TestKeysConsumeEdges(t *testing.T) {
	k := newKeys([knobCount]float64{0.5, 0.5, 0.5, 0.5, 0.5})

	k.handle(' ')
	k.handle('f')
	k.handle('2')
	k.handle('+')

	in := k.inputs()
	if !in.Tap || !in.FreezePressed || in.ReversePressed {
		t.Fatalf("edges = %+v", in)
	}

	if math.Abs(in.Feedback.Value-0.52) > 1e-12 {
		t.Fatalf("feedback knob = %f, want 0.52", in.Feedback.Value)
	}

	in = k.inputs()
	if in.Tap || in.FreezePressed {
		t.Fatal("edges were not consumed")
	}

	k.handle('q')
	if !k.quit.Load() {
		t.Fatal("q did not request quit")
	}
}

func TestKeysClampKnob(t *testing.T) {
	k := newKeys([knobCount]float64{0.99, 0, 0, 0, 0})

	k.handle('+')
	k.handle('+')

	if got := k.knob(knobTime); got != 1 {
		t.Fatalf("time knob = %f, want 1", got)
	}
}

func TestLiveSourceRead(t *testing.T) {
	engine, err := tape.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	input := [2][]float64{testutil.Impulse(100, 0), testutil.Impulse(100, 0)}
	src := newLiveSource(engine, input, newKeys([knobCount]float64{0.5, 0, 0.5, 0, 0}))

	p := make([]byte, 130*bytesPerFrame+3)

	n, err := src.Read(p)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if n != 130*bytesPerFrame {
		t.Fatalf("Read() = %d bytes, want %d", n, 130*bytesPerFrame)
	}

	if src.pos != 30 {
		t.Fatalf("input position = %d, want 30 after wrap", src.pos)
	}
}

func TestLiveSourceStatusShowsCapture(t *testing.T) {
	engine, err := tape.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	input := [2][]float64{testutil.Impulse(100, 0), testutil.Impulse(100, 0)}
	k := newKeys([knobCount]float64{0.5, 0.5, 0.5, 0, 0.5})
	src := newLiveSource(engine, input, k)
	p := make([]byte, 48*bytesPerFrame)

	k.handle('r')

	if _, err := src.Read(p); err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	st := src.status()
	if st.mode != control.ModeReverse || !st.capturing {
		t.Fatalf("status after reverse = %+v", st)
	}

	if line := st.line("time", 0.5); !strings.Contains(line, "reverse rec") {
		t.Fatalf("status line lacks capture marker: %q", line)
	}

	k.handle('r')

	if _, err := src.Read(p); err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	st = src.status()
	if st.capturing || strings.Contains(st.line("time", 0.5), "rec") {
		t.Fatalf("forward status still shows capture: %+v", st)
	}
}

func TestLoadInputSources(t *testing.T) {
	for _, src := range []string{"bursts", "noise", "sine"} {
		s := testSettings()
		s.seconds = 0.5
		s.source = src

		in, err := loadInput(&s)
		if err != nil {
			t.Fatalf("loadInput(%s) error = %v", src, err)
		}

		if len(in[0]) != 24000 || len(in[1]) != 24000 {
			t.Fatalf("loadInput(%s) lengths %d/%d", src, len(in[0]), len(in[1]))
		}

		if testutil.PeakAbs(in[0]) == 0 {
			t.Fatalf("loadInput(%s) is silent", src)
		}
	}

	s := testSettings()
	s.seconds = 1
	s.source = "square"

	if _, err := loadInput(&s); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestLoadInputWavNormalizedWithTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dry.wav")

	err := writeWav(path, 32000, [2][]float64{{0.25, -0.1}, {0.05, 0}})
	if err != nil {
		t.Fatalf("writeWav() error = %v", err)
	}

	s := testSettings()
	s.in = path
	s.tail = 0.001
	s.normalize = 0.5

	in, err := loadInput(&s)
	if err != nil {
		t.Fatalf("loadInput() error = %v", err)
	}

	if s.rate != 32000 {
		t.Fatalf("rate = %f, want the file rate", s.rate)
	}

	if len(in[0]) != 2+32 {
		t.Fatalf("length = %d, want 34", len(in[0]))
	}

	if math.Abs(in[0][0]-0.5) > 1e-9 || math.Abs(in[1][0]-0.5) > 1e-9 {
		t.Fatalf("peaks = %f %f, want 0.5", in[0][0], in[1][0])
	}
}
