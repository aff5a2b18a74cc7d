package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"golang.org/x/term"

	"github.com/cwbudde/algo-tapedelay/dsp/control"
	"github.com/cwbudde/algo-tapedelay/dsp/core"
	"github.com/cwbudde/algo-tapedelay/dsp/tape"
)

const (
	knobStep      = 0.02
	bytesPerFrame = 8 // two float32 channels
	bufferBlocks  = 20
)

// keys collects keyboard edges from the reader goroutine. The audio
// callback swaps each flag back to false when it builds the next block.
type keys struct {
	tap     atomic.Bool
	freeze  atomic.Bool
	reverse atomic.Bool
	quit    atomic.Bool

	selected atomic.Int32
	knobs    [knobCount]atomic.Uint64
}

func newKeys(initial [knobCount]float64) *keys {
	k := &keys{}
	for i, v := range initial {
		k.knobs[i].Store(math.Float64bits(v))
	}

	return k
}

func (k *keys) knob(i int) float64 {
	return math.Float64frombits(k.knobs[i].Load())
}

func (k *keys) adjust(delta float64) {
	i := int(k.selected.Load())
	v := core.Clamp(k.knob(i)+delta, 0, 1)
	k.knobs[i].Store(math.Float64bits(v))
}

func (k *keys) handle(b byte) {
	switch b {
	case ' ':
		k.tap.Store(true)
	case 'f', 'F':
		k.freeze.Store(true)
	case 'r', 'R':
		k.reverse.Store(true)
	case '1', '2', '3', '4', '5':
		k.selected.Store(int32(b - '1'))
	case '+', '=':
		k.adjust(knobStep)
	case '-', '_':
		k.adjust(-knobStep)
	case 'q', 'Q', 3: // Ctrl-C arrives as a byte in raw mode
		k.quit.Store(true)
	}
}

// inputs builds the control block and consumes pending edges.
func (k *keys) inputs() control.Inputs {
	var knobs [knobCount]float64
	for i := range knobs {
		knobs[i] = k.knob(i)
	}

	ctrl := panel(knobs)
	ctrl.Tap = k.tap.Swap(false)
	ctrl.FreezePressed = k.freeze.Swap(false)
	ctrl.ReversePressed = k.reverse.Swap(false)

	return ctrl
}

// liveSource is the oto pull callback. It loops the dry input and runs the
// engine one control block per iteration.
type liveSource struct {
	mu     sync.Mutex
	engine *tape.Engine
	keys   *keys
	input  [2][]float64
	pos    int

	in  [2][]float64
	out [2][]float64
}

func newLiveSource(engine *tape.Engine, input [2][]float64, k *keys) *liveSource {
	block := engine.Config().BlockSize

	return &liveSource{
		engine: engine,
		keys:   k,
		input:  input,
		in:     [2][]float64{make([]float64, block), make([]float64, block)},
		out:    [2][]float64{make([]float64, block), make([]float64, block)},
	}
}

// Read implements io.Reader with interleaved float32 little-endian frames.
func (s *liveSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frames := len(p) / bytesPerFrame
	block := len(s.in[0])
	written := 0

	for written < frames {
		n := min(block, frames-written)

		for i := range n {
			s.in[0][i] = s.input[0][s.pos]
			s.in[1][i] = s.input[1][s.pos]

			s.pos++
			if s.pos == len(s.input[0]) {
				s.pos = 0
			}
		}

		in := [2][]float64{s.in[0][:n], s.in[1][:n]}
		out := [2][]float64{s.out[0][:n], s.out[1][:n]}

		err := s.engine.Process(s.keys.inputs(), in, out)
		if err != nil {
			return written * bytesPerFrame, err
		}

		for i := range n {
			off := (written + i) * bytesPerFrame
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(float32(out[0][i])))
			binary.LittleEndian.PutUint32(p[off+4:], math.Float32bits(float32(out[1][i])))
		}

		written += n
	}

	return written * bytesPerFrame, nil
}

type status struct {
	mode      control.Mode
	capturing bool
	delayMs   float64
	tapeMs    float64
	fb        float64
	led       bool
	locked    bool
	peakDB    float64
}

func (s *liveSource) status() status {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.engine.Snapshot()
	levels := s.engine.Levels()

	return status{
		mode:      s.engine.Mode(),
		capturing: s.engine.Capturing(),
		delayMs:   snap.DelayTimeMs,
		tapeMs:    core.SamplesToMs(s.engine.CurrentDelay(0), s.engine.Config().SampleRate),
		fb:        snap.FeedbackGain,
		led:       s.engine.Tempo().LED(s.engine.Mode()),
		locked:    s.engine.Clock().Locked,
		peakDB:    max(levels[0].PeakDB(), levels[1].PeakDB()),
	}
}

// line formats the status for the one-line terminal display.
func (st status) line(knob string, value float64) string {
	led := ' '
	if st.led {
		led = '*'
	}

	mode := st.mode.String()
	if st.capturing {
		mode += " rec"
	}

	return fmt.Sprintf("[%c] %-11s %7.1f ms (tape %7.1f)  fb %.2f  lock %-5t  %s=%.2f  peak %6.1f dB   ",
		led, mode, st.delayMs, st.tapeMs, st.fb, st.locked, knob, value, st.peakDB)
}

// play streams the engine to the default output device until q is pressed.
func play(engine *tape.Engine, input [2][]float64, s settings) error {
	if len(input[0]) == 0 {
		return fmt.Errorf("play input must not be empty")
	}

	op := &oto.NewContextOptions{
		SampleRate:   int(engine.Config().SampleRate),
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferBlocks * engine.Config().BlockDuration(),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	<-ready

	k := newKeys(s.knobs)
	src := newLiveSource(engine, input, k)

	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	go func() {
		buf := make([]byte, 1)

		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				k.handle(buf[0])
			}

			if err != nil {
				k.quit.Store(true)
				return
			}
		}
	}()

	player := ctx.NewPlayer(src)
	player.Play()
	defer player.Close()

	fmt.Fprintf(os.Stdout, "space tap, f freeze, r reverse, 1-5 knob, +/- adjust, q quit\r\n")

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for !k.quit.Load() {
		<-ticker.C

		sel := int(k.selected.Load())
		fmt.Fprint(os.Stdout, "\r"+src.status().line(knobNames[sel], k.knob(sel)))
	}

	fmt.Fprintf(os.Stdout, "\r\n")

	return nil
}
