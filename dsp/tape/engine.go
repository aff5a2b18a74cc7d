package tape

import (
	"math"
	"time"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tapedelay/dsp/buffer"
	"github.com/cwbudde/algo-tapedelay/dsp/control"
	"github.com/cwbudde/algo-tapedelay/dsp/core"
	"github.com/cwbudde/algo-tapedelay/dsp/effects/modulation"
	"github.com/cwbudde/algo-tapedelay/measure/level"
)

// Engine is the stereo tape echo. It owns two heads and their feedback
// routers, the shared flutter, and the control-rate state. Process must be
// called from a single goroutine.
type Engine struct {
	cfg Config

	heads   [2]*Head
	routers [2]*Router
	meters  [2]*level.Meter
	wet     [2]*buffer.Buffer

	flutter *modulation.Flutter
	mapper  *control.Mapper
	clock   *control.Clock
	tempo   *control.Tempo
	modes   control.ModeSwitch

	snapshot control.Snapshot
	feedback [2]float64
	elapsed  int64

	minDelay float64
	maxDelay float64
}

// New creates an engine with practical defaults and optional overrides.
func New(opts ...Option) (*Engine, error) {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	err := cfg.validate()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		minDelay: cfg.MinDelaySamples,
		maxDelay: cfg.maxDelaySamples(),
	}

	for ch := range e.heads {
		e.heads[ch], err = NewHead(cfg)
		if err != nil {
			return nil, err
		}

		e.routers[ch], err = NewRouter(cfg)
		if err != nil {
			return nil, err
		}

		e.meters[ch], err = level.NewMeter(cfg.MeterDecay)
		if err != nil {
			return nil, err
		}

		e.wet[ch] = buffer.New(cfg.BlockSize)
	}

	e.flutter, err = modulation.NewFlutter(cfg.SampleRate, cfg.FlutterOptions...)
	if err != nil {
		return nil, err
	}

	e.mapper, err = control.NewMapper(cfg.SampleRate, cfg.MapperOptions...)
	if err != nil {
		return nil, err
	}

	e.clock, err = control.NewClock(cfg.ClockOptions...)
	if err != nil {
		return nil, err
	}

	e.tempo, err = control.NewTempo(cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	e.snapshot = e.mapper.Map(control.Inputs{}, control.ModeForward)

	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Snapshot returns the control targets of the most recent block.
func (e *Engine) Snapshot() control.Snapshot { return e.snapshot }

// Mode returns the active feedback mode.
func (e *Engine) Mode() control.Mode { return e.modes.Mode() }

// Tempo returns the tempo phase accumulator for LED and gate-out drivers.
func (e *Engine) Tempo() *control.Tempo { return e.tempo }

// Clock returns the tap-tempo state.
func (e *Engine) Clock() control.ClockState { return e.clock.State() }

// Levels returns the wet output meters, left then right.
func (e *Engine) Levels() [2]level.Reading {
	return [2]level.Reading{e.meters[0].Reading(), e.meters[1].Reading()}
}

// Now returns the engine's sample clock as a duration.
func (e *Engine) Now() time.Duration {
	return time.Duration(math.Round(float64(e.elapsed) * float64(time.Second) / e.cfg.SampleRate))
}

// Capturing reports whether Reverse is still refilling its capture after
// being engaged, so its feedback is silent.
func (e *Engine) Capturing() bool {
	return e.Mode() == control.ModeReverse && (e.routers[0].Capturing() || e.routers[1].Capturing())
}

// CurrentDelay returns the smoothed read delay of channel ch in samples.
func (e *Engine) CurrentDelay(ch int) float64 {
	return e.heads[ch].CurrentDelay()
}

// Process renders one block. ctrl is sampled once and applies to the whole
// block; its edges take effect even when the block is empty. in and out may
// be the same slices.
func (e *Engine) Process(ctrl control.Inputs, in, out [2][]float64) error {
	n := len(in[0])
	if len(in[1]) != n || len(out[0]) != n || len(out[1]) != n {
		return ErrBlockLength
	}

	e.updateControls(ctrl)

	if n == 0 {
		return nil
	}

	for off := 0; off < n; off += e.cfg.BlockSize {
		end := min(off+e.cfg.BlockSize, n)
		e.processChunk(
			[2][]float64{in[0][off:end], in[1][off:end]},
			[2][]float64{out[0][off:end], out[1][off:end]},
		)
	}

	e.tempo.Advance(e.snapshot.DelayTimeMs, n)
	e.elapsed += int64(n)

	return nil
}

// Reset clears all audio state and returns to Forward. The clock is
// forgotten and the sample clock restarts.
func (e *Engine) Reset() {
	for ch := range e.heads {
		e.heads[ch].Reset()
		e.routers[ch].Rearm()
		e.meters[ch].Reset()
		e.wet[ch].Zero()
	}

	e.flutter.Reset()
	e.clock.Reset()
	e.tempo.Reset()
	e.modes.Reset()

	e.feedback = [2]float64{}
	e.elapsed = 0
	e.snapshot = e.mapper.Map(control.Inputs{}, control.ModeForward)
}

func (e *Engine) updateControls(ctrl control.Inputs) {
	now := e.Now()

	if e.modes.Apply(ctrl) {
		for _, r := range e.routers {
			r.Rearm()
		}
	}

	if ctrl.Ticked() && e.clock.Tick(now) {
		e.tempo.Restart()
	}

	e.clock.Update(now, core.Finite(ctrl.Time.Value, 0))

	s := e.mapper.Map(ctrl, e.modes.Mode())
	e.clock.Apply(&s, e.cfg.SampleRate)
	e.snapshot = s
}

func (e *Engine) processChunk(in, out [2][]float64) {
	s := e.snapshot
	n := len(in[0])
	wetL := e.wet[0].Slice(n)
	wetR := e.wet[1].Slice(n)
	frozen := s.Mode == control.ModeFreeze
	cross := e.cfg.CrossFeed

	for i := range n {
		wobble := e.flutter.Next(s.FlutterDepthSamples)
		dL := core.Clamp(s.DelayTimeSamples+wobble, e.minDelay, e.maxDelay)
		dR := core.Clamp(s.DelayTimeSamples+wobble+e.cfg.StereoOffset, e.minDelay, e.maxDelay)

		xL, xR := in[0][i], in[1][i]
		if frozen {
			xL, xR = 0, 0
		}

		yL := e.heads[0].Process(xL, e.feedback[0], dL, s.ToneCutoffHz)
		yR := e.heads[1].Process(xR, e.feedback[1], dR, s.ToneCutoffHz)

		fbL := e.routers[0].Route(yL, s.FeedbackGain, s.Mode)
		fbR := e.routers[1].Route(yR, s.FeedbackGain, s.Mode)

		if cross > 0 {
			fbL, fbR = (1-cross)*fbL+cross*fbR, (1-cross)*fbR+cross*fbL
		}

		e.feedback[0] = core.FlushDenormals(fbL)
		e.feedback[1] = core.FlushDenormals(fbR)

		wetL[i] = yL
		wetR[i] = yR
	}

	e.meters[0].Process(wetL)
	e.meters[1].Process(wetR)

	mix := s.DryWetMix
	vecmath.ScaleBlock(out[0], in[0], 1-mix)
	vecmath.ScaleBlock(out[1], in[1], 1-mix)
	vecmath.ScaleBlock(wetL, wetL, mix)
	vecmath.ScaleBlock(wetR, wetR, mix)
	vecmath.AddBlockInPlace(out[0], wetL)
	vecmath.AddBlockInPlace(out[1], wetR)
}
