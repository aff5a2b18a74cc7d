package thd

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-tapedelay/dsp/window"
)

const (
	defaultRangeLowerHz = 20.0
	defaultRangeUpperHz = 20000.0
)

// Config holds THD calculation parameters.
type Config struct {
	SampleRate float64
	// FFTSize of 0 picks the next power of two that holds the signal.
	FFTSize int
	// FundamentalFreq of 0 takes the strongest bin in range.
	FundamentalFreq float64
	RangeLowerFreq  float64
	RangeUpperFreq  float64
	// CaptureBins is the half width summed around each harmonic; 0 uses
	// the main lobe of the window.
	CaptureBins  int
	MaxHarmonics int
	// WindowType of TypeRectangular falls back to Hann.
	WindowType window.Type
}

// Result holds THD measurement results. All ratios are relative to the
// fundamental level.
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	THD              float64
	THDN             float64
	OddHD            float64
	EvenHD           float64
	Noise            float64
	// Harmonics[k-2] is the level of harmonic k, for every harmonic that
	// fits below the upper range limit.
	Harmonics []float64
	SINAD     float64
}

// Calculator performs THD analysis on frequency-domain data.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a new THD calculator.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: normalizeConfig(cfg)}
}

// AnalyzeSignal performs one-shot THD analysis from a time-domain signal.
// It applies the configured window, performs an FFT, and evaluates THD metrics.
func AnalyzeSignal(signal []float64, cfg Config) Result {
	return NewCalculator(cfg).AnalyzeSignal(signal)
}

// AnalyzeSignal computes THD metrics from a real-valued time-domain signal.
func (c *Calculator) AnalyzeSignal(signal []float64) Result {
	if len(signal) == 0 {
		return Result{}
	}

	cfg := c.cfg

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(signal))
	}

	if fftSize <= 1 {
		return Result{}
	}

	frame := append([]float64(nil), signal[:min(len(signal), fftSize)]...)
	window.Apply(cfg.WindowType, frame, window.WithPeriodic())

	inData := make([]complex128, fftSize)
	for i, x := range frame {
		inData[i] = complex(x, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}
	}

	out := make([]complex128, fftSize)

	err = plan.Forward(out, inData)
	if err != nil {
		return Result{}
	}

	magSquared := make([]float64, fftSize/2+1)
	for i := range magSquared {
		x := out[i]
		magSquared[i] = real(x)*real(x) + imag(x)*imag(x)
	}

	cfg.FFTSize = fftSize
	calc := Calculator{cfg: cfg}

	return calc.CalculateFromMagnitude(magSquared)
}

// CalculateFromMagnitude computes THD metrics from a squared-magnitude spectrum.
// magSquared is expected to contain non-negative-frequency bins [0..Nyquist].
func (c *Calculator) CalculateFromMagnitude(magSquared []float64) Result {
	if len(magSquared) <= 1 {
		return Result{}
	}

	cfg := c.cfg
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = 2 * (len(magSquared) - 1)
	}

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(cfg.FFTSize)
	}

	maxBin := len(magSquared) - 1
	binHz := cfg.SampleRate / float64(cfg.FFTSize)

	lowerBin := clampInt(int(math.Round(cfg.RangeLowerFreq/binHz)), 1, maxBin)
	upperBin := clampInt(int(math.Round(cfg.RangeUpperFreq/binHz)), lowerBin, maxBin)

	fundamentalBin, fundamentalFreq := c.findFundamental(magSquared, lowerBin, upperBin, binHz)

	captureBins := cfg.CaptureBins
	if captureBins <= 0 {
		captureBins = window.Info(cfg.WindowType).FirstMinimumBins
	}

	if captureBins*2 > fundamentalBin {
		captureBins = fundamentalBin / 2
	}

	fundamentalLevel := getBinValue(magSquared, fundamentalBin, captureBins)
	if fundamentalLevel <= 0 {
		return Result{FundamentalFreq: fundamentalFreq}
	}

	thdAbs := 0.0
	oddAbs := 0.0
	evenAbs := 0.0
	harmonics := make([]float64, 0, 8)

	for k := 2; cfg.MaxHarmonics == 0 || k <= cfg.MaxHarmonics+1; k++ {
		// Harmonic k sits at k*f0, not at k times the rounded bin.
		bin := int(math.Round(float64(k) * fundamentalFreq / binHz))
		if bin > upperBin {
			break
		}

		value := getBinValue(magSquared, bin, captureBins)

		thdAbs += value
		if k%2 == 0 {
			evenAbs += value
		} else {
			oddAbs += value
		}

		harmonics = append(harmonics, value/fundamentalLevel)
	}

	totalAbs := 0.0
	for i := lowerBin; i <= upperBin; i++ {
		totalAbs += sqrtPositive(magSquared[i])
	}

	thdnAbs := max(totalAbs-fundamentalLevel, 0)
	noiseAbs := max(thdnAbs-thdAbs, 0)
	thdn := thdnAbs / fundamentalLevel

	sinad := math.Inf(1)
	if thdn > 0 {
		sinad = 20 * math.Log10(1/thdn)
	}

	return Result{
		FundamentalFreq:  fundamentalFreq,
		FundamentalLevel: fundamentalLevel,
		THD:              thdAbs / fundamentalLevel,
		THDN:             thdn,
		OddHD:            oddAbs / fundamentalLevel,
		EvenHD:           evenAbs / fundamentalLevel,
		Noise:            noiseAbs / fundamentalLevel,
		Harmonics:        harmonics,
		SINAD:            sinad,
	}
}

func (c *Calculator) findFundamental(magSquared []float64, lowerBin, upperBin int, binHz float64) (int, float64) {
	if c.cfg.FundamentalFreq > 0 {
		bin := clampInt(int(math.Round(c.cfg.FundamentalFreq/binHz)), lowerBin, upperBin)
		return bin, c.cfg.FundamentalFreq
	}

	bestBin := lowerBin
	bestVal := -1.0

	for i := lowerBin; i <= upperBin; i++ {
		v := magSquared[i]
		if v > bestVal {
			bestVal = v
			bestBin = i
		}
	}

	return bestBin, float64(bestBin) * binHz
}

func normalizeConfig(cfg Config) Config {
	if cfg.RangeLowerFreq <= 0 {
		cfg.RangeLowerFreq = defaultRangeLowerHz
	}

	if cfg.RangeUpperFreq <= 0 {
		cfg.RangeUpperFreq = defaultRangeUpperHz
	}

	if cfg.RangeUpperFreq < cfg.RangeLowerFreq {
		cfg.RangeUpperFreq = cfg.RangeLowerFreq
	}

	if cfg.WindowType == window.TypeRectangular {
		cfg.WindowType = window.TypeHann
	}

	if cfg.CaptureBins < 0 {
		cfg.CaptureBins = 0
	}

	if cfg.MaxHarmonics < 0 {
		cfg.MaxHarmonics = 0
	}

	return cfg
}

func getBinValue(magSquared []float64, bin, captureBins int) float64 {
	if bin < 0 || bin >= len(magSquared) {
		return 0
	}

	lo := max(bin-captureBins, 0)
	hi := min(bin+captureBins, len(magSquared)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += sqrtPositive(magSquared[i])
	}

	return sum
}

func sqrtPositive(v float64) float64 {
	if v <= 0 {
		return 0
	}

	return math.Sqrt(v)
}

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}

	if val > hi {
		return hi
	}

	return val
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
