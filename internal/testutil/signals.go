// Package testutil holds deterministic test signals and assertions shared by
// the tape echo packages.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns length samples of a sine starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude).
// The same seed always yields the same samples.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse returns a unit impulse at pos. An out-of-range pos yields silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// Stereo returns a silent two-channel block.
func Stereo(length int) [2][]float64 {
	return [2][]float64{make([]float64, length), make([]float64, length)}
}

// StereoNoise returns two uncorrelated noise channels seeded from seed and
// seed+1.
func StereoNoise(seed int64, amplitude float64, length int) [2][]float64 {
	return [2][]float64{
		DeterministicNoise(seed, amplitude, length),
		DeterministicNoise(seed+1, amplitude, length),
	}
}
