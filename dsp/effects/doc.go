// Package effects provides the nonlinear stages of the tape echo.
//
// TanhLambert is the record-side saturation curve, a rational tanh
// approximation that is exact enough for audio and cheap enough to run per
// sample on both heads. SoftStatic is the playback-side soft limiter: it
// leaves the normal signal range untouched and bends anything hotter toward
// ±5, which keeps runaway feedback bounded. Saturator wraps the record curve
// with its drive gain.
//
// Subpackages:
//   - github.com/cwbudde/algo-tapedelay/dsp/effects/modulation
package effects
