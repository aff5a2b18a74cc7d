// Package onepole provides the 6 dB/oct filters that voice the tape echo.
//
// [OnePole] is a single-memory smoother whose coefficient comes from
// sin(2π·fc/fs). Its high-pass response is the inverted form lp − x rather
// than the textbook x − lp: the repeats come out polarity-flipped in the
// low band, which is part of how the echo sounds and must stay that way.
//
// [DCBlocker] removes the offset that saturation and feedback accumulate,
// and [ToneChain] cascades low-pass, inverted high-pass and DC blocker in the
// order the tape head uses them.
package onepole
