// Package control turns the slowly varying control surface of the tape echo
// into per-block parameter snapshots.
//
// Once per audio block the engine feeds the current [Inputs] through
// [ModeSwitch], [Clock] and [Mapper] and freezes the result in a [Snapshot]
// that the sample loop only reads. [Tempo] derives the tempo phase, LED and
// gate-out signals from the snapshot's delay time.
//
// Time inside this package is the engine's sample clock expressed as a
// time.Duration, never the wall clock, so runs are reproducible.
package control
