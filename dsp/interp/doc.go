// Package interp provides the fractional-read interpolation used by the tape
// delay line.
//
// The heads read at a gliding, flutter-modulated position, so reads always
// land between samples. [Hermite4] is the only kernel offered.
package interp
