// Package modulation provides the low-frequency modulators of the tape echo.
//
// Included processors:
//   - Oscillator: Phase-accumulator sine/triangle LFO.
//   - Flutter: Slow sine wow plus weighted fast triangle flutter, in samples.
package modulation
