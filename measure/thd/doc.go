// Package thd measures harmonic distortion of a sine passed through a
// nonlinearity: total harmonic distortion, THD+N, odd and even shares and
// the level of each harmonic relative to the fundamental.
package thd
