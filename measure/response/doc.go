// Package response measures frequency responses and harmonic content.
//
// [ImpulseResponse] drives any per-sample processor with a unit impulse and
// [Analyze] turns the result, or any other signal, into a one-sided
// magnitude [Spectrum], optionally through one of the analysis windows of
// package window.
package response
