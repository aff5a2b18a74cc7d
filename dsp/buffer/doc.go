// Package buffer provides the fixed-size sample stores used around the tape
// heads: Buffer for per-block scratch and Capture for the reverse playback
// loop.
package buffer
