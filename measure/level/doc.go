// Package level provides block level statistics and a streaming peak/RMS
// meter for the tape echo's outputs.
package level
