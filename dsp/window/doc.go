// Package window generates the cosine-sum analysis windows used by the
// spectral measurements.
package window
