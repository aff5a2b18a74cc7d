package effects

import (
	"fmt"
	"math"
)

const (
	// DefaultTapeDrive is the input gain ahead of the tape saturation curve.
	DefaultTapeDrive = 1.3

	minTapeDrive = 0.01
	maxTapeDrive = 20.0

	softStaticKnee  = 1.0
	softStaticLimit = 5.0
)

// TanhLambert approximates tanh(x) with the 7th-order Lambert continued
// fraction
//
//	x(x⁶ + 378x⁴ + 17325x² + 135135) / (28x⁶ + 3150x⁴ + 62370x² + 135135)
//
// and clamps the result to [-1, 1]. The denominator has no real roots.
func TanhLambert(x float64) float64 {
	x2 := x * x
	num := (((x2+378)*x2+17325)*x2 + 135135) * x
	den := ((28*x2+3150)*x2+62370)*x2 + 135135

	y := num / den
	if y > 1 {
		return 1
	}
	if y < -1 {
		return -1
	}
	return y
}

// SoftStatic is a soft limiter: identity on [-1, 1] and a rational curve
// beyond that approaches ±5 without reaching it. The curve is continuous at
// the knee with unit slope.
func SoftStatic(x float64) float64 {
	switch {
	case x > softStaticKnee:
		return (1-4/(x+3))*4 + 1
	case x < -softStaticKnee:
		return (1+4/(x-3))*-4 - 1
	default:
		return x
	}
}

// SoftStaticLimit is the asymptote of SoftStatic.
func SoftStaticLimit() float64 { return softStaticLimit }

// Saturator applies drive gain followed by TanhLambert.
type Saturator struct {
	drive float64
}

// NewSaturator creates a saturator with the given drive.
func NewSaturator(drive float64) (*Saturator, error) {
	s := &Saturator{}
	if err := s.SetDrive(drive); err != nil {
		return nil, err
	}
	return s, nil
}

// SetDrive sets the pre-gain.
func (s *Saturator) SetDrive(drive float64) error {
	if drive < minTapeDrive || drive > maxTapeDrive || math.IsNaN(drive) {
		return fmt.Errorf("saturator drive must be in [%g, %g]: %f", minTapeDrive, maxTapeDrive, drive)
	}
	s.drive = drive
	return nil
}

// Drive returns the pre-gain.
func (s *Saturator) Drive() float64 { return s.drive }

// ProcessSample saturates one sample.
func (s *Saturator) ProcessSample(x float64) float64 {
	return TanhLambert(x * s.drive)
}

// ProcessInPlace saturates buf in place.
func (s *Saturator) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = TanhLambert(buf[i] * s.drive)
	}
}
