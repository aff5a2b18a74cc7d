package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		lo, hi float64
		want   float64
	}{
		{name: "inside", value: 0.5, lo: 0, hi: 1, want: 0.5},
		{name: "below", value: -1, lo: 0, hi: 1, want: 0},
		{name: "above", value: 2, lo: 0, hi: 1, want: 1},
		{name: "swapped", value: 2, lo: 1, hi: 0, want: 1},
		{name: "feedback ceiling", value: 1.32, lo: 0, hi: 1.2, want: 1.2},
		{name: "knob plus cv", value: 1.7, lo: 0, hi: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.value, tt.lo, tt.hi); got != tt.want {
				t.Fatalf("Clamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFinite(t *testing.T) {
	tests := []struct {
		value, fallback, want float64
	}{
		{math.NaN(), 0.25, 0.25},
		{math.Inf(1), 0, 0},
		{math.Inf(-1), 1, 1},
		{0.7, 0, 0.7},
	}

	for _, tt := range tests {
		if got := Finite(tt.value, tt.fallback); got != tt.want {
			t.Fatalf("Finite(%v, %v) = %v, want %v", tt.value, tt.fallback, got, tt.want)
		}
	}
}

func TestFlushDenormals(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1e-35, 0},
		{-1e-31, 0},
		{1e-29, 1e-29},
		{-1e-3, -1e-3},
	}

	for _, tt := range tests {
		if got := FlushDenormals(tt.in); got != tt.want {
			t.Fatalf("FlushDenormals(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMsSampleConversions(t *testing.T) {
	if got := MsToSamples(600, 48000); got != 28800 {
		t.Fatalf("MsToSamples(600) = %v, want 28800", got)
	}

	if got := SamplesToMs(28800, 48000); got != 600 {
		t.Fatalf("SamplesToMs(28800) = %v, want 600", got)
	}

	if got := SamplesToMs(10, 0); got != 0 {
		t.Fatalf("SamplesToMs with zero rate = %v, want 0", got)
	}
}

func TestLinearToDB(t *testing.T) {
	if got := LinearToDB(0.5); math.Abs(got+6.0206) > 1e-4 {
		t.Fatalf("LinearToDB(0.5) = %v, want -6.02", got)
	}

	if got := LinearToDB(-1); got != 0 {
		t.Fatalf("LinearToDB(-1) = %v, want 0", got)
	}

	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for silence")
	}
}
