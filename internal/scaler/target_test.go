package scaler

import (
	"errors"
	"math"
	"testing"
)

// Four outputs mirroring the trained models: two log-scaled moduli, one
// log1p fraction and one logit fraction.
func testTargetDescriptor() TargetDescriptor {
	return TargetDescriptor{
		LogIndices:   []int{0, 1},
		Log1pIndices: []int{2},
		LogitIndices: []int{3},
		Means:        []float64{-1.0, -2.0, 0.1, 0.0},
		Scales:       []float64{0.5, 0.8, 0.2, 1.2},
	}
}

func TestTargetRoundTrip(t *testing.T) {
	d := testTargetDescriptor()
	in := []float64{0.15, 0.02, 0.3, 0.45}

	scaled, err := d.Transform(in)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	back, err := d.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	for i := range in {
		if math.Abs(back[i]-in[i]) > 1e-9 {
			t.Errorf("Output %d: expected %g after round trip, got %g", i, in[i], back[i])
		}
	}
}

func TestTargetExcludedIndices(t *testing.T) {
	d := TargetDescriptor{
		ExcludeIndices: []int{1},
		Means:          []float64{2.0, 3.0},
		Scales:         []float64{1.0, 1.0},
	}
	out, err := d.Transform([]float64{5.0, 7.0, 9.0})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out[1] != 7.0 {
		t.Errorf("Expected excluded output untouched, got %g", out[1])
	}
	if out[0] != 3.0 || out[2] != 6.0 {
		t.Errorf("Expected scaled outputs (3, 6), got (%g, %g)", out[0], out[2])
	}
}

func TestInverseTransformClipsExp(t *testing.T) {
	d := TargetDescriptor{
		LogIndices:   []int{0},
		Log1pIndices: []int{1},
		Means:        []float64{0, 0},
		Scales:       []float64{1, 1},
	}
	out, err := d.InverseTransform([]float64{1e6, 1e6})
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	for i, v := range out {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			t.Errorf("Output %d: expected finite clipped value, got %g", i, v)
		}
	}
}

func TestInverseTransformLogitBounded(t *testing.T) {
	d := TargetDescriptor{
		LogitIndices: []int{0},
		Means:        []float64{0},
		Scales:       []float64{1},
	}
	for _, raw := range []float64{-1e9, 0, 1e9} {
		out, err := d.InverseTransform([]float64{raw})
		if err != nil {
			t.Fatalf("InverseTransform failed: %v", err)
		}
		if out[0] <= 0 || out[0] >= 1 {
			t.Errorf("raw=%g: expected output strictly inside (0,1), got %g", raw, out[0])
		}
	}
}

func TestTargetValidation(t *testing.T) {
	d := TargetDescriptor{Means: []float64{0}, Scales: []float64{1}}
	if _, err := d.Transform([]float64{1, 2}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("Expected ErrInvalidDescriptor for mismatched means, got %v", err)
	}

	d = TargetDescriptor{LogIndices: []int{9}, Means: []float64{0, 0}, Scales: []float64{1, 1}}
	if _, err := d.Transform([]float64{1, 2}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("Expected ErrInvalidDescriptor for out-of-range log index, got %v", err)
	}
}
