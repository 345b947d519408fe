package scaler

import (
	"errors"
	"math"
	"testing"
)

func testDescriptor() Descriptor {
	return Descriptor{
		BinaryIndices: []int{2},
		LogitIndices:  []int{1},
		ScaleIndices:  []int{0, 1},
		Epsilon:       1e-6,
		Means:         []float64{2.0, 0.5},
		Scales:        []float64{4.0, 1.5},
	}
}

func TestDescriptorTransform(t *testing.T) {
	d := testDescriptor()
	out, err := d.Transform([]float64{6.0, 0.75, 1.0})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if want := (6.0 - 2.0) / 4.0; math.Abs(out[0]-want) > 1e-12 {
		t.Errorf("Expected scaled feature %g, got %g", want, out[0])
	}
	// logit(0.75) then standard scaling.
	if want := (math.Log(3) - 0.5) / 1.5; math.Abs(out[1]-want) > 1e-12 {
		t.Errorf("Expected logit+scaled feature %g, got %g", want, out[1])
	}
	if out[2] != 1.0 {
		t.Errorf("Expected binary feature passed through, got %g", out[2])
	}
}

func TestDescriptorRoundTrip(t *testing.T) {
	d := testDescriptor()
	in := []float64{3.5, 0.42, 0.0}
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
			t.Errorf("Feature %d: expected %g after round trip, got %g", i, in[i], back[i])
		}
	}
}

func TestTransformClipsLogitBounds(t *testing.T) {
	d := Descriptor{LogitIndices: []int{0}, Epsilon: 1e-6}

	out, err := d.Transform([]float64{0})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if math.IsInf(out[0], 0) || math.IsNaN(out[0]) {
		t.Errorf("Expected finite logit for clipped 0, got %g", out[0])
	}

	out, err = d.Transform([]float64{1})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if math.IsInf(out[0], 0) || math.IsNaN(out[0]) {
		t.Errorf("Expected finite logit for clipped 1, got %g", out[0])
	}
}

func TestSigmoidOverflowGuard(t *testing.T) {
	d := Descriptor{LogitIndices: []int{0}, Epsilon: 1e-6}
	out, err := d.InverseTransform([]float64{1e9})
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	if out[0] <= 0 || out[0] >= 1 || math.IsNaN(out[0]) {
		t.Errorf("Expected sigmoid output strictly inside (0,1), got %g", out[0])
	}
}

func TestDescriptorValidate(t *testing.T) {
	d := Descriptor{ScaleIndices: []int{0, 1}, Means: []float64{1}, Scales: []float64{1, 2}}
	if err := d.Validate(); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("Expected ErrInvalidDescriptor for mismatched means, got %v", err)
	}

	d = Descriptor{ScaleIndices: []int{0}, Means: []float64{1}, Scales: []float64{0}}
	if err := d.Validate(); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("Expected ErrInvalidDescriptor for zero scale, got %v", err)
	}
}

func TestTransformRejectsOutOfRangeIndex(t *testing.T) {
	d := Descriptor{ScaleIndices: []int{5}, Means: []float64{0}, Scales: []float64{1}}
	if _, err := d.Transform([]float64{1, 2}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("Expected ErrInvalidDescriptor for out-of-range index, got %v", err)
	}
}
