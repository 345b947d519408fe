// Package scaler implements the stateless feature/target scaling pipeline
// that prepares physical inputs for a trained regression model and maps its
// outputs back to physical values. Descriptors are serialized alongside each
// model's metadata; the transforms themselves hold no state.
package scaler

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDescriptor indicates a descriptor whose index lists and parameter
// vectors disagree, or an index outside the vector being transformed.
var ErrInvalidDescriptor = errors.New("invalid scaler descriptor")

// expClip bounds the argument of exp/expm1 to stay inside IEEE double range.
const expClip = 700

// sigmoidClip bounds the argument of the sigmoid so exp never overflows.
const sigmoidClip = 500

// Descriptor describes the input-side scaling of a trained model. The feature
// vector is partitioned into binary indices (passed through unchanged),
// logit-bounded indices (values in [0,1], logit-transformed before scaling)
// and the scale-index list: the features that receive standard subtract-mean/
// divide-scale normalization. Means and Scales correspond positionally to
// ScaleIndices, not to absolute feature indices.
type Descriptor struct {
	BinaryIndices []int     `json:"binary_indices"`
	LogitIndices  []int     `json:"logit_indices"`
	ScaleIndices  []int     `json:"scale_indices"`
	Epsilon       float64   `json:"epsilon"`
	Means         []float64 `json:"means"`
	Scales        []float64 `json:"scales"`
}

// Validate checks the internal consistency of the descriptor.
func (d Descriptor) Validate() error {
	if len(d.Means) != len(d.ScaleIndices) || len(d.Scales) != len(d.ScaleIndices) {
		return fmt.Errorf("%w: %d scale indices but %d means and %d scales",
			ErrInvalidDescriptor, len(d.ScaleIndices), len(d.Means), len(d.Scales))
	}
	for i, s := range d.Scales {
		if s == 0 {
			return fmt.Errorf("%w: zero scale at position %d", ErrInvalidDescriptor, i)
		}
	}
	return nil
}

// Transform scales a raw feature vector for model input. The result preserves
// the order of the input vector; binary features keep their original value.
func (d Descriptor) Transform(features []float64) ([]float64, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	out := make([]float64, len(features))
	copy(out, features)

	eps := d.Epsilon
	for _, idx := range d.LogitIndices {
		if idx < 0 || idx >= len(out) {
			return nil, fmt.Errorf("%w: logit index %d outside feature vector of length %d", ErrInvalidDescriptor, idx, len(out))
		}
		v := clamp(out[idx], eps, 1-eps)
		out[idx] = math.Log(v / (1 - v))
	}
	for pos, idx := range d.ScaleIndices {
		if idx < 0 || idx >= len(out) {
			return nil, fmt.Errorf("%w: scale index %d outside feature vector of length %d", ErrInvalidDescriptor, idx, len(out))
		}
		out[idx] = (out[idx] - d.Means[pos]) / d.Scales[pos]
	}
	return out, nil
}

// InverseTransform undoes Transform: de-standardizes the scaled indices, then
// maps logit-bounded features back through the sigmoid.
func (d Descriptor) InverseTransform(features []float64) ([]float64, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	out := make([]float64, len(features))
	copy(out, features)

	for pos, idx := range d.ScaleIndices {
		if idx < 0 || idx >= len(out) {
			return nil, fmt.Errorf("%w: scale index %d outside feature vector of length %d", ErrInvalidDescriptor, idx, len(out))
		}
		out[idx] = out[idx]*d.Scales[pos] + d.Means[pos]
	}
	for _, idx := range d.LogitIndices {
		if idx < 0 || idx >= len(out) {
			return nil, fmt.Errorf("%w: logit index %d outside feature vector of length %d", ErrInvalidDescriptor, idx, len(out))
		}
		out[idx] = sigmoid(out[idx])
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sigmoid is the overflow-guarded logistic function; its output is strictly
// inside (0,1) by construction.
func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-clamp(v, -sigmoidClip, sigmoidClip)))
}
