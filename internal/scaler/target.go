package scaler

import (
	"fmt"
	"math"
	"sort"
)

// TargetDescriptor describes the output-side scaling of a trained model.
// Every output index not in ExcludeIndices is standard-scaled; on top of
// that, an index may belong to at most one of LogIndices, Log1pIndices or
// LogitIndices, naming the nonlinearity applied during training. Means and
// Scales correspond positionally to the sorted list of non-excluded indices.
type TargetDescriptor struct {
	LogIndices     []int     `json:"log_indices"`
	Log1pIndices   []int     `json:"log1p_indices"`
	LogitIndices   []int     `json:"logit_indices"`
	ExcludeIndices []int     `json:"exclude_indices"`
	Means          []float64 `json:"means"`
	Scales         []float64 `json:"scales"`
}

// scaleVars returns the sorted output indices subject to standard scaling.
func (d TargetDescriptor) scaleVars(n int) []int {
	excluded := make(map[int]bool, len(d.ExcludeIndices))
	for _, idx := range d.ExcludeIndices {
		excluded[idx] = true
	}
	vars := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !excluded[i] {
			vars = append(vars, i)
		}
	}
	sort.Ints(vars)
	return vars
}

func (d TargetDescriptor) validateFor(n int) ([]int, error) {
	vars := d.scaleVars(n)
	if len(d.Means) != len(vars) || len(d.Scales) != len(vars) {
		return nil, fmt.Errorf("%w: %d scaled outputs but %d means and %d scales",
			ErrInvalidDescriptor, len(vars), len(d.Means), len(d.Scales))
	}
	for i, s := range d.Scales {
		if s == 0 {
			return nil, fmt.Errorf("%w: zero scale at position %d", ErrInvalidDescriptor, i)
		}
	}
	for _, idx := range append(append(append([]int{}, d.LogIndices...), d.Log1pIndices...), d.LogitIndices...) {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: transform index %d outside output vector of length %d", ErrInvalidDescriptor, idx, n)
		}
	}
	return vars, nil
}

// Transform maps raw target values into the model's training space: the
// nonlinearity first, then standard scaling of the non-excluded indices.
func (d TargetDescriptor) Transform(targets []float64) ([]float64, error) {
	vars, err := d.validateFor(len(targets))
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(targets))
	copy(out, targets)

	for _, idx := range d.LogIndices {
		out[idx] = math.Log(out[idx])
	}
	for _, idx := range d.Log1pIndices {
		out[idx] = math.Log1p(out[idx])
	}
	for _, idx := range d.LogitIndices {
		v := clamp(out[idx], 1e-15, 1-1e-15)
		out[idx] = math.Log(v / (1 - v))
	}
	for pos, idx := range vars {
		out[idx] = (out[idx] - d.Means[pos]) / d.Scales[pos]
	}
	return out, nil
}

// InverseTransform maps raw model outputs back to physical values:
// de-standardization first, then the inverse nonlinearities on the already
// de-standardized values. exp and expm1 arguments are clipped to 700 and the
// sigmoid argument to [-500,500] so the inverse never overflows; a logit
// output is therefore strictly inside (0,1) by construction.
func (d TargetDescriptor) InverseTransform(outputs []float64) ([]float64, error) {
	vars, err := d.validateFor(len(outputs))
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(outputs))
	copy(out, outputs)

	for pos, idx := range vars {
		out[idx] = out[idx]*d.Scales[pos] + d.Means[pos]
	}
	for _, idx := range d.LogIndices {
		out[idx] = math.Exp(math.Min(out[idx], expClip))
	}
	for _, idx := range d.Log1pIndices {
		out[idx] = math.Expm1(math.Min(out[idx], expClip))
	}
	for _, idx := range d.LogitIndices {
		out[idx] = sigmoid(out[idx])
	}
	return out, nil
}
