// Package nn provides the inference boundary of the ML prediction path: the
// Engine interface the predictor calls into, a pure-Go feed-forward network
// implementing it, and the per-model metadata (feature axes and scaler
// descriptors) stored next to each trained model.
package nn

import "context"

// Engine runs inference on an already-scaled feature vector. It is the only
// suspension point of the ML prediction path; implementations do not retry
// and carry no timeout of their own, so callers impose cancellation through
// the context.
type Engine interface {
	Predict(ctx context.Context, inputs []float64) ([]float64, error)
}
