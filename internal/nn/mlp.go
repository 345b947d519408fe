package nn

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Layer is one dense layer of a feed-forward network. Weights is indexed
// [output][input]; Activation is "relu" for hidden layers and "linear" for
// the output layer.
type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"`
}

// MLP is a feed-forward network with weights exported from training.
type MLP struct {
	layers []Layer
}

// LoadMLP reads network weights from a JSON file and validates the layer
// shapes chain together.
func LoadMLP(path string) (*MLP, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model weights %s: %w", path, err)
	}

	var payload struct {
		Layers []Layer `json:"layers"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse model weights %s: %w", path, err)
	}
	if len(payload.Layers) == 0 {
		return nil, fmt.Errorf("model weights %s: no layers", path)
	}

	for i, layer := range payload.Layers {
		if len(layer.Weights) != len(layer.Biases) {
			return nil, fmt.Errorf("model weights %s: layer %d has %d weight rows but %d biases",
				path, i, len(layer.Weights), len(layer.Biases))
		}
		if i > 0 {
			prevOut := len(payload.Layers[i-1].Biases)
			for j, row := range layer.Weights {
				if len(row) != prevOut {
					return nil, fmt.Errorf("model weights %s: layer %d row %d expects %d inputs, got %d",
						path, i, j, prevOut, len(row))
				}
			}
		}
		switch layer.Activation {
		case "relu", "linear", "":
		default:
			return nil, fmt.Errorf("model weights %s: layer %d has unknown activation %q", path, i, layer.Activation)
		}
	}

	return &MLP{layers: payload.Layers}, nil
}

// InputDim returns the expected feature vector length.
func (m *MLP) InputDim() int {
	if len(m.layers) == 0 || len(m.layers[0].Weights) == 0 {
		return 0
	}
	return len(m.layers[0].Weights[0])
}

// OutputDim returns the length of the output vector.
func (m *MLP) OutputDim() int {
	if len(m.layers) == 0 {
		return 0
	}
	return len(m.layers[len(m.layers)-1].Biases)
}

// Predict runs a forward pass. The context is checked between layers so a
// cancelled caller does not pay for the remaining matrix products.
func (m *MLP) Predict(ctx context.Context, inputs []float64) ([]float64, error) {
	if want := m.InputDim(); len(inputs) != want {
		return nil, fmt.Errorf("expected %d inputs, got %d", want, len(inputs))
	}

	current := inputs
	for _, layer := range m.layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := make([]float64, len(layer.Weights))
		for o, row := range layer.Weights {
			sum := layer.Biases[o]
			for j, w := range row {
				sum += w * current[j]
			}
			if layer.Activation == "relu" && sum < 0 {
				sum = 0
			}
			next[o] = sum
		}
		current = next
	}
	return current, nil
}
