package nn

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pylimer/polymer-predictor/internal/scaler"
)

// Metadata describes one trained model variant: the ordered feature names the
// model was trained on, the ordered output names it produces, and the scaler
// descriptors used during training. It is stored as JSON next to the weights.
type Metadata struct {
	InputAxes     []string                `json:"input_axes"`
	OutputAxes    []string                `json:"output_axes"`
	FeatureScaler scaler.Descriptor       `json:"feature_scaler"`
	TargetScaler  scaler.TargetDescriptor `json:"target_scaler"`
}

// LoadMetadata reads and validates model metadata. Fetch or parse failures
// surface as metadata-load errors naming the path; nothing is defaulted.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load model metadata %s: %w", path, err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse model metadata %s: %w", path, err)
	}
	if len(meta.InputAxes) == 0 {
		return nil, fmt.Errorf("model metadata %s: no input axes declared", path)
	}
	if len(meta.OutputAxes) == 0 {
		return nil, fmt.Errorf("model metadata %s: no output axes declared", path)
	}
	if err := meta.FeatureScaler.Validate(); err != nil {
		return nil, fmt.Errorf("model metadata %s: feature scaler: %w", path, err)
	}
	return &meta, nil
}
