package predictor

import (
	"context"
	"errors"
	"fmt"

	"github.com/pylimer/polymer-predictor/internal/quantity"
)

// ErrUnknownFeature indicates a model metadata file declaring an input axis
// this predictor cannot compute. The prediction fails fast rather than
// producing a partially populated feature vector.
var ErrUnknownFeature = errors.New("unknown model feature")

// NNPredictor runs the ML prediction path: model selection, feature scaling,
// inference and inverse target scaling. The cache it owns is the only shared
// mutable state of the path.
type NNPredictor struct {
	modelsDir string
	cache     *ModelCache
}

// NewNNPredictor creates a predictor resolving model variants against
// modelsDir.
func NewNNPredictor(modelsDir string) *NNPredictor {
	return &NNPredictor{
		modelsDir: modelsDir,
		cache:     NewModelCache(),
	}
}

// Predict runs the ML path for one prediction input. The external inference
// call is the path's only suspension point; ctx bounds it.
//
// The trained models emit at least four outputs in the order entanglement
// modulus, phantom modulus, dangling fraction, soluble fraction (in MPa and
// plain fractions) -- the reverse pairing of the physics path's conceptual
// order, preserved because it matches the trained artifacts.
func (np *NNPredictor) Predict(ctx context.Context, in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	cfg := Select(in, np.modelsDir)
	model, err := np.cache.Load(cfg)
	if err != nil {
		return nil, err
	}

	features, err := featureVector(in, model.Metadata.InputAxes)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", cfg.Name, err)
	}
	scaled, err := model.Metadata.FeatureScaler.Transform(features)
	if err != nil {
		return nil, fmt.Errorf("model %q: scale features: %w", cfg.Name, err)
	}

	raw, err := model.Engine.Predict(ctx, scaled)
	if err != nil {
		return nil, fmt.Errorf("inference failed for model %q (%s): %w", cfg.Name, cfg.ModelPath, err)
	}

	outputs, err := model.Metadata.TargetScaler.InverseTransform(raw)
	if err != nil {
		return nil, fmt.Errorf("model %q: unscale outputs: %w", cfg.Name, err)
	}
	if len(outputs) < 4 {
		return nil, fmt.Errorf("model %q returned %d outputs, need at least 4", cfg.Name, len(outputs))
	}

	result := NewMLResult(
		quantity.New(outputs[0], quantity.Megapascal),
		quantity.New(outputs[1], quantity.Megapascal),
		outputs[2],
		outputs[3],
	)
	result.Model = cfg.Name
	return result, nil
}

// featureVector assembles the raw feature vector in the order the model
// declares. Every axis must resolve to a value; an unrecognized axis is an
// ErrUnknownFeature.
func featureVector(in Input, axes []string) ([]float64, error) {
	values, err := featureValues(in)
	if err != nil {
		return nil, err
	}
	vector := make([]float64, len(axes))
	for i, axis := range axes {
		v, ok := values[axis]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, axis)
		}
		vector[i] = v
	}
	return vector, nil
}

// featureValues computes every feature the training axes can reference,
// keyed by the axis names used during training.
func featureValues(in Input) (map[string]float64, error) {
	plateau, err := in.PlateauModulus.To(quantity.Megapascal)
	if err != nil {
		return nil, fmt.Errorf("plateau modulus: %w", err)
	}
	temp, err := in.Temperature.To(quantity.Kelvin)
	if err != nil {
		return nil, fmt.Errorf("temperature: %w", err)
	}
	density, err := in.Density.To(quantity.GramPerCubicCentimetre)
	if err != nil {
		return nil, fmt.Errorf("density: %w", err)
	}
	beadMass, err := in.BeadMass.To(quantity.KilogramPerMole)
	if err != nil {
		return nil, fmt.Errorf("bead mass: %w", err)
	}
	meanDistance, err := in.MeanBeadDistance()
	if err != nil {
		return nil, err
	}
	cutoff, err := in.EntanglementSamplingCutoff.To(quantity.Nanometre)
	if err != nil {
		return nil, fmt.Errorf("entanglement sampling cutoff: %w", err)
	}

	totalBeads := float64(in.TotalBeads())
	if totalBeads == 0 {
		return nil, fmt.Errorf("%w: total bead count is zero", ErrInvalidInput)
	}

	return map[string]float64{
		"r":  in.StoichiometricImbalance,
		"p":  in.CrosslinkConversion,
		"b2": in.B2(),

		"ge_1 [MPa]":          plateau.Value,
		"temperature [K]":     temp.Value,
		"density [g/cm^3]":    density.Value,
		"param's <b> [nm]":    meanDistance.Value,
		"param's Mw [kg/mol]": beadMass.Value,

		"Mw [kg/mol]":                       float64(in.BeadsBifunctional) * beadMass.Value,
		"Mw [kg/mol] monofunctional chains": float64(in.BeadsMonofunctional) * beadMass.Value,
		"Mw [kg/mol] solvent chains":        float64(in.BeadsZeroFunctional) * beadMass.Value,
		"Mw [kg/mol] xlink chains":          float64(in.BeadsCrosslink) * beadMass.Value,

		"functionality_per_xlink_chain": float64(in.CrosslinkFunctionality),
		"functionalize_discrete":        boolFeature(in.FunctionalizeDiscrete),
		"remove_wsol":                   boolFeature(in.ExtractSolventBeforeMeasurement),

		"solvent_fraction_of_beads":        float64(in.TotalBeadsZeroFunctional()) / totalBeads,
		"monofunctional_fraction_of_beads": float64(in.TotalBeadsMonofunctional()) / totalBeads,
		"bifunctional_fraction_of_beads":   float64(in.TotalBeadsBifunctional()) / totalBeads,
		"crosslink_fraction_of_beads":      float64(in.TotalBeadsCrosslink()) / totalBeads,

		"entanglement_sampling_cutoff [nm]": cutoff.Value,
	}, nil
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
