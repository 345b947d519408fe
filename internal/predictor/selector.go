package predictor

import (
	"path/filepath"
	"strings"
)

// studiedPolymerMarker tags the material family the specialized models were
// trained on.
const studiedPolymerMarker = "PDMS"

// ModelConfig identifies one trained model variant by its weight and metadata
// files. Configs are cache keys; two configs with the same ModelPath are the
// same model.
type ModelConfig struct {
	Name         string
	ModelPath    string
	MetadataPath string
}

// Select maps a prediction input to the trained model variant covering it.
// It is a pure decision function with no side effects.
//
// The specialized models only apply to the studied material family with no
// solvent, no discrete functionalization and no solvent extraction; anything
// else falls back to the general model. Note that a single-bead crosslinker
// with monofunctional diluent also falls through to the general model.
func Select(in Input, modelsDir string) ModelConfig {
	specialized := strings.Contains(in.PolymerName, studiedPolymerMarker) &&
		!in.ExtractSolventBeforeMeasurement &&
		!in.FunctionalizeDiscrete &&
		in.ZeroFunctionalChains == 0

	if specialized {
		if in.BeadsCrosslink == 1 && in.MonofunctionalChains == 0 {
			return modelConfig(modelsDir, "single-crosslink", "single_crosslink")
		}
		if in.BeadsCrosslink > 1 {
			return modelConfig(modelsDir, "long-crosslink", "long_crosslink")
		}
	}
	return modelConfig(modelsDir, "general", "general")
}

func modelConfig(modelsDir, name, stem string) ModelConfig {
	return ModelConfig{
		Name:         name,
		ModelPath:    filepath.Join(modelsDir, stem+".model.json"),
		MetadataPath: filepath.Join(modelsDir, stem+".metadata.json"),
	}
}
