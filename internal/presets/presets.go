// Package presets ships the polymer parameter presets backing the prediction
// form: per-polymer density, temperature, plateau modulus, bead statistics
// and sampling cutoff, derived from the Everaers et al. chain property table.
package presets

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed polymer-presets.json
var embedded embed.FS

// Preset holds the measured reference parameters for one polymer. Units are
// fixed by convention: density in kg/cm^3, temperature in K, plateau modulus
// in MPa, mean squared bead distance in nm^2, bead mass in kg/mol and
// sampling cutoff in nm.
type Preset struct {
	Name                       string  `json:"name"`
	Density                    float64 `json:"density"`
	Temperature                float64 `json:"temperature"`
	PlateauModulus             float64 `json:"plateau_modulus"`
	MeanSquaredBeadDistance    float64 `json:"mean_squared_bead_distance"`
	BeadMass                   float64 `json:"bead_mass"`
	EntanglementSamplingCutoff float64 `json:"entanglement_sampling_cutoff"`
}

// Load returns the embedded preset table keyed by polymer name.
func Load() (map[string]Preset, error) {
	data, err := embedded.ReadFile("polymer-presets.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded presets: %w", err)
	}
	return parse(data)
}

// LoadFile reads a preset table from disk, overriding the embedded copy.
func LoadFile(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (map[string]Preset, error) {
	var presets map[string]Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	if len(presets) == 0 {
		return nil, fmt.Errorf("presets: empty table")
	}
	return presets, nil
}
