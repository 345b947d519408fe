package models

// PredictionRequest carries the synthesis and measurement parameters of one
// prediction. Units follow the prediction form's conventions: temperature in
// K, density in kg/cm^3, bead mass in kg/mol, mean squared bead distance in
// nm^2, plateau modulus in MPa and sampling cutoff in nm.
type PredictionRequest struct {
	PolymerName string `json:"polymer_name"`

	StoichiometricImbalance float64 `json:"stoichiometric_imbalance"`
	CrosslinkConversion     float64 `json:"crosslink_conversion"`
	CrosslinkFunctionality  int     `json:"crosslink_functionality"`

	ExtractSolventBeforeMeasurement bool `json:"extract_solvent_before_measurement"`
	DisablePrimaryLoops             bool `json:"disable_primary_loops"`
	DisableSecondaryLoops           bool `json:"disable_secondary_loops"`
	FunctionalizeDiscrete           bool `json:"functionalize_discrete"`

	NZeroFunctionalChains int `json:"n_zerofunctional_chains"`
	NMonofunctionalChains int `json:"n_monofunctional_chains"`
	NBifunctionalChains   int `json:"n_bifunctional_chains"`
	NBeadsZeroFunctional  int `json:"n_beads_zerofunctional"`
	NBeadsMonofunctional  int `json:"n_beads_monofunctional"`
	NBeadsBifunctional    int `json:"n_beads_bifunctional"`
	NBeadsCrosslink       int `json:"n_beads_xlinks"`

	Temperature                float64 `json:"temperature"`
	Density                    float64 `json:"density"`
	BeadMass                   float64 `json:"bead_mass"`
	MeanSquaredBeadDistance    float64 `json:"mean_squared_bead_distance"`
	PlateauModulus             float64 `json:"plateau_modulus"`
	EntanglementSamplingCutoff float64 `json:"entanglement_sampling_cutoff"`
}

// PredictionResponse is the result shape shared by both prediction paths.
// Moduli are reported in MPa; weight fractions are plain fractions.
type PredictionResponse struct {
	GPhantom   float64 `json:"g_phantom"`
	GEntangled float64 `json:"g_entangled"`
	GEq        float64 `json:"g_eq"`
	WSoluble   float64 `json:"w_soluble"`
	WDangling  float64 `json:"w_dangling"`
	WBackbone  float64 `json:"w_backbone"`

	// WBackboneMMT is the backbone fraction computed directly by the
	// Miller-Macosko formulas (physics path only). The three MMT fractions
	// are not normalized, so this can differ from WBackbone.
	WBackboneMMT *float64 `json:"w_backbone_mmt,omitempty"`

	// Model names the trained model variant used (ML path only).
	Model string `json:"model,omitempty"`

	// ID is the persisted prediction record id, when the store is available.
	ID string `json:"id,omitempty"`
}
