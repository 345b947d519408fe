package predictor

import (
	"fmt"
	"math"

	"github.com/pylimer/polymer-predictor/internal/mmt"
	"github.com/pylimer/polymer-predictor/internal/quantity"
)

// referenceChainCount is the bifunctional chain population the per-species
// masses are projected onto. Only ratios of the projected populations enter
// the result, so the absolute value just needs to be large.
const referenceChainCount = 1e7

// PredictMMT runs the closed-form Miller-Macosko prediction: modulus
// decomposition plus soluble/dangling weight fractions. It is pure and
// synchronous, with no suspension points.
func PredictMMT(in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	b2 := in.B2()
	n2 := float64(referenceChainCount)
	n1 := math.Floor(2 * n2 * (1 - b2) / b2)

	beadMass, err := in.BeadMass.To(quantity.KilogramPerMole)
	if err != nil {
		return nil, fmt.Errorf("bead mass: %w", err)
	}
	// Per-molecule masses in kg.
	beadKg := beadMass.Value / Avogadro
	mw1 := float64(in.BeadsMonofunctional) * beadKg
	mw2 := float64(in.BeadsBifunctional) * beadKg
	mwX := float64(in.BeadsCrosslink) * beadKg

	// Effective strand mass over the load-bearing chain population.
	mwEff := (n2*mw2 + n1*mw1) / (n2 + n1)
	if mwEff <= 0 {
		return nil, fmt.Errorf("%w: effective strand mass is zero; bead counts and mass must be positive", ErrInvalidInput)
	}

	density, err := in.Density.To(quantity.KilogramPerCubicMetre)
	if err != nil {
		return nil, fmt.Errorf("density: %w", err)
	}
	strandDensity := quantity.New(density.Value/mwEff, quantity.PerCubicMetre)

	r := in.StoichiometricImbalance
	p := in.CrosslinkConversion
	f := in.CrosslinkFunctionality

	decomp, err := mmt.Decompose(r, p, f, strandDensity, in.Temperature, in.PlateauModulus, b2)
	if err != nil {
		return nil, err
	}

	// With monofunctional diluent present, only the bifunctional mass
	// fraction of the load-bearing chains traps entanglements.
	correction := 1.0
	if loadBearing := n1*mw1 + n2*mw2; loadBearing > 0 {
		correction = n2 * mw2 / loadBearing
	}
	entanglement := decomp.Entanglement.MulScalar(correction)

	nX := math.Floor((2*n2 + n1) * r / float64(f))
	totalWeight := n1*mw1 + n2*mw2 + nX*mwX
	if totalWeight <= 0 {
		return nil, fmt.Errorf("%w: total network weight is zero", ErrInvalidInput)
	}

	functionality := map[mmt.SpeciesKind]int{
		mmt.Bifunctional:   2,
		mmt.Crosslink:      f,
		mmt.Monofunctional: 1,
	}
	weights := map[mmt.SpeciesKind]float64{
		mmt.Bifunctional:   n2 * mw2 / totalWeight,
		mmt.Crosslink:      nX * mwX / totalWeight,
		mmt.Monofunctional: n1 * mw1 / totalWeight,
	}

	alpha, beta, err := mmt.Solve(r, p, f, b2)
	if err != nil {
		return nil, err
	}
	soluble, err := mmt.SolubleFraction(functionality, weights, alpha, beta)
	if err != nil {
		return nil, err
	}
	dangling, err := mmt.DanglingFraction(functionality, weights, alpha, beta)
	if err != nil {
		return nil, err
	}
	backbone, err := mmt.BackboneFraction(functionality, weights, alpha, beta)
	if err != nil {
		return nil, err
	}

	result := NewPhysicsResult(decomp.Phantom, entanglement, soluble, dangling)
	result.BackboneDirect = &backbone
	return result, nil
}
