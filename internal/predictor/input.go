// Package predictor contains the two prediction paths of the application:
// the closed-form Miller-Macosko physics path and the trained-model ML path,
// together with the shared prediction input, the model selector and the
// process-lifetime model cache.
package predictor

import (
	"errors"
	"fmt"
	"math"

	"github.com/pylimer/polymer-predictor/internal/quantity"
)

// Avogadro is the Avogadro constant in 1/mol.
const Avogadro = 6.022e23

// ErrInvalidInput indicates a prediction input violating its invariants.
var ErrInvalidInput = errors.New("invalid prediction input")

// Input is an immutable snapshot of the synthesis and measurement parameters
// for one prediction. Construct it, validate it, and pass it around by value.
type Input struct {
	PolymerName string

	// Synthesis parameters.
	StoichiometricImbalance float64
	CrosslinkConversion     float64
	CrosslinkFunctionality  int

	ExtractSolventBeforeMeasurement bool
	DisablePrimaryLoops             bool
	DisableSecondaryLoops           bool
	FunctionalizeDiscrete           bool

	// Chain and bead counts per species class.
	ZeroFunctionalChains int
	MonofunctionalChains int
	BifunctionalChains   int
	BeadsZeroFunctional  int
	BeadsMonofunctional  int
	BeadsBifunctional    int
	BeadsCrosslink       int

	// Material and measurement properties.
	Temperature                quantity.Quantity
	Density                    quantity.Quantity
	BeadMass                   quantity.Quantity
	MeanSquaredBeadDistance    quantity.Quantity
	PlateauModulus             quantity.Quantity
	EntanglementSamplingCutoff quantity.Quantity
}

// Validate enforces the input invariants: all counts non-negative, r > 0,
// p in [0,1], f >= 2 and b2 in (0,1].
func (in Input) Validate() error {
	r := in.StoichiometricImbalance
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return fmt.Errorf("%w: stoichiometric imbalance must be positive and finite, got %g", ErrInvalidInput, r)
	}
	p := in.CrosslinkConversion
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: crosslink conversion must be in [0,1], got %g", ErrInvalidInput, p)
	}
	if in.CrosslinkFunctionality < 2 {
		return fmt.Errorf("%w: crosslink functionality must be at least 2, got %d", ErrInvalidInput, in.CrosslinkFunctionality)
	}
	for name, count := range map[string]int{
		"zero-functional chains": in.ZeroFunctionalChains,
		"monofunctional chains":  in.MonofunctionalChains,
		"bifunctional chains":    in.BifunctionalChains,
		"zero-functional beads":  in.BeadsZeroFunctional,
		"monofunctional beads":   in.BeadsMonofunctional,
		"bifunctional beads":     in.BeadsBifunctional,
		"crosslink beads":        in.BeadsCrosslink,
	} {
		if count < 0 {
			return fmt.Errorf("%w: %s count must be non-negative, got %d", ErrInvalidInput, name, count)
		}
	}
	b2 := in.B2()
	if b2 <= 0 || b2 > 1 {
		return fmt.Errorf("%w: bifunctional molar fraction b2=%g outside (0,1]", ErrInvalidInput, b2)
	}
	return nil
}

// B2 returns the molar fraction of bifunctional strand ends among all
// reactive strand ends.
func (in Input) B2() float64 {
	ends := float64(in.BifunctionalChains*2 + in.MonofunctionalChains)
	if ends == 0 {
		return 0
	}
	return float64(in.BifunctionalChains*2) / ends
}

// CrosslinkCount infers the number of crosslinkers from the stoichiometric
// imbalance and the number of reactive strand ends.
func (in Input) CrosslinkCount() int {
	if in.StoichiometricImbalance <= 0 || in.CrosslinkFunctionality == 0 {
		return 0
	}
	ends := float64(in.BifunctionalChains*2 + in.MonofunctionalChains)
	return int(ends * in.StoichiometricImbalance / float64(in.CrosslinkFunctionality))
}

// TotalBeadsZeroFunctional returns the total solvent bead count.
func (in Input) TotalBeadsZeroFunctional() int {
	return in.BeadsZeroFunctional * in.ZeroFunctionalChains
}

// TotalBeadsMonofunctional returns the total monofunctional bead count.
func (in Input) TotalBeadsMonofunctional() int {
	return in.BeadsMonofunctional * in.MonofunctionalChains
}

// TotalBeadsBifunctional returns the total bifunctional bead count.
func (in Input) TotalBeadsBifunctional() int {
	return in.BeadsBifunctional * in.BifunctionalChains
}

// TotalBeadsCrosslink returns the total crosslinker bead count.
func (in Input) TotalBeadsCrosslink() int {
	return in.BeadsCrosslink * in.CrosslinkCount()
}

// TotalBeads returns the total bead count of the network, crosslinkers
// included.
func (in Input) TotalBeads() int {
	return in.TotalBeadsBifunctional() + in.TotalBeadsMonofunctional() +
		in.TotalBeadsZeroFunctional() + in.TotalBeadsCrosslink()
}

// TotalChains returns the chain count including crosslinkers.
func (in Input) TotalChains() int {
	return in.BifunctionalChains + in.MonofunctionalChains + in.ZeroFunctionalChains + in.CrosslinkCount()
}

// MeanBeadDistance derives the mean bead-to-bead distance from the mean
// squared distance of a Gaussian chain, sqrt(<b^2>/(3*pi/8)).
func (in Input) MeanBeadDistance() (quantity.Quantity, error) {
	msbd, err := in.MeanSquaredBeadDistance.To(quantity.SquareNanometre)
	if err != nil {
		return quantity.Quantity{}, fmt.Errorf("mean squared bead distance: %w", err)
	}
	return quantity.New(math.Sqrt(msbd.Value/(3*math.Pi/8)), quantity.Nanometre), nil
}
