package mmt

import (
	"fmt"
	"math"

	"github.com/pylimer/polymer-predictor/internal/quantity"
)

// Boltzmann is the Boltzmann constant in J/K.
const Boltzmann = 1.380649e-23

// Decomposition holds the four modulus estimates of the Miller-Macosko
// decomposition, all in pascal.
type Decomposition struct {
	// Phantom is the MMT phantom contribution, accounting for finite
	// connectivity through the solved branching probabilities.
	Phantom quantity.Quantity
	// Entanglement is the melt plateau modulus scaled by the Langley
	// trapping factor.
	Entanglement quantity.Quantity
	// Affine is the ideal affine network estimate kB*T*nu.
	Affine quantity.Quantity
	// PhantomNetwork is the ideal phantom network estimate (1-2/f)*kB*T*nu.
	PhantomNetwork quantity.Quantity
}

// TrappingFactor returns the Langley trapping factor (1-beta)^4: the
// probability that all four strands meeting at an entanglement lead into the
// gel, so the entanglement contributes to the equilibrium modulus.
func TrappingFactor(beta float64) float64 {
	d := 1 - beta
	return d * d * d * d
}

// Decompose computes the modulus decomposition for a network with strand
// number density strandDensity at the given temperature. meltModulus is the
// plateau (melt entanglement) modulus of the uncrosslinked polymer.
//
// Unit conversions to SI (K, 1/m^3, Pa) happen here, at the boundary; the
// arithmetic below is purely SI.
func Decompose(r, p float64, f int, strandDensity, temperature, meltModulus quantity.Quantity, b2 float64) (Decomposition, error) {
	alpha, beta, err := Solve(r, p, f, b2)
	if err != nil {
		return Decomposition{}, err
	}

	temp, err := temperature.To(quantity.Kelvin)
	if err != nil {
		return Decomposition{}, fmt.Errorf("temperature: %w", err)
	}
	nu, err := strandDensity.To(quantity.PerCubicMetre)
	if err != nil {
		return Decomposition{}, fmt.Errorf("strand density: %w", err)
	}
	melt, err := meltModulus.To(quantity.Pascal)
	if err != nil {
		return Decomposition{}, fmt.Errorf("melt modulus: %w", err)
	}

	kTnu := Boltzmann * temp.Value * nu.Value

	// Sum over crosslinks with effective degree m, weighted by half the
	// number of independent strand constraints each contributes.
	var phantomSum float64
	for m := 3; m <= f; m++ {
		phantomSum += (float64(m-2) / 2) * binomial(f, m) *
			math.Pow(alpha, float64(f-m)) * math.Pow(1-alpha, float64(m))
	}
	phantom := (2 * r * b2 / float64(f)) * kTnu * phantomSum

	return Decomposition{
		Phantom:        quantity.New(phantom, quantity.Pascal),
		Entanglement:   quantity.New(melt.Value*TrappingFactor(beta), quantity.Pascal),
		Affine:         quantity.New(kTnu, quantity.Pascal),
		PhantomNetwork: quantity.New((1-2/float64(f))*kTnu, quantity.Pascal),
	}, nil
}
