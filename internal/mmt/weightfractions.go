package mmt

import (
	"fmt"
	"math"
)

// SpeciesKind identifies the chain species of the network by what it can bind
// to, replacing the integer type codes of particle-based tooling.
type SpeciesKind int

const (
	// Monofunctional chains carry a single reactive end.
	Monofunctional SpeciesKind = iota
	// Bifunctional chains are the load-bearing strands with two reactive ends.
	Bifunctional
	// Crosslink species are the junctions with functionality >= 3.
	Crosslink
	// Solvent chains carry no reactive groups.
	Solvent
)

func (k SpeciesKind) String() string {
	switch k {
	case Monofunctional:
		return "monofunctional"
	case Bifunctional:
		return "bifunctional"
	case Crosslink:
		return "crosslink"
	case Solvent:
		return "solvent"
	}
	return fmt.Sprintf("species(%d)", int(k))
}

// The three weight fractions below are an informational decomposition: they
// are not normalized against each other and callers must not assume they sum
// to exactly 1.

// SolubleFraction returns the weight fraction of material not attached to the
// gel. functionality and weights must share keys; weights should sum to ~1.
func SolubleFraction(functionality map[SpeciesKind]int, weights map[SpeciesKind]float64, alpha, beta float64) (float64, error) {
	if err := checkProbabilities(alpha, beta); err != nil {
		return 0, err
	}
	var soluble float64
	for kind, w := range weights {
		f := functionality[kind]
		switch {
		case f <= 1:
			// Solvent and monofunctional chains are soluble on their own.
			soluble += w
		case f == 2:
			soluble += w * beta * beta
		default:
			soluble += w * math.Pow(alpha, float64(f))
		}
	}
	return soluble, nil
}

// DanglingFraction returns the weight fraction attached to the gel at exactly
// one point.
func DanglingFraction(functionality map[SpeciesKind]int, weights map[SpeciesKind]float64, alpha, beta float64) (float64, error) {
	if err := checkProbabilities(alpha, beta); err != nil {
		return 0, err
	}
	var dangling float64
	for kind, w := range weights {
		f := functionality[kind]
		switch {
		case f == 1:
			dangling += w
		case f == 2:
			dangling += w * 2 * beta * (1 - beta)
		case f >= 3:
			// C(f,1) = f arms into the gel, the rest finite.
			dangling += w * float64(f) * math.Pow(alpha, float64(f-1)) * (1 - alpha)
		}
	}
	return dangling, nil
}

// BackboneFraction returns the weight fraction of the elastically effective
// backbone: material attached to the gel at two or more points.
func BackboneFraction(functionality map[SpeciesKind]int, weights map[SpeciesKind]float64, alpha, beta float64) (float64, error) {
	if err := checkProbabilities(alpha, beta); err != nil {
		return 0, err
	}
	var backbone float64
	for kind, w := range weights {
		f := functionality[kind]
		switch {
		case f == 2:
			backbone += w * (1 - beta) * (1 - beta)
		case f >= 3:
			for m := 2; m <= f; m++ {
				backbone += w * binomial(f, m) * math.Pow(alpha, float64(f-m)) * math.Pow(1-alpha, float64(m))
			}
		}
	}
	return backbone, nil
}

func checkProbabilities(alpha, beta float64) error {
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("%w: alpha=%g outside [0,1]", ErrInvalidParameter, alpha)
	}
	if beta < 0 || beta > 1 {
		return fmt.Errorf("%w: beta=%g outside [0,1]", ErrInvalidParameter, beta)
	}
	return nil
}

// binomial computes C(n,k) with the multiplicative formula, avoiding the
// factorial overflow of naive implementations.
func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1.0
	for i := 1; i <= k; i++ {
		result *= float64(n-i+1) / float64(i)
	}
	return result
}
