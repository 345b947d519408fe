// Package mmt implements the Miller-Macosko statistical theory for end-linked
// polymer networks: the implicit branching-probability equations, the modulus
// decomposition into phantom, affine and entanglement contributions, and the
// soluble/dangling/backbone weight fractions.
//
// All functions are pure and safe for concurrent use.
package mmt

import (
	"errors"
	"fmt"
	"math"
)

// Error taxonomy for the solver and its consumers.
var (
	// ErrInvalidParameter indicates out-of-domain caller input (r, p, f, b2
	// ranges or a gelation-boundary violation). Never clamped, never retried.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnsupportedFunctionality indicates a crosslink functionality the
	// closed-form solver does not cover (only f=3 and f=4 are supported).
	ErrUnsupportedFunctionality = errors.New("unsupported crosslink functionality")

	// ErrNumericalInstability indicates a solved probability outside [0,1].
	// This is a computation bug signal, not a user input problem.
	ErrNumericalInstability = errors.New("numerical instability")
)

// Solve computes the Miller-Macosko branching probabilities for a network with
// stoichiometric imbalance r, conversion p, crosslink functionality f and
// bifunctional-chain molar fraction b2.
//
// alpha is the probability that a randomly chosen crosslink arm leads into a
// finite (non-gel) subtree; beta is the analogous probability for the end of a
// bifunctional strand.
func Solve(r, p float64, f int, b2 float64) (alpha, beta float64, err error) {
	// Degenerate network: nothing reacted or nothing to react.
	if r == 0 || p == 0 || f == 0 {
		return 0, 0, nil
	}

	if math.IsNaN(r) || math.IsInf(r, 0) || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, 0, fmt.Errorf("%w: r and p must be finite (r=%g, p=%g)", ErrInvalidParameter, r, p)
	}
	if r < 0 {
		return 0, 0, fmt.Errorf("%w: r must be positive, got %g", ErrInvalidParameter, r)
	}
	if p < 0 || p > 1 {
		return 0, 0, fmt.Errorf("%w: p must be in [0,1], got %g", ErrInvalidParameter, p)
	}
	if b2 <= 0 || b2 > 1 {
		return 0, 0, fmt.Errorf("%w: b2 must be in (0,1], got %g", ErrInvalidParameter, b2)
	}
	if f < 2 {
		return 0, 0, fmt.Errorf("%w: f must be at least 2, got %d", ErrInvalidParameter, f)
	}

	// Existence condition: the network must be past the gel point but below
	// full connectivity, 1/(f-1) < b2*p^2*r < 1.
	q := b2 * p * p * r
	if q <= 1/float64(f-1) || q >= 1 {
		return 0, 0, fmt.Errorf("%w: b2*p^2*r=%g violates gelation bounds (1/(f-1)=%g, 1)",
			ErrInvalidParameter, q, 1/float64(f-1))
	}

	switch f {
	case 3:
		alpha = (1 - q) / q
	case 4:
		alpha = math.Sqrt(1/q-3.0/4.0) - 0.5
	default:
		return 0, 0, fmt.Errorf("%w: no closed-form solution for f=%d", ErrUnsupportedFunctionality, f)
	}

	beta = r*p*math.Pow(alpha, float64(f-1)) + 1 - r*p

	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return 0, 0, fmt.Errorf("%w: solved alpha=%g, beta=%g outside [0,1]", ErrNumericalInstability, alpha, beta)
	}
	return alpha, beta, nil
}
