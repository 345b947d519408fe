package predictor

import "github.com/pylimer/polymer-predictor/internal/quantity"

// Result is the shared output shape of both prediction paths: the four
// predicted quantities plus the two derived ones. It is built once per
// prediction and not mutated afterwards.
//
// The two constructors encode the two historical output orderings. The
// physics path reports (phantom, entanglement, soluble, dangling); the
// trained models emit (entanglement, phantom, dangling, soluble). Keeping one
// builder per path removes the positional hazard of a shared array.
type Result struct {
	Phantom      quantity.Quantity
	Entanglement quantity.Quantity
	Soluble      float64
	Dangling     float64

	// BackboneDirect carries the backbone fraction as computed directly by
	// the Miller-Macosko weight fraction formulas, set only by the physics
	// path. It is informational: the three MMT fractions are not normalized
	// against each other, so it need not equal Backbone().
	BackboneDirect *float64

	// Model names the trained model variant used, set only by the ML path.
	Model string
}

// NewPhysicsResult builds a Result in the physics path's order.
func NewPhysicsResult(phantom, entanglement quantity.Quantity, soluble, dangling float64) *Result {
	return &Result{
		Phantom:      phantom,
		Entanglement: entanglement,
		Soluble:      soluble,
		Dangling:     dangling,
	}
}

// NewMLResult builds a Result in the trained models' output order.
func NewMLResult(entanglement, phantom quantity.Quantity, dangling, soluble float64) *Result {
	return &Result{
		Phantom:      phantom,
		Entanglement: entanglement,
		Soluble:      soluble,
		Dangling:     dangling,
	}
}

// Total returns the equilibrium modulus, phantom plus entanglement.
func (r *Result) Total() (quantity.Quantity, error) {
	return r.Phantom.Add(r.Entanglement)
}

// Backbone returns the elastically effective weight fraction derived as
// 1 - soluble - dangling.
func (r *Result) Backbone() float64 {
	return 1 - r.Soluble - r.Dangling
}
