// Package quantity provides a small value-with-unit type for the physical
// inputs and outputs of the predictors. Units carry SI conversion factors and
// integer dimension exponents; arithmetic across incompatible dimensions is an
// error rather than a silent unit mix-up.
package quantity

import (
	"fmt"
	"math"
)

// Dimension holds the exponents of the SI base dimensions used here.
type Dimension struct {
	Length      int
	Mass        int
	Time        int
	Temperature int
	Amount      int
}

func (d Dimension) add(o Dimension) Dimension {
	return Dimension{
		Length:      d.Length + o.Length,
		Mass:        d.Mass + o.Mass,
		Time:        d.Time + o.Time,
		Temperature: d.Temperature + o.Temperature,
		Amount:      d.Amount + o.Amount,
	}
}

func (d Dimension) sub(o Dimension) Dimension {
	return Dimension{
		Length:      d.Length - o.Length,
		Mass:        d.Mass - o.Mass,
		Time:        d.Time - o.Time,
		Temperature: d.Temperature - o.Temperature,
		Amount:      d.Amount - o.Amount,
	}
}

// Unit describes a measurement unit: a display symbol, its dimension and the
// multiplicative factor converting a value in this unit to SI base units.
type Unit struct {
	Symbol string
	Dim    Dimension
	Factor float64
}

// Units used by the prediction pipeline.
var (
	Dimensionless = Unit{Symbol: "", Factor: 1}

	Kelvin = Unit{Symbol: "K", Dim: Dimension{Temperature: 1}, Factor: 1}

	Pascal     = Unit{Symbol: "Pa", Dim: Dimension{Mass: 1, Length: -1, Time: -2}, Factor: 1}
	Megapascal = Unit{Symbol: "MPa", Dim: Dimension{Mass: 1, Length: -1, Time: -2}, Factor: 1e6}

	JoulePerKelvin = Unit{Symbol: "J/K", Dim: Dimension{Mass: 1, Length: 2, Time: -2, Temperature: -1}, Factor: 1}

	Kilogram = Unit{Symbol: "kg", Dim: Dimension{Mass: 1}, Factor: 1}
	Gram     = Unit{Symbol: "g", Dim: Dimension{Mass: 1}, Factor: 1e-3}

	KilogramPerMole = Unit{Symbol: "kg/mol", Dim: Dimension{Mass: 1, Amount: -1}, Factor: 1}
	GramPerMole     = Unit{Symbol: "g/mol", Dim: Dimension{Mass: 1, Amount: -1}, Factor: 1e-3}

	Metre           = Unit{Symbol: "m", Dim: Dimension{Length: 1}, Factor: 1}
	Nanometre       = Unit{Symbol: "nm", Dim: Dimension{Length: 1}, Factor: 1e-9}
	SquareNanometre = Unit{Symbol: "nm^2", Dim: Dimension{Length: 2}, Factor: 1e-18}

	KilogramPerCubicMetre      = Unit{Symbol: "kg/m^3", Dim: Dimension{Mass: 1, Length: -3}, Factor: 1}
	GramPerCubicCentimetre     = Unit{Symbol: "g/cm^3", Dim: Dimension{Mass: 1, Length: -3}, Factor: 1e3}
	KilogramPerCubicCentimetre = Unit{Symbol: "kg/cm^3", Dim: Dimension{Mass: 1, Length: -3}, Factor: 1e6}

	PerCubicMetre     = Unit{Symbol: "m^-3", Dim: Dimension{Length: -3}, Factor: 1}
	PerCubicNanometre = Unit{Symbol: "nm^-3", Dim: Dimension{Length: -3}, Factor: 1e27}
)

// Quantity is a numeric value tagged with its unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// New builds a quantity from a value and unit.
func New(value float64, unit Unit) Quantity {
	return Quantity{Value: value, Unit: unit}
}

// SI returns the value converted to SI base units.
func (q Quantity) SI() float64 {
	return q.Value * q.Unit.Factor
}

// To converts the quantity to another unit of the same dimension.
func (q Quantity) To(unit Unit) (Quantity, error) {
	if q.Unit.Dim != unit.Dim {
		return Quantity{}, fmt.Errorf("cannot convert %s to %s: incompatible dimensions", q.Unit.Symbol, unit.Symbol)
	}
	return Quantity{Value: q.SI() / unit.Factor, Unit: unit}, nil
}

// Add returns q + o, converting o to q's unit first.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	converted, err := o.To(q.Unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: q.Value + converted.Value, Unit: q.Unit}, nil
}

// Mul returns the product of two quantities in SI base units.
func (q Quantity) Mul(o Quantity) Quantity {
	return Quantity{
		Value: q.SI() * o.SI(),
		Unit:  Unit{Symbol: joinSymbols(q.Unit.Symbol, o.Unit.Symbol, "*"), Dim: q.Unit.Dim.add(o.Unit.Dim), Factor: 1},
	}
}

// Div returns the quotient of two quantities in SI base units.
func (q Quantity) Div(o Quantity) Quantity {
	return Quantity{
		Value: q.SI() / o.SI(),
		Unit:  Unit{Symbol: joinSymbols(q.Unit.Symbol, o.Unit.Symbol, "/"), Dim: q.Unit.Dim.sub(o.Unit.Dim), Factor: 1},
	}
}

// MulScalar scales the quantity by a dimensionless factor.
func (q Quantity) MulScalar(s float64) Quantity {
	return Quantity{Value: q.Value * s, Unit: q.Unit}
}

// Float returns the plain value of a dimensionless quantity.
func (q Quantity) Float() (float64, error) {
	if q.Unit.Dim != (Dimension{}) {
		return 0, fmt.Errorf("quantity %s is not dimensionless", q.Unit.Symbol)
	}
	return q.SI(), nil
}

// IsFinite reports whether the value is neither NaN nor infinite.
func (q Quantity) IsFinite() bool {
	return !math.IsNaN(q.Value) && !math.IsInf(q.Value, 0)
}

func (q Quantity) String() string {
	if q.Unit.Symbol == "" {
		return fmt.Sprintf("%g", q.Value)
	}
	return fmt.Sprintf("%g %s", q.Value, q.Unit.Symbol)
}

func joinSymbols(a, b, op string) string {
	if a == "" {
		if op == "/" && b != "" {
			return "1/" + b
		}
		return b
	}
	if b == "" {
		return a
	}
	return a + op + b
}
