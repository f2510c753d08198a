// Package units normalizes number terms to the canonical units used by the
// evaluators: radians for angles and meters for lengths.
package units

import (
	"math"

	"mvstyle/expr"
)

// Category groups units that can be converted into each other.
type Category int

const (
	CategoryNone   Category = iota // unitless numbers
	CategoryAngle                  // rad, deg
	CategoryLength                 // m, cm, mm
	CategoryOther                  // %, unrecognized suffixes
)

// Conversion factors to the canonical unit of each category.
const (
	MetersPerCentimeter = 0.01
	MetersPerMillimeter = 0.001
	RadiansPerDegree    = math.Pi / 180
)

// CategoryOf returns the category of u.
func CategoryOf(u expr.Unit) Category {
	switch u {
	case expr.UnitNone:
		return CategoryNone
	case expr.UnitRadian, expr.UnitDegree:
		return CategoryAngle
	case expr.UnitMeter, expr.UnitCentimeter, expr.UnitMillimeter:
		return CategoryLength
	default:
		return CategoryOther
	}
}

// Canonical returns the unit every member of u's category normalizes to.
func Canonical(u expr.Unit) expr.Unit {
	switch CategoryOf(u) {
	case CategoryAngle:
		return expr.UnitRadian
	case CategoryLength:
		return expr.UnitMeter
	default:
		return u
	}
}

// DegreesToRadians converts an angle in degrees.
func DegreesToRadians(deg float64) float64 {
	return deg * RadiansPerDegree
}

// RadiansToDegrees converts an angle in radians.
func RadiansToDegrees(rad float64) float64 {
	return rad / RadiansPerDegree
}

// ToMeters converts a length expressed in unit to meters. It reports false
// for units that are not lengths.
func ToMeters(value float64, unit expr.Unit) (float64, bool) {
	switch unit {
	case expr.UnitMeter:
		return value, true
	case expr.UnitCentimeter:
		return value * MetersPerCentimeter, true
	case expr.UnitMillimeter:
		return value * MetersPerMillimeter, true
	default:
		return 0, false
	}
}

// Normalize converts n to the canonical unit of its category. Unitless
// numbers and percentages are returned unchanged; a number with an
// unrecognized unit is replaced by fallback.
func Normalize(n expr.NumberNode, fallback expr.NumberNode) expr.NumberNode {
	switch n.Unit {
	case expr.UnitNone, expr.UnitPercent, expr.UnitRadian, expr.UnitMeter:
		return n
	case expr.UnitDegree:
		return expr.Number(DegreesToRadians(n.Value), expr.UnitRadian)
	case expr.UnitCentimeter, expr.UnitMillimeter:
		m, _ := ToMeters(n.Value, n.Unit)
		return expr.Number(m, expr.UnitMeter)
	default:
		return fallback
	}
}

// Zero is the value produced by evaluations that cannot yield anything
// meaningful.
var Zero = expr.Number(0, expr.UnitNone)
