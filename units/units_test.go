package units

import (
	"math"
	"testing"

	"mvstyle/expr"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestNormalize(t *testing.T) {
	fallback := expr.Number(7, expr.UnitMeter)
	tests := []struct {
		name string
		in   expr.NumberNode
		want expr.NumberNode
	}{
		{"meters identity", expr.Number(1.5, expr.UnitMeter), expr.Number(1.5, expr.UnitMeter)},
		{"centimeters", expr.Number(200, expr.UnitCentimeter), expr.Number(2, expr.UnitMeter)},
		{"millimeters", expr.Number(5, expr.UnitMillimeter), expr.Number(0.005, expr.UnitMeter)},
		{"radians identity", expr.Number(1, expr.UnitRadian), expr.Number(1, expr.UnitRadian)},
		{"degrees", expr.Number(180, expr.UnitDegree), expr.Number(math.Pi, expr.UnitRadian)},
		{"unitless", expr.Number(3, expr.UnitNone), expr.Number(3, expr.UnitNone)},
		{"percent", expr.Number(50, expr.UnitPercent), expr.Number(50, expr.UnitPercent)},
		{"invalid", expr.Number(5, expr.UnitInvalid), fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in, fallback)
			if got.Unit != tt.want.Unit || !almostEqual(got.Value, tt.want.Value) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		unit expr.Unit
		want Category
	}{
		{expr.UnitNone, CategoryNone},
		{expr.UnitDegree, CategoryAngle},
		{expr.UnitRadian, CategoryAngle},
		{expr.UnitMeter, CategoryLength},
		{expr.UnitCentimeter, CategoryLength},
		{expr.UnitMillimeter, CategoryLength},
		{expr.UnitPercent, CategoryOther},
		{expr.UnitInvalid, CategoryOther},
	}
	for _, tt := range tests {
		if got := CategoryOf(tt.unit); got != tt.want {
			t.Errorf("CategoryOf(%v) = %v, want %v", tt.unit, got, tt.want)
		}
	}
}

func TestCanonical(t *testing.T) {
	if got := Canonical(expr.UnitDegree); got != expr.UnitRadian {
		t.Errorf("Canonical(deg) = %v", got)
	}
	if got := Canonical(expr.UnitMillimeter); got != expr.UnitMeter {
		t.Errorf("Canonical(mm) = %v", got)
	}
	if got := Canonical(expr.UnitPercent); got != expr.UnitPercent {
		t.Errorf("Canonical(%%) = %v", got)
	}
}

func TestAngleRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 22.5, 75, 180, -90, 360} {
		if got := RadiansToDegrees(DegreesToRadians(deg)); !almostEqual(got, deg) {
			t.Errorf("round trip of %v gave %v", deg, got)
		}
	}
}

func TestToMeters(t *testing.T) {
	if _, ok := ToMeters(1, expr.UnitDegree); ok {
		t.Error("expected degrees to be rejected")
	}
	if m, ok := ToMeters(250, expr.UnitCentimeter); !ok || !almostEqual(m, 2.5) {
		t.Errorf("ToMeters(250cm) = %v, %v", m, ok)
	}
}
