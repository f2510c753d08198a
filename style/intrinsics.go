package style

import (
	"fmt"

	"mvstyle/expr"
	"mvstyle/units"
)

// KeywordAuto is the keyword every Intrinsics must define.
const KeywordAuto = "auto"

// Intrinsics describes how an N-term expression maps onto a fixed tuple.
// Basis holds one canonical unit and fallback value per slot. Keywords maps
// a keyword name to per-slot substitutes, a nil entry meaning "no
// substitute" for that slot.
type Intrinsics struct {
	Basis    []expr.NumberNode
	Keywords map[string][]*expr.NumberNode
}

// NewIntrinsics validates and normalizes an intrinsics description. Basis
// values are converted to canonical units (radians, meters). Keyword lists
// must be as long as the basis and "auto" must be present.
func NewIntrinsics(basis []expr.NumberNode, keywords map[string][]*expr.NumberNode) (Intrinsics, error) {
	if _, ok := keywords[KeywordAuto]; !ok {
		return Intrinsics{}, fmt.Errorf("intrinsics must define keyword %q", KeywordAuto)
	}
	in := Intrinsics{
		Basis:    make([]expr.NumberNode, len(basis)),
		Keywords: make(map[string][]*expr.NumberNode, len(keywords)),
	}
	for i, b := range basis {
		switch b.Unit {
		case expr.UnitPercent, expr.UnitInvalid:
			return Intrinsics{}, fmt.Errorf("basis slot %d: unit %q cannot be a basis", i, b.Unit)
		}
		in.Basis[i] = units.Normalize(b, b)
	}
	for name, slots := range keywords {
		if len(slots) != len(basis) {
			return Intrinsics{}, fmt.Errorf("keyword %q has %d slots, basis has %d", name, len(slots), len(basis))
		}
		in.Keywords[name] = append([]*expr.NumberNode(nil), slots...)
	}
	return in, nil
}

// MustIntrinsics is NewIntrinsics for descriptions known to be valid.
func MustIntrinsics(basis []expr.NumberNode, keywords map[string][]*expr.NumberNode) Intrinsics {
	in, err := NewIntrinsics(basis, keywords)
	if err != nil {
		panic(err)
	}
	return in
}

// Slot is a helper for building keyword lists.
func Slot(value float64, unit expr.Unit) *expr.NumberNode {
	n := expr.Number(value, unit)
	return &n
}

// Len returns the arity of the tuple described.
func (in Intrinsics) Len() int {
	return len(in.Basis)
}

func (in Intrinsics) keywordSlot(name string, i int) (*expr.NumberNode, bool) {
	slots, ok := in.Keywords[name]
	if !ok {
		return nil, false
	}
	if i >= len(slots) {
		return nil, true
	}
	return slots[i], true
}

// ApplyIntrinsics reconciles evaluated terms with the intrinsics. evaluated
// may be shorter than the basis and may contain identifiers (keywords) or
// nil entries; the result always has exactly one number per basis slot, in
// the basis unit.
func ApplyIntrinsics(evaluated []expr.Node, in Intrinsics) []expr.NumberNode {
	out := make([]expr.NumberNode, len(in.Basis))

	for i, basis := range in.Basis {
		autoSubstitute := basis
		if auto, _ := in.keywordSlot(KeywordAuto, i); auto != nil {
			autoSubstitute = *auto
		}

		var node expr.Node = autoSubstitute
		if i < len(evaluated) && evaluated[i] != nil {
			node = evaluated[i]
		}

		if ident, ok := node.(expr.IdentNode); ok {
			if substitute, known := in.keywordSlot(ident.Value, i); known {
				node = nil
				if substitute != nil {
					node = *substitute
				}
			}
		}

		number, ok := node.(expr.NumberNode)
		if !ok {
			number = autoSubstitute
		}

		if number.Unit == expr.UnitPercent {
			out[i] = expr.Number(number.Value/100*basis.Value, basis.Unit)
			continue
		}

		number = units.Normalize(number, basis)
		if number.Unit != basis.Unit {
			out[i] = basis
			continue
		}
		out[i] = number
	}
	return out
}
