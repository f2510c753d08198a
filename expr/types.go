package expr

import (
	"strconv"
	"strings"
)

// Unit is the unit attached to a number term.
type Unit int

const (
	UnitNone       Unit = iota // plain number
	UnitMeter                  // m
	UnitCentimeter             // cm
	UnitMillimeter             // mm
	UnitRadian                 // rad
	UnitDegree                 // deg
	UnitPercent                // %
	UnitInvalid                // dimension with unrecognized suffix
)

var unitNames = map[Unit]string{
	UnitNone:       "",
	UnitMeter:      "m",
	UnitCentimeter: "cm",
	UnitMillimeter: "mm",
	UnitRadian:     "rad",
	UnitDegree:     "deg",
	UnitPercent:    "%",
}

// String returns the CSS suffix of the unit.
func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return "?"
}

// ParseUnit maps a unit suffix to Unit. Suffixes are matched ASCII
// case-insensitively, unknown suffixes yield UnitInvalid.
func ParseUnit(s string) Unit {
	switch strings.ToLower(s) {
	case "":
		return UnitNone
	case "m":
		return UnitMeter
	case "cm":
		return UnitCentimeter
	case "mm":
		return UnitMillimeter
	case "rad":
		return UnitRadian
	case "deg":
		return UnitDegree
	case "%":
		return UnitPercent
	default:
		return UnitInvalid
	}
}

// Operator is one of the four arithmetic operators allowed in function
// arguments.
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
)

func (o Operator) String() string {
	return string(rune(o))
}

// Multiplicative reports whether the operator binds tighter than + and -.
func (o Operator) Multiplicative() bool {
	return o == OpMul || o == OpDiv
}

// Node is a single parsed term. The set of implementations is closed:
// IdentNode, HexNode, NumberNode, OperatorNode, FunctionNode and
// ExpressionNode.
type Node interface {
	String() string
	node()
}

// IdentNode is a bare word such as "auto" or "window-scroll-y".
type IdentNode struct {
	Value string
}

// HexNode is a hex color literal, Value includes the leading '#'.
type HexNode struct {
	Value string
}

// NumberNode is a number with an optional unit.
type NumberNode struct {
	Value float64
	Unit  Unit
}

// OperatorNode is an arithmetic operator appearing as a term.
type OperatorNode struct {
	Value Operator
}

// FunctionNode is a call like calc(...) or env(...).
type FunctionNode struct {
	Name      IdentNode
	Arguments []ExpressionNode
}

// ExpressionNode is one comma delimited segment: an ordered list of terms.
type ExpressionNode struct {
	Terms []Node
}

func (IdentNode) node()      {}
func (HexNode) node()        {}
func (NumberNode) node()     {}
func (OperatorNode) node()   {}
func (FunctionNode) node()   {}
func (ExpressionNode) node() {}

// Number is a shorthand constructor for NumberNode.
func Number(value float64, unit Unit) NumberNode {
	return NumberNode{Value: value, Unit: unit}
}

// Ident is a shorthand constructor for IdentNode.
func Ident(value string) IdentNode {
	return IdentNode{Value: value}
}

func (n IdentNode) String() string    { return n.Value }
func (n HexNode) String() string      { return n.Value }
func (n OperatorNode) String() string { return n.Value.String() }

func (n NumberNode) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64) + n.Unit.String()
}

func (n FunctionNode) String() string {
	var sb strings.Builder
	sb.WriteString(n.Name.Value)
	sb.WriteByte('(')
	for i, arg := range n.Arguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (n ExpressionNode) String() string {
	parts := make([]string, 0, len(n.Terms))
	for _, t := range n.Terms {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " ")
}

// Serialize renders a parsed list back to its canonical comma separated form.
func Serialize(exprs []ExpressionNode) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
