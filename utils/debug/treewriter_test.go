package debug

import (
	"math"
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "expression[0]", nil, "expression[0]\n"},
		{"depth 1", 1, "function: calc", nil, "  function: calc\n"},
		{"depth 2 formatted", 2, "number: %v", []any{1.5}, "    number: 1.5\n"},
		{"multiple args", 0, "%s(%d)", []any{"env", 1}, "env(1)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{"empty value", 0, "ident", "", "ident: \n"},
		{"plain value", 1, "ident", "auto", "  ident: \"auto\"\n"},
		{"value with quotes", 0, "raw", `a "b"`, "raw: \"a \\\"b\\\"\"\n"},
		{"value with newline", 0, "raw", "1m\n2m", "raw: \"1m\\n2m\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Values(t *testing.T) {
	tw := NewTreeWriter()
	tw.Values(1, "values", []float64{2, 1, math.Inf(1)})
	want := "  values: [2 1 +Inf]\n"
	if got := tw.String(); got != want {
		t.Errorf("Values() = %q, want %q", got, want)
	}
}

func TestTreeWriter_Tree(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "expression[0]")
	tw.Line(1, "function: calc")
	tw.Line(2, "argument[0]")
	tw.TextBlock(3, "ident", "window-scroll-y")

	want := "expression[0]\n  function: calc\n    argument[0]\n      ident: \"window-scroll-y\"\n"
	if got := tw.String(); got != want {
		t.Errorf("tree:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
