package presets

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/multierr"

	"mvstyle/expr"
	"mvstyle/style"
)

// Declaration describes a property in configuration. Basis and keyword
// values are written in the expression syntax, e.g. basis "1m 90deg" and
// keyword auto "_ 200%". "_" and "none" mark a slot without substitute.
type Declaration struct {
	Name     string            `yaml:"name" validate:"required"`
	Basis    string            `yaml:"basis" validate:"required"`
	Default  string            `yaml:"default,omitempty"`
	Keywords map[string]string `yaml:"keywords"`
}

// FromDeclaration builds a preset from its declaration using p to read the
// value strings.
func FromDeclaration(p *expr.Parser, d Declaration) (Preset, error) {
	basisTerms, err := firstExpression(p, d.Basis)
	if err != nil {
		return Preset{}, fmt.Errorf("property %q basis: %w", d.Name, err)
	}
	basis := make([]expr.NumberNode, 0, len(basisTerms))
	for i, term := range basisTerms {
		n, ok := term.(expr.NumberNode)
		if !ok {
			return Preset{}, fmt.Errorf("property %q basis slot %d: %q is not a number", d.Name, i, term)
		}
		basis = append(basis, n)
	}

	keywords := make(map[string][]*expr.NumberNode, len(d.Keywords))
	// sorted so that errors are reported in a stable order
	for _, name := range slices.Sorted(maps.Keys(d.Keywords)) {
		terms, err := firstExpression(p, d.Keywords[name])
		if err != nil {
			return Preset{}, fmt.Errorf("property %q keyword %q: %w", d.Name, name, err)
		}
		slots := make([]*expr.NumberNode, 0, len(terms))
		for i, term := range terms {
			switch t := term.(type) {
			case expr.IdentNode:
				if t.Value != "_" && t.Value != "none" {
					return Preset{}, fmt.Errorf("property %q keyword %q slot %d: unexpected identifier %q", d.Name, name, i, t.Value)
				}
				slots = append(slots, nil)
			case expr.NumberNode:
				slots = append(slots, &t)
			default:
				return Preset{}, fmt.Errorf("property %q keyword %q slot %d: %q is not a number", d.Name, name, i, term)
			}
		}
		keywords[name] = slots
	}

	in, err := style.NewIntrinsics(basis, keywords)
	if err != nil {
		return Preset{}, fmt.Errorf("property %q: %w", d.Name, err)
	}
	return Preset{Name: d.Name, Default: d.Default, Intrinsics: static(in)}, nil
}

// FromDeclarations builds presets for every declaration, reporting all
// failures together.
func FromDeclarations(p *expr.Parser, decls []Declaration) ([]Preset, error) {
	var (
		presets []Preset
		errs    error
	)
	for _, d := range decls {
		preset, err := FromDeclaration(p, d)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		presets = append(presets, preset)
	}
	if errs != nil {
		return nil, errs
	}
	return presets, nil
}

func firstExpression(p *expr.Parser, value string) ([]expr.Node, error) {
	exprs := p.Parse(value)
	switch len(exprs) {
	case 0:
		return nil, fmt.Errorf("empty value %q", value)
	case 1:
		return exprs[0].Terms, nil
	}
	return nil, fmt.Errorf("value %q must be a single expression", value)
}
