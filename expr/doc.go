// Package expr parses CSS-like style strings into expression trees.
//
// The accepted grammar is a comma separated list of expressions, each a
// whitespace separated list of terms:
//
//   - identifiers: auto, window-scroll-y (case-sensitive)
//   - hex color literals: #abc, #aabbcc, #aabbccdd
//   - numbers with an optional unit: 1.5, 200cm, 75deg, 105%
//   - function calls with nested arguments: calc(1m + env(window-scroll-y))
//   - the operators + - * / as bare terms inside function arguments
//
// Parsing is tolerant. Content that cannot be understood is dropped and an
// empty or unparseable input yields an empty list, so a typo in an attribute
// never prevents rendering.
//
// # Usage
//
//	p := expr.NewParser(logger, expr.WithCacheSize(256))
//	exprs := p.Parse("0deg 75deg 105%")
//
//	expr.Walk(exprs, func(fn expr.FunctionNode) {
//	    // inspect calc()/env() calls
//	})
package expr
