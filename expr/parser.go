package expr

import (
	"errors"
	"io"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// MaxParseIterations bounds the number of tokens a single Parse call will
// consume. Anything beyond it is dropped.
const MaxParseIterations = 1000

// Parser turns style strings into expression lists. It never fails: anything
// it cannot make sense of is dropped.
type Parser struct {
	log   *zap.Logger
	cache *Cache
}

// ParserOptions holds optional Parser settings.
type ParserOptions struct {
	cacheSize int
}

// WithCacheSize enables memoization of up to size distinct inputs.
func WithCacheSize(size int) func(*ParserOptions) {
	return func(opts *ParserOptions) {
		opts.cacheSize = size
	}
}

// NewParser creates a new expression parser.
func NewParser(log *zap.Logger, options ...func(*ParserOptions)) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	opts := &ParserOptions{}
	for _, setOpt := range options {
		setOpt(opts)
	}
	p := &Parser{log: log.Named("expr-parser")}
	if opts.cacheSize > 0 {
		p.cache = NewCache(opts.cacheSize)
	}
	return p
}

var defaultParser = NewParser(nil)

// ParseExpressions parses input with a silent, uncached parser.
func ParseExpressions(input string) []ExpressionNode {
	return defaultParser.Parse(input)
}

// Parse parses a comma separated list of whitespace separated terms. Each
// non-empty segment produces one ExpressionNode. Returned slices may be
// shared with other callers when caching is enabled and must not be modified.
func (p *Parser) Parse(input string) []ExpressionNode {
	if p.cache != nil {
		if exprs, ok := p.cache.Get(input); ok {
			return exprs
		}
	}

	s := newScanner(input)
	var (
		result  []ExpressionNode
		current ExpressionNode
	)
	flush := func() {
		if len(current.Terms) > 0 {
			result = append(result, current)
		}
		current = ExpressionNode{}
	}

loop:
	for {
		tt, data := s.next()
		switch tt {
		case css.ErrorToken:
			if err := s.err(); err != nil {
				p.log.Debug("Stopped parsing", zap.String("input", input), zap.Error(err))
			}
			break loop
		case css.CommaToken:
			flush()
		default:
			term, ok := p.parseTerm(s, tt, data, false)
			if !ok {
				p.log.Debug("Dropping unparseable trailing content",
					zap.String("input", input), zap.String("at", string(data)))
				break loop
			}
			current.Terms = append(current.Terms, term)
		}
	}
	flush()

	if p.cache != nil {
		p.cache.Put(input, result)
	}
	return result
}

// parseTerm converts the token just read into a term. Operators are only
// accepted inside function argument lists.
func (p *Parser) parseTerm(s *scanner, tt css.TokenType, data []byte, inFunction bool) (Node, bool) {
	switch tt {
	case css.IdentToken:
		return IdentNode{Value: string(data)}, true
	case css.HashToken:
		if !isHexColor(data) {
			return nil, false
		}
		return HexNode{Value: string(data)}, true
	case css.NumberToken:
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return nil, false
		}
		return NumberNode{Value: v}, true
	case css.PercentageToken:
		v, err := strconv.ParseFloat(strings.TrimSuffix(string(data), "%"), 64)
		if err != nil {
			return nil, false
		}
		return NumberNode{Value: v, Unit: UnitPercent}, true
	case css.DimensionToken:
		return parseDimension(string(data))
	case css.FunctionToken:
		name := strings.TrimSuffix(string(data), "(")
		return p.parseFunction(s, name), true
	case css.DelimToken:
		if inFunction && len(data) == 1 {
			switch op := Operator(data[0]); op {
			case OpAdd, OpSub, OpMul, OpDiv:
				return OperatorNode{Value: op}, true
			}
		}
	}
	return nil, false
}

// parseFunction consumes arguments up to the matching closing parenthesis.
// Reaching the end of input closes the function.
func (p *Parser) parseFunction(s *scanner, name string) FunctionNode {
	fn := FunctionNode{Name: IdentNode{Value: name}}
	var current ExpressionNode
	flush := func() {
		if len(current.Terms) > 0 {
			fn.Arguments = append(fn.Arguments, current)
		}
		current = ExpressionNode{}
	}

	for {
		tt, data := s.next()
		switch tt {
		case css.ErrorToken, css.RightParenthesisToken:
			flush()
			return fn
		case css.CommaToken:
			flush()
		case css.LeftParenthesisToken, css.LeftBracketToken, css.LeftBraceToken:
			p.log.Debug("Skipping unsupported block in function arguments", zap.String("function", name))
			s.skipBlock()
		default:
			term, ok := p.parseTerm(s, tt, data, true)
			if !ok {
				p.log.Debug("Skipping unparseable function argument",
					zap.String("function", name), zap.String("token", string(data)))
				continue
			}
			current.Terms = append(current.Terms, term)
		}
	}
}

// parseDimension splits a dimension token such as "200cm" or "-1.5e2deg"
// into its number and unit.
func parseDimension(s string) (Node, bool) {
	end := numberPrefixLen(s)
	if end == 0 {
		return nil, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return nil, false
	}
	return NumberNode{Value: v, Unit: ParseUnit(s[end:])}, true
}

// numberPrefixLen returns the length of the CSS number at the start of s.
func numberPrefixLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	// exponent only when followed by digits, so "1em" keeps its unit
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexColor(data []byte) bool {
	if len(data) == 0 || data[0] != '#' {
		return false
	}
	digits := data[1:]
	switch len(digits) {
	case 3, 6, 8:
	default:
		return false
	}
	for _, c := range digits {
		if !isDigit(c) && !('a' <= c && c <= 'f') && !('A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// scanner wraps the CSS lexer, skipping whitespace and comments and
// enforcing MaxParseIterations.
type scanner struct {
	lexer      *css.Lexer
	iterations int
	exhausted  bool
}

var errTooManyIterations = errors.New("parse iteration limit reached")

func newScanner(input string) *scanner {
	return &scanner{lexer: css.NewLexer(parse.NewInputString(input))}
}

func (s *scanner) next() (css.TokenType, []byte) {
	for {
		if s.iterations >= MaxParseIterations {
			s.exhausted = true
			return css.ErrorToken, nil
		}
		s.iterations++
		tt, data := s.lexer.Next()
		switch tt {
		case css.WhitespaceToken, css.CommentToken:
			continue
		}
		return tt, data
	}
}

// err returns the reason the token stream ended, nil for a clean end of
// input.
func (s *scanner) err() error {
	if s.exhausted {
		return errTooManyIterations
	}
	if err := s.lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// skipBlock consumes tokens up to and including the close of the block whose
// opening token was just read.
func (s *scanner) skipBlock() {
	depth := 1
	for depth > 0 {
		tt, _ := s.next()
		switch tt {
		case css.ErrorToken:
			return
		case css.LeftParenthesisToken, css.LeftBracketToken, css.LeftBraceToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
			depth--
		}
	}
}
