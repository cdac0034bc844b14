// Package parser provides lexing and parsing of ohsome filter expressions.
//
// A filter is a boolean expression over OSM feature attributes:
//
//	natural=tree and (type:node or geometry:point)
//
// Parse turns filter text into a syntax tree rooted at an Expr. Operator
// precedence from high to low is 'not', 'and', 'or'; parentheses group.
// Every leaf of the tree is a match rule (tag, id, type, geometry, range,
// changeset or hashtag match) that stands for one boolean condition.
//
// # Basic Usage
//
//	expr, err := parser.Parse(`highway in (residential, living_street)`)
//	if err != nil {
//	    // *LexicalError or *SyntaxError, both carrying line and column
//	}
//	fmt.Println(parser.Print(expr))
//
// Parsing is all-or-nothing: there is no error recovery and no partial tree.
package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultMaxDepth bounds nesting of parentheses and 'not'.
const DefaultMaxDepth = 256

// Option configures Parse.
type Option func(*options)

type options struct {
	maxDepth int
}

// WithMaxDepth sets the maximum nesting depth of parentheses and 'not'
// operators. Values below 1 fall back to DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// Parse lexes and parses filter text into a syntax tree.
func Parse(input string, opts ...Option) (Expr, error) {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}

	tokens, err := Lex(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, maxDepth: o.maxDepth}
	return p.parseRoot()
}

type parser struct {
	tokens   []Token
	cur      int
	depth    int
	maxDepth int
}

// =============================================================================
// Token helpers
// =============================================================================

// peek returns the token n positions ahead; the EOF token repeats forever.
func (p *parser) peek(n int) Token {
	if i := p.cur + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) next() Token {
	tok := p.peek(0)
	if p.cur < len(p.tokens)-1 {
		p.cur++
	}
	return tok
}

// accept consumes the current token if it matches text.
func (p *parser) accept(text string) bool {
	if p.peek(0).is(text) {
		p.next()
		return true
	}
	return false
}

// expect consumes a token matching text or fails with a SyntaxError.
func (p *parser) expect(text, expected string) error {
	if !p.accept(text) {
		return p.unexpected(expected)
	}
	return nil
}

func (p *parser) unexpected(expected string) error {
	tok := p.peek(0)
	return &SyntaxError{Pos: tok.Pos, Found: tok.String(), Expected: expected}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return &SyntaxError{
			Pos: p.peek(0).Pos,
			Msg: fmt.Sprintf("maximum nesting depth of %d exceeded", p.maxDepth),
		}
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

// =============================================================================
// Expressions
// =============================================================================

func (p *parser) parseRoot() (Expr, error) {
	x, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek(0).Kind != TokenEOF {
		return nil, p.unexpected("'and', 'or' or end of input")
	}
	return x, nil
}

func (p *parser) parseOr() (Expr, error) {
	x, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek(0).is(KeywordOr) {
		op := p.next()
		y, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{X: x, Op: OpOr, OpPos: op.Pos, Y: y}
	}
	return x, nil
}

func (p *parser) parseAnd() (Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek(0).is(KeywordAnd) {
		op := p.next()
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{X: x, Op: OpAnd, OpPos: op.Pos, Y: y}
	}
	return x, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if !p.peek(0).is(KeywordNot) {
		return p.parsePrimary()
	}
	not := p.next()
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &NotExpr{NotPos: not.Pos, X: x}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	if !p.peek(0).is("(") {
		return p.parseMatch()
	}
	lparen := p.next()
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	x, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")", "')'"); err != nil {
		return nil, err
	}
	return &ParenExpr{Lparen: lparen.Pos, X: x}, nil
}

// =============================================================================
// Match rules
// =============================================================================

func (p *parser) parseMatch() (Expr, error) {
	tok := p.peek(0)
	if tok.Kind == TokenKeyword && isFieldKeyword(tok.Text) && p.peek(1).is(":") {
		p.next()
		p.next()
		return p.parseFieldMatch(tok)
	}
	return p.parseTagMatch()
}

func (p *parser) parseFieldMatch(field Token) (Expr, error) {
	start := field.Pos
	switch field.Text {
	case FieldType:
		t, err := p.parseWord("node, way or relation", TypeNode, TypeWay, TypeRelation)
		if err != nil {
			return nil, err
		}
		return &TypeMatch{Start: start, Type: t}, nil
	case FieldID:
		return p.parseIDMatch(start)
	case FieldGeometry:
		k, err := p.parseWord("point, line, polygon or other",
			GeometryPoint, GeometryLine, GeometryPolygon, GeometryOther)
		if err != nil {
			return nil, err
		}
		return &GeometryMatch{Start: start, Kind: k}, nil
	case FieldArea:
		r, err := p.parseFloatRange()
		if err != nil {
			return nil, err
		}
		return &AreaRangeMatch{Start: start, Range: r}, nil
	case FieldPerimeter:
		r, err := p.parseFloatRange()
		if err != nil {
			return nil, err
		}
		return &PerimeterRangeMatch{Start: start, Range: r}, nil
	case FieldLength:
		r, err := p.parseFloatRange()
		if err != nil {
			return nil, err
		}
		return &LengthRangeMatch{Start: start, Range: r}, nil
	case FieldGeometryVertices:
		if err := p.expect("(", "'('"); err != nil {
			return nil, err
		}
		r, err := parseRangeBody(p, p.parseInt)
		if err != nil {
			return nil, err
		}
		return &GeometryVerticesRangeMatch{Start: start, Range: r}, nil
	case FieldGeometryOuters, FieldGeometryInners:
		return p.parseRingMatch(start, field.Text == FieldGeometryOuters)
	case FieldChangeset:
		return p.parseChangesetMatch(start)
	case FieldChangesetCreatedBy:
		editor, err := p.parseString("editor name")
		if err != nil {
			return nil, err
		}
		return &ChangesetCreatedByMatch{Start: start, Editor: editor}, nil
	case FieldHashtag:
		return p.parseHashtagMatch(start)
	}
	return nil, &SyntaxError{Pos: start, Msg: "unknown field " + field.String()}
}

func (p *parser) parseTagMatch() (Expr, error) {
	key, err := p.parseString("tag key")
	if err != nil {
		return nil, err
	}

	switch op := p.peek(0); {
	case op.is("="):
		p.next()
		if p.accept("*") {
			return &TagWildcardMatch{Key: key}, nil
		}
		value, err := p.parseString("tag value or '*'")
		if err != nil {
			return nil, err
		}
		return &TagMatch{Key: key, Value: value}, nil

	case op.is("!="):
		p.next()
		if p.accept("*") {
			return &TagNotWildcardMatch{Key: key}, nil
		}
		value, err := p.parseString("tag value or '*'")
		if err != nil {
			return nil, err
		}
		return &TagNotMatch{Key: key, Value: value}, nil

	case op.is("~"):
		p.next()
		m := &TagValuePatternMatch{Key: key, Leading: p.accept("*")}
		if m.Value, err = p.parseString("pattern value"); err != nil {
			return nil, err
		}
		m.Trailing = p.accept("*")
		return m, nil

	case op.is(KeywordIn):
		p.next()
		values, err := p.parseStringList()
		if err != nil {
			return nil, err
		}
		return &TagListMatch{Key: key, Values: values}, nil
	}

	return nil, p.unexpected("'=', '!=', '~' or 'in'")
}

func (p *parser) parseIDMatch(start Pos) (Expr, error) {
	tok := p.peek(0)
	switch {
	case tok.Kind == TokenNumber:
		id, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		return &IDMatch{Start: start, ID: id}, nil

	case tok.Kind == TokenIdent:
		tid, err := p.parseTypeID()
		if err != nil {
			return nil, err
		}
		return &TypeIDMatch{Start: start, TypeID: tid}, nil

	case tok.is("("):
		p.next()
		if p.rangeAhead() {
			r, err := parseRangeBody(p, p.parseInt)
			if err != nil {
				return nil, err
			}
			return &IDRangeMatch{Start: start, Range: r}, nil
		}
		if p.peek(0).Kind == TokenIdent {
			tids, err := parseList(p, p.parseTypeID)
			if err != nil {
				return nil, err
			}
			return &TypeIDListMatch{Start: start, TypeIDs: tids}, nil
		}
		ids, err := parseList(p, p.parseInt)
		if err != nil {
			return nil, err
		}
		return &IDListMatch{Start: start, IDs: ids}, nil
	}

	return nil, p.unexpected("id, type/id, range or list")
}

func (p *parser) parseChangesetMatch(start Pos) (Expr, error) {
	if !p.accept("(") {
		id, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		return &ChangesetMatch{Start: start, ID: id}, nil
	}
	if p.rangeAhead() {
		r, err := parseRangeBody(p, p.parseInt)
		if err != nil {
			return nil, err
		}
		return &ChangesetRangeMatch{Start: start, Range: r}, nil
	}
	ids, err := parseList(p, p.parseInt)
	if err != nil {
		return nil, err
	}
	return &ChangesetListMatch{Start: start, IDs: ids}, nil
}

func (p *parser) parseRingMatch(start Pos, outers bool) (Expr, error) {
	if !p.accept("(") {
		n, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		if outers {
			return &GeometryOutersMatch{Start: start, Count: n}, nil
		}
		return &GeometryInnersMatch{Start: start, Count: n}, nil
	}
	r, err := parseRangeBody(p, p.parseInt)
	if err != nil {
		return nil, err
	}
	if outers {
		return &GeometryOutersRangeMatch{Start: start, Range: r}, nil
	}
	return &GeometryInnersRangeMatch{Start: start, Range: r}, nil
}

func (p *parser) parseHashtagMatch(start Pos) (Expr, error) {
	switch {
	case p.accept("*"):
		return &HashtagWildcardMatch{Start: start}, nil
	case p.peek(0).is("("):
		tags, err := p.parseStringList()
		if err != nil {
			return nil, err
		}
		return &HashtagListMatch{Start: start, Hashtags: tags}, nil
	}
	tag, err := p.parseString("hashtag")
	if err != nil {
		return nil, err
	}
	return &HashtagMatch{Start: start, Hashtag: tag}, nil
}

// =============================================================================
// Values, lists and ranges
// =============================================================================

// isAtom reports whether tok can be part of an unquoted string.
func isAtom(tok Token) bool {
	switch tok.Kind {
	case TokenIdent, TokenNumber:
		return true
	case TokenKeyword:
		return isFieldKeyword(tok.Text)
	}
	return false
}

// parseString parses a quoted string, or an unquoted one made of atoms
// joined by ':' (whitespace between them is dropped).
func (p *parser) parseString(expected string) (*StringLit, error) {
	tok := p.peek(0)
	if tok.Kind == TokenQuoted {
		p.next()
		value, err := Unescape(tok.Text)
		if err != nil {
			return nil, &LexicalError{Pos: tok.Pos, Text: tok.Text, Msg: err.Error()}
		}
		return &StringLit{ValuePos: tok.Pos, Raw: tok.Text, Value: value, Quoted: true}, nil
	}
	if !isAtom(tok) {
		return nil, p.unexpected(expected)
	}

	var sb strings.Builder
	sb.WriteString(p.next().Text)
	for p.peek(0).is(":") {
		sb.WriteString(p.next().Text)
		if isAtom(p.peek(0)) {
			sb.WriteString(p.next().Text)
		}
	}
	s := sb.String()
	return &StringLit{ValuePos: tok.Pos, Raw: s, Value: s}, nil
}

func (p *parser) parseStringList() ([]*StringLit, error) {
	if err := p.expect("(", "'('"); err != nil {
		return nil, err
	}
	return parseList(p, func() (*StringLit, error) { return p.parseString("string") })
}

// parseWord consumes an identifier that must be one of allowed.
func (p *parser) parseWord(expected string, allowed ...string) (string, error) {
	tok := p.peek(0)
	if tok.Kind == TokenIdent {
		for _, a := range allowed {
			if tok.Text == a {
				p.next()
				return a, nil
			}
		}
	}
	return "", p.unexpected(expected)
}

func (p *parser) parseInt() (int64, error) {
	tok := p.peek(0)
	if tok.Kind != TokenNumber {
		return 0, p.unexpected("integer")
	}
	n, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		return 0, p.unexpected("integer")
	}
	p.next()
	return n, nil
}

func (p *parser) parseFloat() (float64, error) {
	tok := p.peek(0)
	if tok.Kind != TokenNumber {
		return 0, p.unexpected("non-negative number")
	}
	f, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return 0, p.unexpected("non-negative number")
	}
	p.next()
	return f, nil
}

// parseTypeID parses node/N, way/N or relation/N written as one token.
func (p *parser) parseTypeID() (TypeID, error) {
	tok := p.peek(0)
	if tok.Kind == TokenIdent {
		typ, num, ok := strings.Cut(tok.Text, "/")
		if ok && (typ == TypeNode || typ == TypeWay || typ == TypeRelation) && isAllDigits(num) {
			if id, err := strconv.ParseInt(num, 10, 64); err == nil {
				p.next()
				return TypeID{Type: typ, ID: id}, nil
			}
		}
	}
	return TypeID{}, p.unexpected("type/id such as node/42")
}

func (p *parser) parseFloatRange() (Range[float64], error) {
	if err := p.expect("(", "'('"); err != nil {
		return Range[float64]{}, err
	}
	return parseRangeBody(p, p.parseFloat)
}

// rangeAhead reports whether the tokens after '(' form a range.
func (p *parser) rangeAhead() bool {
	return p.peek(0).Kind == TokenRange || p.peek(1).Kind == TokenRange
}

// parseRangeBody parses "lo..hi)" after the opening parenthesis. Either
// bound may be omitted, not both.
func parseRangeBody[T int64 | float64](p *parser, bound func() (T, error)) (Range[T], error) {
	var r Range[T]
	if p.peek(0).Kind != TokenRange {
		lo, err := bound()
		if err != nil {
			return r, err
		}
		r.Lower = &lo
	}
	if err := p.expect("..", "'..'"); err != nil {
		return r, err
	}
	if !p.peek(0).is(")") {
		hi, err := bound()
		if err != nil {
			return r, err
		}
		r.Upper = &hi
	}
	if r.Lower == nil && r.Upper == nil {
		return r, &SyntaxError{Pos: p.peek(0).Pos, Msg: "range needs a lower or an upper bound"}
	}
	if err := p.expect(")", "')'"); err != nil {
		return r, err
	}
	return r, nil
}

// parseList parses "v1, v2, ...)" after the opening parenthesis. The list
// must not be empty and must not end with a comma.
func parseList[T any](p *parser, item func() (T, error)) ([]T, error) {
	var items []T
	for {
		v, err := item()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		if !p.accept(",") {
			break
		}
	}
	if err := p.expect(")", "',' or ')'"); err != nil {
		return nil, err
	}
	return items, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
