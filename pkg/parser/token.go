package parser

import (
	"fmt"
	"strings"
)

// TokenKind classifies a lexer token.
type TokenKind int

// Token kinds produced by Lex.
const (
	TokenEOF      TokenKind = iota // end of input
	TokenKeyword                   // and, or, not, in, field keywords
	TokenOperator                  // =, !=, ~
	TokenIdent                     // unquoted identifier
	TokenQuoted                    // double-quoted string, raw text including quotes
	TokenNumber                    // integer or decimal literal
	TokenPunct                     // ( ) , : *
	TokenRange                     // ..
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:      "end of input",
	TokenKeyword:  "keyword",
	TokenOperator: "operator",
	TokenIdent:    "identifier",
	TokenQuoted:   "quoted string",
	TokenNumber:   "number",
	TokenPunct:    "punctuation",
	TokenRange:    "'..'",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Pos is a position in the filter text. Line and Column are 1-based,
// Column counts runes.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical unit of a filter.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Pos
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "<EOF>"
	}
	return "'" + t.Text + "'"
}

// is reports whether t is a keyword, operator or punctuation with the given text.
// Keywords compare case-insensitively.
func (t Token) is(text string) bool {
	switch t.Kind {
	case TokenKeyword:
		return strings.EqualFold(t.Text, text)
	case TokenOperator, TokenPunct, TokenRange:
		return t.Text == text
	}
	return false
}

// Reserved words. They cannot appear unquoted as a tag key or value.
const (
	KeywordAnd = "and"
	KeywordOr  = "or"
	KeywordNot = "not"
	KeywordIn  = "in"
)

// Field keywords introduce a field match when followed by ':'.
const (
	FieldType               = "type"
	FieldID                 = "id"
	FieldGeometry           = "geometry"
	FieldArea               = "area"
	FieldPerimeter          = "perimeter"
	FieldLength             = "length"
	FieldChangeset          = "changeset"
	FieldChangesetCreatedBy = "changeset.created_by"
	FieldHashtag            = "hashtag"
	FieldGeometryVertices   = "geometry.vertices"
	FieldGeometryOuters     = "geometry.outers"
	FieldGeometryInners     = "geometry.inners"
)

var reservedWords = map[string]bool{
	KeywordAnd: true,
	KeywordOr:  true,
	KeywordNot: true,
	KeywordIn:  true,
}

var fieldKeywords = map[string]bool{
	FieldType:               true,
	FieldID:                 true,
	FieldGeometry:           true,
	FieldArea:               true,
	FieldPerimeter:          true,
	FieldLength:             true,
	FieldChangeset:          true,
	FieldChangesetCreatedBy: true,
	FieldHashtag:            true,
	FieldGeometryVertices:   true,
	FieldGeometryOuters:     true,
	FieldGeometryInners:     true,
}

func isReserved(word string) bool {
	return reservedWords[strings.ToLower(word)]
}

func isFieldKeyword(word string) bool {
	return fieldKeywords[word]
}
