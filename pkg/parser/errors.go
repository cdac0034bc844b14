package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrLexical is wrapped by every LexicalError.
	ErrLexical = errors.New("lexical error")

	// ErrSyntax is wrapped by every SyntaxError.
	ErrSyntax = errors.New("syntax error")
)

// LexicalError reports input text that matches no token.
type LexicalError struct {
	Pos  Pos
	Text string // offending text
	Msg  string // optional detail
}

func (e *LexicalError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "token recognition error at: '" + e.Text + "'"
	}
	return fmt.Sprintf("line %d:%d %s", e.Pos.Line, e.Pos.Column, msg)
}

func (e *LexicalError) Unwrap() error { return ErrLexical }

// SyntaxError reports a token stream that does not match the grammar.
type SyntaxError struct {
	Pos      Pos
	Found    string // offending token, quoted, or <EOF>
	Expected string // description of the expected construct
	Msg      string // overrides the found/expected message when set
}

func (e *SyntaxError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("line %d:%d %s", e.Pos.Line, e.Pos.Column, e.Msg)
	}
	return fmt.Sprintf("line %d:%d unexpected %s, expecting %s", e.Pos.Line, e.Pos.Column, e.Found, e.Expected)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }
