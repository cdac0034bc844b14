package parser

import (
	"unicode/utf8"
)

// lexer turns filter text into tokens. Identifiers are restricted to ASCII;
// anything else must be quoted.
type lexer struct {
	input string
	off   int
	line  int
	col   int
}

// Lex converts the filter text into tokens. The returned slice always ends
// with a TokenEOF token.
func Lex(input string) ([]Token, error) {
	l := &lexer{input: input, line: 1, col: 1}

	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) pos() Pos {
	return Pos{Offset: l.off, Line: l.line, Column: l.col}
}

// at returns the byte n positions ahead, or 0 past the end.
func (l *lexer) at(n int) byte {
	if l.off+n >= len(l.input) {
		return 0
	}
	return l.input[l.off+n]
}

// advance moves n bytes forward, keeping line and column in sync.
func (l *lexer) advance(n int) {
	end := l.off + n
	for l.off < end {
		r, size := utf8.DecodeRuneInString(l.input[l.off:])
		l.off += size
		if r == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
}

func (l *lexer) emit(kind TokenKind, start Pos, n int) Token {
	tok := Token{Kind: kind, Text: l.input[l.off : l.off+n], Pos: start}
	l.advance(n)
	return tok
}

func (l *lexer) next() (Token, error) {
	l.skipSpace()

	start := l.pos()
	if l.off >= len(l.input) {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}

	c := l.at(0)
	switch {
	case c == '(' || c == ')' || c == ',' || c == ':' || c == '*':
		return l.emit(TokenPunct, start, 1), nil
	case c == '=' || c == '~':
		return l.emit(TokenOperator, start, 1), nil
	case c == '!' && l.at(1) == '=':
		return l.emit(TokenOperator, start, 2), nil
	case c == '.' && l.at(1) == '.':
		return l.emit(TokenRange, start, 2), nil
	case c == '"':
		return l.lexQuoted(start)
	case isDigit(c):
		return l.lexNumber(start), nil
	case isIdentChar(c):
		return l.lexIdent(start, 0), nil
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.off:])
	return Token{}, &LexicalError{Pos: start, Text: string(r)}
}

func (l *lexer) skipSpace() {
	for l.off < len(l.input) {
		switch l.input[l.off] {
		case ' ', '\t', '\r', '\n':
			l.advance(1)
		default:
			return
		}
	}
}

// lexQuoted scans a double-quoted string. The token keeps the quotes and
// escapes; Unescape turns it into its value.
func (l *lexer) lexQuoted(start Pos) (Token, error) {
	n := 1
	for {
		if l.off+n >= len(l.input) {
			return Token{}, &LexicalError{
				Pos:  start,
				Text: l.input[l.off:],
				Msg:  "unterminated quoted string at: '" + l.input[l.off:] + "'",
			}
		}
		switch l.at(n) {
		case '"':
			return l.emit(TokenQuoted, start, n+1), nil
		case '\\':
			switch l.at(n + 1) {
			case '"', '\\', '\r', '\n':
				n += 2
			default:
				l.advance(n)
				return Token{}, &LexicalError{
					Pos:  l.pos(),
					Text: l.input[l.off:min(l.off+2, len(l.input))],
					Msg:  "invalid escape sequence at: '" + l.input[l.off:min(l.off+2, len(l.input))] + "'",
				}
			}
		case '\r', '\n':
			l.advance(n)
			return Token{}, &LexicalError{Pos: l.pos(), Text: l.input[l.off : l.off+1], Msg: "unescaped line break in quoted string"}
		default:
			n++
		}
	}
}

// lexNumber scans an integer or decimal with optional exponent. A number
// running straight into identifier characters is an identifier instead.
func (l *lexer) lexNumber(start Pos) Token {
	n := l.digits(0)
	if l.at(n) == '.' && isDigit(l.at(n+1)) {
		n = l.digits(n + 1)
	}
	if e := l.at(n); e == 'e' || e == 'E' {
		switch {
		case isDigit(l.at(n + 1)):
			n = l.digits(n + 1)
		case (l.at(n+1) == '+' || l.at(n+1) == '-') && isDigit(l.at(n+2)):
			n = l.digits(n + 2)
		}
	}
	if l.continuesIdent(n) {
		return l.lexIdent(start, n)
	}
	return l.emit(TokenNumber, start, n)
}

func (l *lexer) digits(n int) int {
	for isDigit(l.at(n)) {
		n++
	}
	return n
}

// lexIdent scans identifier characters starting n bytes ahead and classifies
// the result as keyword or identifier.
func (l *lexer) lexIdent(start Pos, n int) Token {
	for l.continuesIdent(n) {
		n++
	}
	tok := l.emit(TokenIdent, start, n)
	if isReserved(tok.Text) || isFieldKeyword(tok.Text) {
		tok.Kind = TokenKeyword
	}
	return tok
}

// continuesIdent reports whether the byte n ahead extends an identifier.
// A '.' that starts '..' does not.
func (l *lexer) continuesIdent(n int) bool {
	c := l.at(n)
	if c == '.' {
		return l.at(n+1) != '.'
	}
	return isIdentChar(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', isDigit(c):
		return true
	case c == '_', c == '-', c == '/', c == '.':
		return true
	}
	return false
}
