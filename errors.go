package filtersql

import (
	"errors"

	"github.com/GIScience/ohsome-filter-to-sql/internal/sqlgen"
	"github.com/GIScience/ohsome-filter-to-sql/pkg/parser"
)

// Error kinds returned by Translate and Parse. All of them carry the line
// and column of the offending input.
type (
	// LexicalError reports text that is not a token, such as an
	// unquoted non-ASCII character or an unterminated string.
	LexicalError = parser.LexicalError

	// SyntaxError reports tokens that do not form a filter.
	SyntaxError = parser.SyntaxError

	// RangeError reports a range whose lower bound exceeds its upper bound.
	RangeError = sqlgen.RangeError

	// NotImplementedError reports a rule the filter language knows but
	// that has no SQL translation, such as perimeter or geometry.vertices.
	NotImplementedError = sqlgen.NotImplementedError
)

// Sentinel errors wrapped by the error kinds above.
var (
	// ErrLexical is wrapped by every LexicalError.
	ErrLexical = parser.ErrLexical

	// ErrSyntax is wrapped by every SyntaxError.
	ErrSyntax = parser.ErrSyntax

	// ErrRange is wrapped by every RangeError.
	ErrRange = sqlgen.ErrRange

	// ErrNotImplemented is wrapped by every NotImplementedError.
	ErrNotImplemented = sqlgen.ErrNotImplemented

	// ErrInvalidOption is returned when an option value is out of range,
	// for example a negative parameter shift.
	ErrInvalidOption = errors.New("filtersql: invalid option")
)

// IsLexicalErr returns true if err is or wraps ErrLexical.
func IsLexicalErr(err error) bool {
	return errors.Is(err, ErrLexical)
}

// IsSyntaxErr returns true if err is or wraps ErrSyntax.
func IsSyntaxErr(err error) bool {
	return errors.Is(err, ErrSyntax)
}

// IsRangeErr returns true if err is or wraps ErrRange.
func IsRangeErr(err error) bool {
	return errors.Is(err, ErrRange)
}

// IsNotImplementedErr returns true if err is or wraps ErrNotImplemented.
func IsNotImplementedErr(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}

// IsInvalidFilterErr returns true if err means the filter itself was
// rejected, as opposed to a misconfigured call. Hosting APIs map these to a
// client error.
func IsInvalidFilterErr(err error) bool {
	return IsLexicalErr(err) || IsSyntaxErr(err) || IsRangeErr(err) || IsNotImplementedErr(err)
}
