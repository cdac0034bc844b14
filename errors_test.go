package filtersql_test

import (
	"errors"
	"fmt"
	"testing"

	filtersql "github.com/GIScience/ohsome-filter-to-sql"
)

func TestErrorHelpers(t *testing.T) {
	t.Run("IsLexicalErr", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", filtersql.ErrLexical)
		if !filtersql.IsLexicalErr(err) {
			t.Error("IsLexicalErr should return true for wrapped ErrLexical")
		}
		if filtersql.IsLexicalErr(errors.New("other error")) {
			t.Error("IsLexicalErr should return false for other errors")
		}
	})

	t.Run("IsSyntaxErr", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &filtersql.SyntaxError{Msg: "boom"})
		if !filtersql.IsSyntaxErr(err) {
			t.Error("IsSyntaxErr should return true for a wrapped SyntaxError")
		}
		if filtersql.IsSyntaxErr(filtersql.ErrRange) {
			t.Error("IsSyntaxErr should return false for ErrRange")
		}
	})

	t.Run("IsRangeErr", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &filtersql.RangeError{Field: "id", Lower: 2, Upper: 1})
		if !filtersql.IsRangeErr(err) {
			t.Error("IsRangeErr should return true for a wrapped RangeError")
		}
		if filtersql.IsRangeErr(errors.New("other error")) {
			t.Error("IsRangeErr should return false for other errors")
		}
	})

	t.Run("IsNotImplementedErr", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &filtersql.NotImplementedError{Rule: "perimeter"})
		if !filtersql.IsNotImplementedErr(err) {
			t.Error("IsNotImplementedErr should return true for a wrapped NotImplementedError")
		}
		if filtersql.IsNotImplementedErr(errors.New("other error")) {
			t.Error("IsNotImplementedErr should return false for other errors")
		}
	})

	t.Run("IsInvalidFilterErr", func(t *testing.T) {
		if !filtersql.IsInvalidFilterErr(&filtersql.LexicalError{Text: "ü"}) {
			t.Error("IsInvalidFilterErr should return true for a LexicalError")
		}
		if filtersql.IsInvalidFilterErr(filtersql.ErrInvalidOption) {
			t.Error("IsInvalidFilterErr should return false for ErrInvalidOption")
		}
	})
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		err     error
		wantMsg string
	}{
		{filtersql.ErrLexical, "lexical error"},
		{filtersql.ErrSyntax, "syntax error"},
		{filtersql.ErrRange, "range lower bound exceeds upper bound"},
		{filtersql.ErrNotImplemented, "filter rule not implemented"},
		{filtersql.ErrInvalidOption, "filtersql: invalid option"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantMsg)
			}
		})
	}
}
