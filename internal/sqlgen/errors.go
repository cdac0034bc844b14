package sqlgen

import (
	"errors"
	"fmt"

	"github.com/GIScience/ohsome-filter-to-sql/pkg/parser"
)

// Sentinel errors for translation failures.
var (
	ErrRange          = errors.New("range lower bound exceeds upper bound")
	ErrNotImplemented = errors.New("filter rule not implemented")
)

// RangeError reports a range whose lower bound exceeds its upper bound.
type RangeError struct {
	Field string
	Pos   parser.Pos
	Lower any
	Upper any
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("line %s %s range lower bound %v exceeds upper bound %v", e.Pos, e.Field, e.Lower, e.Upper)
}

func (e *RangeError) Unwrap() error { return ErrRange }

// NotImplementedError reports a rule the grammar accepts but the translator
// has no SQL for.
type NotImplementedError struct {
	Rule string
	Pos  parser.Pos
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("line %s %s is not implemented", e.Pos, e.Rule)
}

func (e *NotImplementedError) Unwrap() error { return ErrNotImplemented }
