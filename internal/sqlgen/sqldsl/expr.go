package sqldsl

import (
	"strconv"
	"strings"
)

// Expr is the interface that all SQL expression types implement.
type Expr interface {
	SQL() string
}

// Placeholder is a positional bind parameter ($1, $2, ...).
type Placeholder int

// SQL renders the placeholder.
func (p Placeholder) SQL() string {
	return "$" + strconv.Itoa(int(p))
}

// Col represents a table column reference (e.g., c.osm_id).
type Col struct {
	Table  string
	Column string
}

// SQL renders the column reference.
func (c Col) SQL() string {
	if c.Table == "" {
		return c.Column
	}
	return c.Table + "." + c.Column
}

// Field selects a field of a composite-typed column: (col).field.
type Field struct {
	Composite string
	Name      string
}

// SQL renders the field selection.
func (f Field) SQL() string {
	return "(" + f.Composite + ")." + f.Name
}

// Lit represents a literal string value (auto-quoted with single quotes).
type Lit string

// SQL renders the literal with single quotes.
func (l Lit) SQL() string {
	// Escape single quotes by doubling them
	escaped := strings.ReplaceAll(string(l), "'", "''")
	return "'" + escaped + "'"
}

// Raw is an escape hatch for arbitrary SQL expressions.
type Raw string

// SQL renders the raw SQL as-is.
func (r Raw) SQL() string {
	return string(r)
}

// Paren wraps an expression in parentheses.
type Paren struct {
	Expr Expr
}

// SQL renders the parenthesized expression.
func (p Paren) SQL() string {
	return "(" + p.Expr.SQL() + ")"
}

// Func represents a SQL function call.
type Func struct {
	Name string
	Args []Expr
}

// SQL renders the function call.
func (f Func) SQL() string {
	args := make([]string, len(f.Args))
	for i, arg := range f.Args {
		args[i] = arg.SQL()
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}
