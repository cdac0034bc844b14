package sqldsl

import (
	"fmt"
	"strings"
)

// Sqlf formats SQL with automatic dedenting and blank line removal.
// The SQL shape is visible in the format string.
func Sqlf(format string, args ...any) string {
	s := fmt.Sprintf(format, args...)
	lines := strings.Split(s, "\n")

	// Find minimum indentation (ignoring empty lines)
	minIndent := 1000
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if indent < minIndent {
			minIndent = indent
		}
	}

	// Remove common indent and empty lines
	var result []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) >= minIndent {
			result = append(result, line[minIndent:])
		} else {
			result = append(result, strings.TrimLeft(line, " \t"))
		}
	}

	return strings.Join(result, "\n")
}

// SelectStmt represents a SELECT query over a single table.
type SelectStmt struct {
	Columns []Expr
	From    string
	Alias   string
	Where   Expr
	Limit   int
}

// SQL renders the SELECT statement.
func (s SelectStmt) SQL() string {
	return Sqlf(`
		SELECT %s
		%s
		%s
		%s`,
		s.columnsSQL(),
		s.fromSQL(),
		s.whereSQL(),
		s.limitSQL(),
	)
}

func (s SelectStmt) columnsSQL() string {
	if len(s.Columns) == 0 {
		return "1"
	}
	parts := make([]string, len(s.Columns))
	for i, e := range s.Columns {
		parts[i] = e.SQL()
	}
	return strings.Join(parts, ", ")
}

func (s SelectStmt) fromSQL() string {
	if s.From == "" {
		return ""
	}
	if s.Alias != "" {
		return "FROM " + s.From + " AS " + s.Alias
	}
	return "FROM " + s.From
}

func (s SelectStmt) whereSQL() string {
	if s.Where == nil {
		return ""
	}
	return "WHERE " + s.Where.SQL()
}

func (s SelectStmt) limitSQL() string {
	if s.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf("LIMIT %d", s.Limit)
}

// Explain wraps a statement in EXPLAIN so the server plans it without
// running it.
func Explain(stmt interface{ SQL() string }) string {
	return "EXPLAIN " + stmt.SQL()
}
