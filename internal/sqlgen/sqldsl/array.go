package sqldsl

// ArrayContains represents the ANY() check: value = ANY(array).
type ArrayContains struct {
	Value Expr
	Array Expr
}

// SQL renders the ANY check.
func (a ArrayContains) SQL() string {
	return a.Value.SQL() + " = ANY(" + a.Array.SQL() + ")"
}

// ArrayOverlap represents the array overlap operator: left && right.
type ArrayOverlap struct {
	Left  Expr
	Right Expr
}

// SQL renders the overlap check.
func (a ArrayOverlap) SQL() string {
	return a.Left.SQL() + " && " + a.Right.SQL()
}
