package sqldsl

// JSONContains represents jsonb containment: doc @> value.
type JSONContains struct {
	Doc   Expr
	Value Expr
}

func (j JSONContains) SQL() string { return j.Doc.SQL() + " @> " + j.Value.SQL() }

// JSONHasKey represents the jsonb key-exists operator: doc ? key.
type JSONHasKey struct {
	Doc Expr
	Key Expr
}

func (j JSONHasKey) SQL() string { return j.Doc.SQL() + " ? " + j.Key.SQL() }

// JSONText extracts a jsonb member as text: doc ->> key.
type JSONText struct {
	Doc Expr
	Key Expr
}

func (j JSONText) SQL() string { return j.Doc.SQL() + " ->> " + j.Key.SQL() }
