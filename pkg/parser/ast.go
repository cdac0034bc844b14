package parser

// Node is any node of the syntax tree.
type Node interface {
	Pos() Pos
	node()
}

// Expr is a node that yields a boolean condition: a composite expression
// or one of the match rules.
type Expr interface {
	Node
	exprNode()
}

// =============================================================================
// Composite expressions
// =============================================================================

// BinaryOp is the operator of a BinaryExpr.
type BinaryOp int

// Binary operators, lowest precedence first.
const (
	OpOr BinaryOp = iota
	OpAnd
)

func (op BinaryOp) String() string {
	if op == OpAnd {
		return "AND"
	}
	return "OR"
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Lparen Pos
	X      Expr
}

// NotExpr is a prefix 'not'.
type NotExpr struct {
	NotPos Pos
	X      Expr
}

// BinaryExpr joins two expressions with 'and' or 'or'.
type BinaryExpr struct {
	X     Expr
	Op    BinaryOp
	OpPos Pos
	Y     Expr
}

// =============================================================================
// Values
// =============================================================================

// StringLit is a tag key, tag value, hashtag or editor name. Value holds the
// unescaped text; Raw holds the source form.
type StringLit struct {
	ValuePos Pos
	Raw      string
	Value    string
	Quoted   bool
}

// Range is an inclusive range; a nil bound is open.
type Range[T int64 | float64] struct {
	Lower *T
	Upper *T
}

// TypeID is an OSM element reference such as way/42.
type TypeID struct {
	Type string
	ID   int64
}

// OSM element types accepted by type: and id: matches.
const (
	TypeNode     = "node"
	TypeWay      = "way"
	TypeRelation = "relation"
)

// Geometry kinds accepted by geometry: matches.
const (
	GeometryPoint   = "point"
	GeometryLine    = "line"
	GeometryPolygon = "polygon"
	GeometryOther   = "other"
)

// =============================================================================
// Tag matches
// =============================================================================

// TagMatch is key=value.
type TagMatch struct {
	Key   *StringLit
	Value *StringLit
}

// TagNotMatch is key!=value.
type TagNotMatch struct {
	Key   *StringLit
	Value *StringLit
}

// TagWildcardMatch is key=*.
type TagWildcardMatch struct {
	Key *StringLit
}

// TagNotWildcardMatch is key!=*.
type TagNotWildcardMatch struct {
	Key *StringLit
}

// TagListMatch is key in (v1, v2, ...).
type TagListMatch struct {
	Key    *StringLit
	Values []*StringLit
}

// TagValuePatternMatch is key ~ value with optional leading and trailing '*'.
type TagValuePatternMatch struct {
	Key      *StringLit
	Value    *StringLit
	Leading  bool
	Trailing bool
}

// =============================================================================
// Hashtag matches
// =============================================================================

// HashtagMatch is hashtag:name.
type HashtagMatch struct {
	Start   Pos
	Hashtag *StringLit
}

// HashtagWildcardMatch is hashtag:*.
type HashtagWildcardMatch struct {
	Start Pos
}

// HashtagListMatch is hashtag:(a, b, ...).
type HashtagListMatch struct {
	Start    Pos
	Hashtags []*StringLit
}

// =============================================================================
// Type and id matches
// =============================================================================

// TypeMatch is type:node|way|relation.
type TypeMatch struct {
	Start Pos
	Type  string
}

// IDMatch is id:N.
type IDMatch struct {
	Start Pos
	ID    int64
}

// TypeIDMatch is id:type/N.
type TypeIDMatch struct {
	Start  Pos
	TypeID TypeID
}

// IDRangeMatch is id:(lo..hi).
type IDRangeMatch struct {
	Start Pos
	Range Range[int64]
}

// IDListMatch is id:(N, M, ...).
type IDListMatch struct {
	Start Pos
	IDs   []int64
}

// TypeIDListMatch is id:(type/N, type/M, ...).
type TypeIDListMatch struct {
	Start   Pos
	TypeIDs []TypeID
}

// =============================================================================
// Geometry matches
// =============================================================================

// GeometryMatch is geometry:point|line|polygon|other.
type GeometryMatch struct {
	Start Pos
	Kind  string
}

// AreaRangeMatch is area:(lo..hi) in square meters.
type AreaRangeMatch struct {
	Start Pos
	Range Range[float64]
}

// PerimeterRangeMatch is perimeter:(lo..hi) in meters.
type PerimeterRangeMatch struct {
	Start Pos
	Range Range[float64]
}

// LengthRangeMatch is length:(lo..hi) in meters.
type LengthRangeMatch struct {
	Start Pos
	Range Range[float64]
}

// GeometryVerticesRangeMatch is geometry.vertices:(lo..hi).
type GeometryVerticesRangeMatch struct {
	Start Pos
	Range Range[int64]
}

// GeometryOutersMatch is geometry.outers:N.
type GeometryOutersMatch struct {
	Start Pos
	Count int64
}

// GeometryOutersRangeMatch is geometry.outers:(lo..hi).
type GeometryOutersRangeMatch struct {
	Start Pos
	Range Range[int64]
}

// GeometryInnersMatch is geometry.inners:N.
type GeometryInnersMatch struct {
	Start Pos
	Count int64
}

// GeometryInnersRangeMatch is geometry.inners:(lo..hi).
type GeometryInnersRangeMatch struct {
	Start Pos
	Range Range[int64]
}

// =============================================================================
// Changeset matches
// =============================================================================

// ChangesetMatch is changeset:N.
type ChangesetMatch struct {
	Start Pos
	ID    int64
}

// ChangesetListMatch is changeset:(N, M, ...).
type ChangesetListMatch struct {
	Start Pos
	IDs   []int64
}

// ChangesetRangeMatch is changeset:(lo..hi).
type ChangesetRangeMatch struct {
	Start Pos
	Range Range[int64]
}

// ChangesetCreatedByMatch is changeset.created_by:editor.
type ChangesetCreatedByMatch struct {
	Start  Pos
	Editor *StringLit
}

// =============================================================================
// Node plumbing
// =============================================================================

func (n *ParenExpr) Pos() Pos                  { return n.Lparen }
func (n *NotExpr) Pos() Pos                    { return n.NotPos }
func (n *BinaryExpr) Pos() Pos                 { return n.X.Pos() }
func (n *StringLit) Pos() Pos                  { return n.ValuePos }
func (n *TagMatch) Pos() Pos                   { return n.Key.Pos() }
func (n *TagNotMatch) Pos() Pos                { return n.Key.Pos() }
func (n *TagWildcardMatch) Pos() Pos           { return n.Key.Pos() }
func (n *TagNotWildcardMatch) Pos() Pos        { return n.Key.Pos() }
func (n *TagListMatch) Pos() Pos               { return n.Key.Pos() }
func (n *TagValuePatternMatch) Pos() Pos       { return n.Key.Pos() }
func (n *HashtagMatch) Pos() Pos               { return n.Start }
func (n *HashtagWildcardMatch) Pos() Pos       { return n.Start }
func (n *HashtagListMatch) Pos() Pos           { return n.Start }
func (n *TypeMatch) Pos() Pos                  { return n.Start }
func (n *IDMatch) Pos() Pos                    { return n.Start }
func (n *TypeIDMatch) Pos() Pos                { return n.Start }
func (n *IDRangeMatch) Pos() Pos               { return n.Start }
func (n *IDListMatch) Pos() Pos                { return n.Start }
func (n *TypeIDListMatch) Pos() Pos            { return n.Start }
func (n *GeometryMatch) Pos() Pos              { return n.Start }
func (n *AreaRangeMatch) Pos() Pos             { return n.Start }
func (n *PerimeterRangeMatch) Pos() Pos        { return n.Start }
func (n *LengthRangeMatch) Pos() Pos           { return n.Start }
func (n *GeometryVerticesRangeMatch) Pos() Pos { return n.Start }
func (n *GeometryOutersMatch) Pos() Pos        { return n.Start }
func (n *GeometryOutersRangeMatch) Pos() Pos   { return n.Start }
func (n *GeometryInnersMatch) Pos() Pos        { return n.Start }
func (n *GeometryInnersRangeMatch) Pos() Pos   { return n.Start }
func (n *ChangesetMatch) Pos() Pos             { return n.Start }
func (n *ChangesetListMatch) Pos() Pos         { return n.Start }
func (n *ChangesetRangeMatch) Pos() Pos        { return n.Start }
func (n *ChangesetCreatedByMatch) Pos() Pos    { return n.Start }

func (*ParenExpr) node()                  {}
func (*NotExpr) node()                    {}
func (*BinaryExpr) node()                 {}
func (*StringLit) node()                  {}
func (*TagMatch) node()                   {}
func (*TagNotMatch) node()                {}
func (*TagWildcardMatch) node()           {}
func (*TagNotWildcardMatch) node()        {}
func (*TagListMatch) node()               {}
func (*TagValuePatternMatch) node()       {}
func (*HashtagMatch) node()               {}
func (*HashtagWildcardMatch) node()       {}
func (*HashtagListMatch) node()           {}
func (*TypeMatch) node()                  {}
func (*IDMatch) node()                    {}
func (*TypeIDMatch) node()                {}
func (*IDRangeMatch) node()               {}
func (*IDListMatch) node()                {}
func (*TypeIDListMatch) node()            {}
func (*GeometryMatch) node()              {}
func (*AreaRangeMatch) node()             {}
func (*PerimeterRangeMatch) node()        {}
func (*LengthRangeMatch) node()           {}
func (*GeometryVerticesRangeMatch) node() {}
func (*GeometryOutersMatch) node()        {}
func (*GeometryOutersRangeMatch) node()   {}
func (*GeometryInnersMatch) node()        {}
func (*GeometryInnersRangeMatch) node()   {}
func (*ChangesetMatch) node()             {}
func (*ChangesetListMatch) node()         {}
func (*ChangesetRangeMatch) node()        {}
func (*ChangesetCreatedByMatch) node()    {}

func (*ParenExpr) exprNode()                  {}
func (*NotExpr) exprNode()                    {}
func (*BinaryExpr) exprNode()                 {}
func (*TagMatch) exprNode()                   {}
func (*TagNotMatch) exprNode()                {}
func (*TagWildcardMatch) exprNode()           {}
func (*TagNotWildcardMatch) exprNode()        {}
func (*TagListMatch) exprNode()               {}
func (*TagValuePatternMatch) exprNode()       {}
func (*HashtagMatch) exprNode()               {}
func (*HashtagWildcardMatch) exprNode()       {}
func (*HashtagListMatch) exprNode()           {}
func (*TypeMatch) exprNode()                  {}
func (*IDMatch) exprNode()                    {}
func (*TypeIDMatch) exprNode()                {}
func (*IDRangeMatch) exprNode()               {}
func (*IDListMatch) exprNode()                {}
func (*TypeIDListMatch) exprNode()            {}
func (*GeometryMatch) exprNode()              {}
func (*AreaRangeMatch) exprNode()             {}
func (*PerimeterRangeMatch) exprNode()        {}
func (*LengthRangeMatch) exprNode()           {}
func (*GeometryVerticesRangeMatch) exprNode() {}
func (*GeometryOutersMatch) exprNode()        {}
func (*GeometryOutersRangeMatch) exprNode()   {}
func (*GeometryInnersMatch) exprNode()        {}
func (*GeometryInnersRangeMatch) exprNode()   {}
func (*ChangesetMatch) exprNode()             {}
func (*ChangesetListMatch) exprNode()         {}
func (*ChangesetRangeMatch) exprNode()        {}
func (*ChangesetCreatedByMatch) exprNode()    {}

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *ParenExpr:
		return []Node{n.X}
	case *NotExpr:
		return []Node{n.X}
	case *BinaryExpr:
		return []Node{n.X, n.Y}
	case *TagMatch:
		return []Node{n.Key, n.Value}
	case *TagNotMatch:
		return []Node{n.Key, n.Value}
	case *TagWildcardMatch:
		return []Node{n.Key}
	case *TagNotWildcardMatch:
		return []Node{n.Key}
	case *TagListMatch:
		return append([]Node{n.Key}, strings2nodes(n.Values)...)
	case *TagValuePatternMatch:
		return []Node{n.Key, n.Value}
	case *HashtagMatch:
		return []Node{n.Hashtag}
	case *HashtagListMatch:
		return strings2nodes(n.Hashtags)
	case *ChangesetCreatedByMatch:
		return []Node{n.Editor}
	}
	return nil
}

func strings2nodes(lits []*StringLit) []Node {
	nodes := make([]Node, len(lits))
	for i, l := range lits {
		nodes[i] = l
	}
	return nodes
}

// Walk visits n and its descendants in post-order: every child is passed to
// fn before its parent. Walking stops at the first error.
func Walk(n Node, fn func(Node) error) error {
	for _, c := range Children(n) {
		if err := Walk(c, fn); err != nil {
			return err
		}
	}
	return fn(n)
}
