package sqlgen

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/GIScience/ohsome-filter-to-sql/internal/sqlgen/sqldsl"
	"github.com/GIScience/ohsome-filter-to-sql/pkg/parser"
)

// Columns of the contributions table referenced by generated fragments.
var (
	colTags          = sqldsl.Col{Column: "tags"}
	colOSMType       = sqldsl.Col{Column: "osm_type"}
	colOSMID         = sqldsl.Col{Column: "osm_id"}
	colGeomType      = sqldsl.Field{Composite: "status_geom_type", Name: "geom_type"}
	colArea          = sqldsl.Col{Column: "area"}
	colLength        = sqldsl.Col{Column: "length"}
	colChangesetID   = sqldsl.Col{Column: "changeset_id"}
	colChangesetTags = sqldsl.Col{Column: "changeset_tags"}
	colHashtags      = sqldsl.Col{Column: "changeset_hashtags"}
)

// Translation is the result of translating one filter.
type Translation struct {
	// SQL is a boolean condition suitable for a WHERE clause.
	SQL string
	// Args holds the bind values for $shift+1 ... $shift+len(Args).
	Args []any
}

// Translate renders root as a parameterized condition. Placeholders are
// numbered from shift+1.
func Translate(root parser.Expr, shift int) (*Translation, error) {
	if root == nil {
		return nil, fmt.Errorf("translate: nil expression")
	}
	if shift < 0 {
		return nil, fmt.Errorf("translate: negative parameter shift %d", shift)
	}

	t := &translator{shift: shift}
	if err := parser.Walk(root, t.visit); err != nil {
		return nil, err
	}

	if len(t.stack) != 1 {
		return nil, fmt.Errorf("translate: %d items left on stack, want 1", len(t.stack))
	}
	frag, err := t.popFragment()
	if err != nil {
		return nil, err
	}
	return &Translation{SQL: frag.SQL(), Args: t.args}, nil
}

// itemKind tells stack items apart so pops are checked rather than assumed.
type itemKind int

const (
	itemFragment itemKind = iota
	itemValue
)

func (k itemKind) String() string {
	if k == itemFragment {
		return "fragment"
	}
	return "value"
}

type item struct {
	kind  itemKind
	expr  sqldsl.Expr
	value string
}

// translator holds the state of a single translation.
type translator struct {
	stack []item
	args  []any
	shift int
}

// bind appends v to the argument list and returns its placeholder.
func (t *translator) bind(v any) sqldsl.Placeholder {
	t.args = append(t.args, v)
	return sqldsl.Placeholder(t.shift + len(t.args))
}

func (t *translator) push(e sqldsl.Expr) {
	t.stack = append(t.stack, item{kind: itemFragment, expr: e})
}

func (t *translator) pushValue(s string) {
	t.stack = append(t.stack, item{kind: itemValue, value: s})
}

func (t *translator) pop(want itemKind) (item, error) {
	if len(t.stack) == 0 {
		return item{}, fmt.Errorf("translate: stack underflow, want %s", want)
	}
	it := t.stack[len(t.stack)-1]
	if it.kind != want {
		return item{}, fmt.Errorf("translate: top of stack is a %s, want %s", it.kind, want)
	}
	t.stack = t.stack[:len(t.stack)-1]
	return it, nil
}

func (t *translator) popFragment() (sqldsl.Expr, error) {
	it, err := t.pop(itemFragment)
	return it.expr, err
}

func (t *translator) popValue() (string, error) {
	it, err := t.pop(itemValue)
	return it.value, err
}

// popValues pops n values and returns them in source order.
func (t *translator) popValues(n int) ([]string, error) {
	values := make([]string, n)
	for i := n - 1; i >= 0; i-- {
		v, err := t.popValue()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// popPair pops a key and the value pushed after it.
func (t *translator) popPair() (key, value string, err error) {
	if value, err = t.popValue(); err != nil {
		return "", "", err
	}
	if key, err = t.popValue(); err != nil {
		return "", "", err
	}
	return key, value, nil
}

func (t *translator) visit(n parser.Node) error {
	switch n := n.(type) {
	case *parser.StringLit:
		t.pushValue(n.Value)
		return nil
	case *parser.ParenExpr:
		x, err := t.popFragment()
		if err != nil {
			return err
		}
		t.push(sqldsl.Paren{Expr: x})
		return nil
	case *parser.NotExpr:
		x, err := t.popFragment()
		if err != nil {
			return err
		}
		t.push(sqldsl.Not(x))
		return nil
	case *parser.BinaryExpr:
		right, err := t.popFragment()
		if err != nil {
			return err
		}
		left, err := t.popFragment()
		if err != nil {
			return err
		}
		t.push(sqldsl.Infix{Left: left, Op: n.Op.String(), Right: right})
		return nil
	}

	expr, err := t.match(n)
	if err != nil {
		return err
	}
	t.push(expr)
	return nil
}

// match translates a leaf match rule.
func (t *translator) match(n parser.Node) (sqldsl.Expr, error) {
	switch n := n.(type) {
	case *parser.TagMatch:
		return t.tagContains(false)
	case *parser.TagNotMatch:
		return t.tagContains(true)
	case *parser.TagWildcardMatch:
		return t.tagHasKey(false)
	case *parser.TagNotWildcardMatch:
		return t.tagHasKey(true)
	case *parser.TagValuePatternMatch:
		key, value, err := t.popPair()
		if err != nil {
			return nil, err
		}
		return sqldsl.Like{
			Expr:    sqldsl.JSONText{Doc: colTags, Key: t.bind(key)},
			Pattern: t.bind(LikePattern(value, n.Leading, n.Trailing)),
		}, nil
	case *parser.TagListMatch:
		values, err := t.popValues(len(n.Values))
		if err != nil {
			return nil, err
		}
		key, err := t.popValue()
		if err != nil {
			return nil, err
		}
		return sqldsl.ArrayContains{
			Value: sqldsl.JSONText{Doc: colTags, Key: t.bind(key)},
			Array: t.bind(values),
		}, nil

	case *parser.HashtagMatch:
		hashtag, err := t.popValue()
		if err != nil {
			return nil, err
		}
		return sqldsl.ArrayContains{Value: t.bind(hashtag), Array: colHashtags}, nil
	case *parser.HashtagListMatch:
		hashtags, err := t.popValues(len(n.Hashtags))
		if err != nil {
			return nil, err
		}
		return sqldsl.ArrayOverlap{Left: t.bind(hashtags), Right: colHashtags}, nil

	case *parser.TypeMatch:
		return sqldsl.Eq{Left: colOSMType, Right: t.bind(n.Type)}, nil
	case *parser.IDMatch:
		return sqldsl.Eq{Left: colOSMID, Right: t.bind(n.ID)}, nil
	case *parser.TypeIDMatch:
		return sqldsl.And(
			sqldsl.Eq{Left: colOSMType, Right: t.bind(n.TypeID.Type)},
			sqldsl.Eq{Left: colOSMID, Right: t.bind(n.TypeID.ID)},
		), nil
	case *parser.IDRangeMatch:
		return rangeExpr(t, "id", colOSMID, n.Range, n.Start)
	case *parser.IDListMatch:
		return sqldsl.ArrayContains{Value: colOSMID, Array: t.bind(n.IDs)}, nil
	case *parser.TypeIDListMatch:
		elems := make([]sqldsl.Expr, len(n.TypeIDs))
		for i, tid := range n.TypeIDs {
			elems[i] = sqldsl.And(
				sqldsl.Eq{Left: colOSMID, Right: t.bind(tid.ID)},
				sqldsl.Eq{Left: colOSMType, Right: t.bind(tid.Type)},
			)
		}
		return sqldsl.Or(elems...), nil

	case *parser.GeometryMatch:
		return geometryExpr(n)
	case *parser.AreaRangeMatch:
		return rangeExpr(t, "area", colArea, n.Range, n.Start)
	case *parser.LengthRangeMatch:
		return rangeExpr(t, "length", colLength, n.Range, n.Start)

	case *parser.ChangesetMatch:
		return sqldsl.Eq{Left: colChangesetID, Right: t.bind(n.ID)}, nil
	case *parser.ChangesetListMatch:
		return sqldsl.ArrayContains{Value: colChangesetID, Array: t.bind(n.IDs)}, nil
	case *parser.ChangesetRangeMatch:
		return rangeExpr(t, "changeset", colChangesetID, n.Range, n.Start)
	case *parser.ChangesetCreatedByMatch:
		editor, err := t.popValue()
		if err != nil {
			return nil, err
		}
		doc, err := jsonObject("created_by", editor)
		if err != nil {
			return nil, err
		}
		return sqldsl.JSONContains{Doc: colChangesetTags, Value: t.bind(doc)}, nil

	case *parser.HashtagWildcardMatch:
		return nil, &NotImplementedError{Rule: "hashtag:*", Pos: n.Pos()}
	case *parser.PerimeterRangeMatch:
		return nil, &NotImplementedError{Rule: "perimeter", Pos: n.Pos()}
	case *parser.GeometryVerticesRangeMatch:
		return nil, &NotImplementedError{Rule: "geometry.vertices", Pos: n.Pos()}
	case *parser.GeometryOutersMatch, *parser.GeometryOutersRangeMatch:
		return nil, &NotImplementedError{Rule: "geometry.outers", Pos: n.Pos()}
	case *parser.GeometryInnersMatch, *parser.GeometryInnersRangeMatch:
		return nil, &NotImplementedError{Rule: "geometry.inners", Pos: n.Pos()}
	}
	return nil, fmt.Errorf("translate: unexpected node %T", n)
}

func (t *translator) tagContains(negate bool) (sqldsl.Expr, error) {
	key, value, err := t.popPair()
	if err != nil {
		return nil, err
	}
	doc, err := jsonObject(key, value)
	if err != nil {
		return nil, err
	}
	var expr sqldsl.Expr = sqldsl.JSONContains{Doc: colTags, Value: t.bind(doc)}
	if negate {
		expr = sqldsl.Not(expr)
	}
	return expr, nil
}

func (t *translator) tagHasKey(negate bool) (sqldsl.Expr, error) {
	key, err := t.popValue()
	if err != nil {
		return nil, err
	}
	var expr sqldsl.Expr = sqldsl.JSONHasKey{Doc: colTags, Key: t.bind(key)}
	if negate {
		expr = sqldsl.Not(expr)
	}
	return expr, nil
}

// rangeExpr renders an inclusive range on col. A single bound renders
// without parentheses.
func rangeExpr[T int64 | float64](t *translator, field string, col sqldsl.Expr, r parser.Range[T], pos parser.Pos) (sqldsl.Expr, error) {
	if r.Lower != nil && r.Upper != nil && *r.Lower > *r.Upper {
		return nil, &RangeError{Field: field, Pos: pos, Lower: *r.Lower, Upper: *r.Upper}
	}
	if r.Lower == nil && r.Upper == nil {
		return nil, fmt.Errorf("translate: %s range without bounds", field)
	}

	var lower, upper sqldsl.Expr
	if r.Lower != nil {
		lower = sqldsl.Gte{Left: col, Right: t.bind(*r.Lower)}
	}
	if r.Upper != nil {
		upper = sqldsl.Lte{Left: col, Right: t.bind(*r.Upper)}
	}
	return sqldsl.And(lower, upper), nil
}

// geometryExpr compares the geometry type against GeoJSON type names.
func geometryExpr(n *parser.GeometryMatch) (sqldsl.Expr, error) {
	is := func(g orb.Geometry) sqldsl.Expr {
		return sqldsl.Eq{Left: colGeomType, Right: sqldsl.Lit(g.GeoJSONType())}
	}
	switch n.Kind {
	case parser.GeometryPoint:
		return is(orb.Point{}), nil
	case parser.GeometryLine:
		return is(orb.LineString{}), nil
	case parser.GeometryPolygon:
		return sqldsl.Or(is(orb.Polygon{}), is(orb.MultiPolygon{})), nil
	case parser.GeometryOther:
		return is(orb.Collection{}), nil
	}
	return nil, fmt.Errorf("translate: unknown geometry kind %q", n.Kind)
}
