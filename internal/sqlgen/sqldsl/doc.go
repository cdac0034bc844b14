// Package sqldsl provides typed building blocks for the PostgreSQL
// conditions emitted by the filter translator.
//
// Every fragment is an Expr whose SQL method renders PostgreSQL syntax.
// Values never appear in the rendered text; they are bound through
// positional placeholders.
//
// # Expression Types
//
// Basic expressions:
//
//	Placeholder(3)                    // $3
//	Col{Column: "tags"}               // tags
//	Field{Composite: "status_geom_type", Name: "geom_type"}
//	                                  // (status_geom_type).geom_type
//	Lit("Point")                      // 'Point'
//	Raw("TRUE")                       // Raw SQL (escape hatch)
//
// Operators:
//
//	Eq{Left: col, Right: Placeholder(1)}  // col = $1
//	And(expr1, expr2)                     // (expr1 AND expr2)
//	Or(expr1, expr2)                      // (expr1 OR expr2)
//	Not(expr)                             // NOT expr
//	Infix{Left: l, Op: "AND", Right: r}   // l AND r
//
// jsonb and array helpers:
//
//	JSONContains{Doc: tags, Value: p}     // tags @> $1
//	JSONHasKey{Doc: tags, Key: p}         // tags ? $1
//	JSONText{Doc: tags, Key: p}           // tags ->> $1
//	Like{Expr: e, Pattern: p}             // e LIKE $2
//	ArrayContains{Value: v, Array: a}     // v = ANY(a)
//	ArrayOverlap{Left: l, Right: r}       // l && r
//
// And and Or wrap their operands in parentheses when there is more than
// one, so a single bound of a range renders bare. Infix never adds
// parentheses; grouping from the filter text is carried by Paren.
//
// # Statements
//
//	SelectStmt{
//	    Columns: []Expr{Raw("count(*)")},
//	    From:    "contributions",
//	    Where:   cond,
//	}
package sqldsl
