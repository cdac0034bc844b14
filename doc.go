// Package filtersql translates ohsome filter expressions into parameterized
// PostgreSQL conditions.
//
// An ohsome filter is a boolean expression over OSM feature attributes such
// as tags, element type and id, geometry kind, area and length ranges, and
// changeset metadata:
//
//	natural=tree and (type:node or geometry:point)
//
// The result is a condition fragment for a WHERE clause on a contributions
// table plus the ordered bind values it references.
//
// # Basic Usage
//
//	res, err := filtersql.Translate("natural=tree and leaf_type=broadleaved")
//	if err != nil {
//	    return err
//	}
//	rows, err := db.QueryContext(ctx,
//	    "SELECT osm_id FROM contributions WHERE "+res.SQL, res.Args...)
//
// res.SQL is "tags @> $1 AND tags @> $2" and res.Args holds the two JSON
// documents {"natural":"tree"} and {"leaf_type":"broadleaved"}.
//
// # Composing Parameters
//
// When the surrounding query already binds parameters, shift the
// placeholders so they start after them:
//
//	res, _ := filtersql.Translate("type:way", filtersql.WithShift(2))
//	// res.SQL is "osm_type = $3"
//	args := append([]any{from, to}, res.Args...)
//
// # Errors
//
// Translation is all-or-nothing. Failures are one of LexicalError,
// SyntaxError, RangeError or NotImplementedError; use the Is*Err helpers or
// errors.Is with the matching sentinel to tell them apart.
//
// # Caching
//
// Filters coming from an API are often repeated. A Translator configured
// with WithCache reuses earlier results, including failures:
//
//	tr := filtersql.NewTranslator(filtersql.WithCache(filtersql.NewCache(filtersql.WithTTL(time.Hour))))
//	res, err := tr.Translate(filter)
//
// Translators and caches are safe for concurrent use.
package filtersql
