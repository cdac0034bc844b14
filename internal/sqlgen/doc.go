// Package sqlgen translates a parsed filter into a parameterized PostgreSQL
// condition.
//
// # Overview
//
// The translator walks the syntax tree in post-order. String literals push
// raw values onto a stack; every match rule pops the values its children
// pushed, binds them as positional parameters and pushes one condition
// fragment. Composite expressions pop fragments and push their combination,
// so a well-formed tree leaves exactly one fragment behind.
//
// # Column Contract
//
// Fragments reference the columns of a contributions table:
//
//   - tags, changeset_tags: jsonb maps
//   - osm_type: text, osm_id: bigint
//   - status_geom_type: composite with a geom_type text field
//   - area, length: numeric
//   - changeset_id: bigint, changeset_hashtags: text[]
//
// # Parameters
//
// Values never appear in the SQL text. Each one is appended to the argument
// list and referenced as $n, numbered from shift+1 so the fragment can be
// embedded into a query that already binds shift parameters.
//
// Example:
//
//	root, _ := parser.Parse("natural=tree and id:(1..9999)")
//	tr, _ := sqlgen.Translate(root, 0)
//	// tr.SQL:  tags @> $1 AND (osm_id >= $2 AND osm_id <= $3)
//	// tr.Args: [{"natural":"tree"} 1 9999]
package sqlgen
