// Command ohsome-filter-to-sql translates ohsome filter expressions into
// parameterized PostgreSQL WHERE conditions.
//
// Commands:
//   - translate: print the SQL condition and its bind arguments
//   - parse: print the syntax tree of a filter
//   - check: let PostgreSQL plan the condition against a contributions table
//   - config show: print the effective configuration
//   - doctor: run health checks on a contributions table
//   - version: print build information
//
// A filter is read from the first argument, or from stdin when no argument
// is given.
//
// Usage:
//
//	ohsome-filter-to-sql translate 'natural=tree and type:node'
//	echo 'building=* and geometry:polygon' | ohsome-filter-to-sql translate --format json
//	ohsome-filter-to-sql check --db postgres://localhost/ohsome 'highway=residential'
package main

func main() {
	Execute()
}
