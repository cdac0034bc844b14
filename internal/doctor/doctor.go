// Package doctor provides health checks for a contributions table.
//
// The doctor command validates that a table has the layout generated filter
// conditions expect: its columns and their types, the geometry type field,
// a GIN index on tags, and that representative filters can be planned.
//
// Example usage:
//
//	d := doctor.New(db, "contributions")
//	report, err := d.Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report.Print(os.Stdout, true) // verbose=true
package doctor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	filtersql "github.com/GIScience/ohsome-filter-to-sql"
	"github.com/GIScience/ohsome-filter-to-sql/internal/cli"
	"github.com/GIScience/ohsome-filter-to-sql/internal/sqlgen/sqldsl"
)

// Status represents the result of a health check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical issue that will cause failures.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns a status indicator symbol for terminal output.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "⚠"
	case StatusFail:
		return "✗"
	default:
		return "?"
	}
}

// CheckResult represents the outcome of a single health check.
type CheckResult struct {
	// Category groups related checks (e.g., "Table", "Columns", "Filters").
	Category string

	// Name is a short identifier for the check.
	Name string

	// Status is the check outcome.
	Status Status

	// Message is a human-readable description of the result.
	Message string

	// Details provides additional information for verbose output.
	Details string

	// FixHint suggests how to resolve issues.
	FixHint string
}

// Report contains all health check results.
type Report struct {
	Checks []CheckResult

	// Summary counts.
	Passed   int
	Warnings int
	Errors   int
}

// AddCheck adds a check result and updates summary counts.
func (r *Report) AddCheck(check CheckResult) {
	r.Checks = append(r.Checks, check)
	switch check.Status {
	case StatusPass:
		r.Passed++
	case StatusWarn:
		r.Warnings++
	case StatusFail:
		r.Errors++
	}
}

// Print writes the report to the given writer.
func (r *Report) Print(w io.Writer, verbose bool) {
	categories := make(map[string][]CheckResult)
	var categoryOrder []string
	for _, check := range r.Checks {
		if _, exists := categories[check.Category]; !exists {
			categoryOrder = append(categoryOrder, check.Category)
		}
		categories[check.Category] = append(categories[check.Category], check)
	}

	for _, cat := range categoryOrder {
		_, _ = fmt.Fprintf(w, "\n%s\n", cat)
		for _, check := range categories[cat] {
			_, _ = fmt.Fprintf(w, "  %s %s\n", check.Status.Symbol(), check.Message)
			if verbose && check.Details != "" {
				for _, line := range strings.Split(check.Details, "\n") {
					_, _ = fmt.Fprintf(w, "      %s\n", line)
				}
			}
			if check.Status != StatusPass && check.FixHint != "" {
				_, _ = fmt.Fprintf(w, "      Fix: %s\n", check.FixHint)
			}
		}
	}

	_, _ = fmt.Fprintf(w, "\nSummary: %d passed, %d warnings, %d errors\n",
		r.Passed, r.Warnings, r.Errors)
}

// HasErrors returns true if any checks failed.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}

// column describes a column generated conditions reference.
type column struct {
	name string
	// types lists accepted pg_type names. Empty means any composite type.
	types []string
}

var contributionColumns = []column{
	{name: "tags", types: []string{"jsonb"}},
	{name: "osm_type", types: []string{"text", "varchar", "bpchar"}},
	{name: "osm_id", types: []string{"int8", "int4"}},
	{name: "status_geom_type"},
	{name: "area", types: []string{"float8", "float4", "numeric"}},
	{name: "length", types: []string{"float8", "float4", "numeric"}},
	{name: "changeset_id", types: []string{"int8", "int4"}},
	{name: "changeset_tags", types: []string{"jsonb"}},
	{name: "changeset_hashtags", types: []string{"_text", "_varchar"}},
}

// SampleFilters are planned against the table to verify that every kind of
// generated condition type-checks.
var SampleFilters = []string{
	"natural=tree and type:node",
	"highway in (residential, living_street) and not name=*",
	`"addr:street" ~ *"Straße"`,
	"id:(node/1, way/2) or id:(1..9999)",
	"geometry:polygon and area:(1E6..)",
	"geometry:line and length:(..100)",
	"changeset:(1, 2) or changeset.created_by:JOSM",
	"hashtag:missingmaps or hashtag:(hotosm, osmgeoweek)",
}

// Doctor performs health checks on a contributions table.
type Doctor struct {
	db    *sql.DB
	table string

	// Cached data from checks (populated during Run)
	info *TableInfo
}

// TableInfo contains information about the checked relation.
type TableInfo struct {
	Exists     bool
	RelKind    string // 'r' = table, 'v' = view, 'm' = materialized view, 'p' = partitioned table
	RelKindStr string // human-readable
	Columns    map[string]ColumnInfo
}

// ColumnInfo describes one column of the checked relation.
type ColumnInfo struct {
	Type    string // pg_type name, e.g. "jsonb" or "_text"
	TypType string // 'b' = base, 'c' = composite, 'e' = enum, 'd' = domain
}

// New creates a new Doctor instance. table may be schema-qualified.
func New(db *sql.DB, table string) *Doctor {
	return &Doctor{
		db:    db,
		table: table,
	}
}

// Run executes all health checks and returns a report.
func (d *Doctor) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	if err := d.checkServer(ctx, report); err != nil {
		return nil, fmt.Errorf("checking server: %w", err)
	}
	if err := d.checkTable(ctx, report); err != nil {
		return nil, fmt.Errorf("checking table: %w", err)
	}
	if !d.info.Exists {
		return report, nil
	}

	d.checkColumns(report)
	if err := d.checkGeometryField(ctx, report); err != nil {
		return nil, fmt.Errorf("checking geometry field: %w", err)
	}
	if err := d.checkIndexes(ctx, report); err != nil {
		return nil, fmt.Errorf("checking indexes: %w", err)
	}
	if err := d.checkData(ctx, report); err != nil {
		return nil, fmt.Errorf("checking data: %w", err)
	}
	d.checkFilters(ctx, report)

	return report, nil
}

// checkServer requires a server with jsonb support (9.4).
func (d *Doctor) checkServer(ctx context.Context, report *Report) error {
	var num int
	var version string
	err := d.db.QueryRowContext(ctx, `
		SELECT current_setting('server_version_num')::int, current_setting('server_version')
	`).Scan(&num, &version)
	if err != nil {
		return err
	}

	if num < 90400 {
		report.AddCheck(CheckResult{
			Category: "Server",
			Name:     "version",
			Status:   StatusFail,
			Message:  fmt.Sprintf("PostgreSQL %s has no jsonb support", version),
			FixHint:  "Upgrade to PostgreSQL 9.4 or later",
		})
		return nil
	}
	report.AddCheck(CheckResult{
		Category: "Server",
		Name:     "version",
		Status:   StatusPass,
		Message:  fmt.Sprintf("PostgreSQL %s", version),
	})
	return nil
}

func (d *Doctor) checkTable(ctx context.Context, report *Report) error {
	info, err := d.getTableInfo(ctx)
	if err != nil {
		return fmt.Errorf("getting table info: %w", err)
	}
	d.info = info

	if !info.Exists {
		report.AddCheck(CheckResult{
			Category: "Table",
			Name:     "exists",
			Status:   StatusFail,
			Message:  fmt.Sprintf("%s does not exist", d.table),
			FixHint:  "Set check.table (or --table) to the contributions table",
		})
		return nil
	}

	report.AddCheck(CheckResult{
		Category: "Table",
		Name:     "exists",
		Status:   StatusPass,
		Message:  fmt.Sprintf("%s exists (%s)", d.table, info.RelKindStr),
	})

	if info.RelKind == "m" {
		report.AddCheck(CheckResult{
			Category: "Table",
			Name:     "refresh",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%s is a materialized view", d.table),
			Details:  "Materialized views require manual refresh to see data changes",
			FixHint:  "Ensure you have a refresh strategy (e.g., REFRESH MATERIALIZED VIEW CONCURRENTLY)",
		})
	}
	return nil
}

func (d *Doctor) checkColumns(report *Report) {
	var missing, mistyped []string
	for _, col := range contributionColumns {
		got, ok := d.info.Columns[col.name]
		switch {
		case !ok:
			missing = append(missing, col.name)
		case len(col.types) == 0 && got.TypType != "c":
			mistyped = append(mistyped, fmt.Sprintf("%s is %s, want a composite type", col.name, got.Type))
		case len(col.types) > 0 && !slices.Contains(col.types, got.Type):
			mistyped = append(mistyped, fmt.Sprintf("%s is %s, want one of %s", col.name, got.Type, strings.Join(col.types, ", ")))
		}
	}

	if len(missing) > 0 {
		report.AddCheck(CheckResult{
			Category: "Columns",
			Name:     "present",
			Status:   StatusFail,
			Message:  fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")),
			Details:  fmt.Sprintf("Found columns: %s", strings.Join(d.columnNames(), ", ")),
			FixHint:  "Create a view over your data that exposes the contributions columns",
		})
	} else {
		report.AddCheck(CheckResult{
			Category: "Columns",
			Name:     "present",
			Status:   StatusPass,
			Message:  "All required columns present",
		})
	}

	if len(mistyped) > 0 {
		report.AddCheck(CheckResult{
			Category: "Columns",
			Name:     "types",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%d columns have unexpected types", len(mistyped)),
			Details:  strings.Join(mistyped, "\n"),
			FixHint:  "Filters may fail to plan or compare with implicit casts",
		})
	}
}

func (d *Doctor) columnNames() []string {
	names := make([]string, 0, len(d.info.Columns))
	for name := range d.info.Columns {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// checkGeometryField probes (status_geom_type).geom_type, which geometry
// filters compare against GeoJSON type names.
func (d *Doctor) checkGeometryField(ctx context.Context, report *Report) error {
	if _, ok := d.info.Columns["status_geom_type"]; !ok {
		return nil // Already reported as missing
	}

	stmt := sqldsl.SelectStmt{
		Columns: []sqldsl.Expr{sqldsl.Field{Composite: "status_geom_type", Name: "geom_type"}},
		From:    cli.QuoteTable(d.table),
		Limit:   1,
	}
	_, err := d.db.ExecContext(ctx, sqldsl.Explain(stmt))
	if err != nil {
		if cli.SQLState(err) == "" {
			return err
		}
		report.AddCheck(CheckResult{
			Category: "Columns",
			Name:     "geom_type",
			Status:   StatusFail,
			Message:  "status_geom_type has no geom_type field",
			Details:  err.Error(),
			FixHint:  "status_geom_type must be a composite with a text field geom_type",
		})
		return nil
	}

	report.AddCheck(CheckResult{
		Category: "Columns",
		Name:     "geom_type",
		Status:   StatusPass,
		Message:  "status_geom_type has a geom_type field",
	})
	return nil
}

func (d *Doctor) checkIndexes(ctx context.Context, report *Report) error {
	var count int
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM pg_index i
		JOIN pg_class ic ON ic.oid = i.indexrelid
		JOIN pg_am am ON am.oid = ic.relam
		WHERE i.indrelid = to_regclass($1)
		AND am.amname = 'gin'
		AND pg_get_indexdef(i.indexrelid) LIKE '%(tags%'
	`, cli.QuoteTable(d.table)).Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 && d.info.RelKind != "v" {
		report.AddCheck(CheckResult{
			Category: "Indexes",
			Name:     "tags",
			Status:   StatusWarn,
			Message:  "No GIN index on tags",
			Details:  "Tag filters use @> and ?, which scan the whole table without one",
			FixHint:  fmt.Sprintf("CREATE INDEX ON %s USING gin (tags)", cli.QuoteTable(d.table)),
		})
		return nil
	}
	report.AddCheck(CheckResult{
		Category: "Indexes",
		Name:     "tags",
		Status:   StatusPass,
		Message:  "GIN index on tags present",
	})
	return nil
}

func (d *Doctor) checkData(ctx context.Context, report *Report) error {
	stmt := sqldsl.SelectStmt{
		Columns: []sqldsl.Expr{sqldsl.Raw("1")},
		From:    cli.QuoteTable(d.table),
		Limit:   1,
	}
	var one int
	err := d.db.QueryRowContext(ctx, stmt.SQL()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		report.AddCheck(CheckResult{
			Category: "Data",
			Name:     "rows",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%s is empty", d.table),
			FixHint:  "Every filter will match zero rows until data is loaded",
		})
		return nil
	}
	if err != nil {
		return err
	}

	report.AddCheck(CheckResult{
		Category: "Data",
		Name:     "rows",
		Status:   StatusPass,
		Message:  fmt.Sprintf("%s contains rows", d.table),
	})
	return nil
}

// checkFilters plans each of SampleFilters against the table.
func (d *Doctor) checkFilters(ctx context.Context, report *Report) {
	var failures []string
	for _, filter := range SampleFilters {
		res, err := filtersql.Translate(filter)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", filter, err))
			continue
		}
		stmt := sqldsl.SelectStmt{
			Columns: []sqldsl.Expr{sqldsl.Func{Name: "count", Args: []sqldsl.Expr{sqldsl.Raw("*")}}},
			From:    cli.QuoteTable(d.table),
			Where:   sqldsl.Raw(res.SQL),
		}
		if _, err := d.db.ExecContext(ctx, sqldsl.Explain(stmt), cli.BindArgs(res.Args)...); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", filter, err))
		}
	}

	if len(failures) > 0 {
		report.AddCheck(CheckResult{
			Category: "Filters",
			Name:     "plan",
			Status:   StatusFail,
			Message:  fmt.Sprintf("%d of %d sample filters failed to plan", len(failures), len(SampleFilters)),
			Details:  strings.Join(failures, "\n"),
			FixHint:  "Compare the column types above with the contributions layout",
		})
		return
	}
	report.AddCheck(CheckResult{
		Category: "Filters",
		Name:     "plan",
		Status:   StatusPass,
		Message:  fmt.Sprintf("All %d sample filters plan successfully", len(SampleFilters)),
	})
}

func (d *Doctor) getTableInfo(ctx context.Context) (*TableInfo, error) {
	info := &TableInfo{Columns: make(map[string]ColumnInfo)}
	regclass := cli.QuoteTable(d.table)

	var relKind string
	err := d.db.QueryRowContext(ctx, `
		SELECT c.relkind
		FROM pg_class c
		WHERE c.oid = to_regclass($1)
		AND c.relkind IN ('r', 'v', 'm', 'p')
	`, regclass).Scan(&relKind)

	if errors.Is(err, sql.ErrNoRows) {
		return info, nil
	}
	if err != nil {
		return nil, err
	}

	info.Exists = true
	info.RelKind = relKind
	switch relKind {
	case "r":
		info.RelKindStr = "table"
	case "v":
		info.RelKindStr = "view"
	case "m":
		info.RelKindStr = "materialized view"
	case "p":
		info.RelKindStr = "partitioned table"
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT a.attname, t.typname, t.typtype
		FROM pg_attribute a
		JOIN pg_type t ON t.oid = a.atttypid
		WHERE a.attrelid = to_regclass($1)
		AND a.attnum > 0
		AND NOT a.attisdropped
		ORDER BY a.attnum
	`, regclass)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		var col ColumnInfo
		if err := rows.Scan(&name, &col.Type, &col.TypType); err != nil {
			return nil, err
		}
		info.Columns[name] = col
	}

	return info, rows.Err()
}
