package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	filtersql "github.com/GIScience/ohsome-filter-to-sql"
	"github.com/GIScience/ohsome-filter-to-sql/internal/cli"
	"github.com/GIScience/ohsome-filter-to-sql/internal/sqlgen/sqldsl"
)

var (
	checkDB      string
	checkTable   string
	checkCount   bool
	checkTimeout time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check [filter]",
	Short: "Plan a filter against a contributions table",
	Long: `Translate a filter and let PostgreSQL plan it against a contributions table.

The query is run through EXPLAIN, so the server validates the condition,
its column references and parameter types without reading any rows.
With --count the query is executed and the number of matching rows printed.`,
	Example: `  # Validate a filter against the configured database
  ohsome-filter-to-sql check 'highway=residential and not name=*'

  # Count matches in a specific table
  ohsome-filter-to-sql check --db postgres://localhost/ohsome --table history.contributions --count 'building=*'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := readFilter(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		res, err := filtersql.Translate(filter,
			filtersql.WithMaxDepth(cfg.Translate.MaxDepth),
			filtersql.WithLogger(logger),
		)
		if err != nil {
			return translateError(err)
		}

		dsn, err := resolveDSN(checkDB)
		if err != nil {
			return err
		}
		table := resolveString(checkTable, cfg.Check.Table)

		ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
		defer cancel()

		return runCheck(ctx, cmd.OutOrStdout(), dsn, table, res, checkCount)
	},
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkDB, "db", "", "database URL")
	f.StringVar(&checkTable, "table", "", "contributions table, optionally schema-qualified")
	f.BoolVar(&checkCount, "count", false, "run the query and print the number of matches")
	f.DurationVar(&checkTimeout, "timeout", 30*time.Second, "time limit for connecting and querying")
}

func resolveDSN(flagDSN string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return "", cli.ConfigError("database configuration", err)
	}
	if dsn == "" {
		return "", cli.ConfigError("database URL is required (use --db or set in config)", nil)
	}
	return dsn, nil
}

func runCheck(ctx context.Context, w io.Writer, dsn, table string, res *filtersql.Result, count bool) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return cli.DBConnectError("connecting to database", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return cli.DBConnectError("connecting to database", err)
	}

	stmt := checkStatement(table, res)
	query := sqldsl.Explain(stmt)
	if count {
		query = stmt.SQL()
	}
	logger.Debug("checking filter", "query", query, "params", len(res.Args))

	rows, err := db.QueryContext(ctx, query, cli.BindArgs(res.Args)...)
	if err != nil {
		return cli.DatabaseError("checking filter", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return cli.GeneralError("reading result", err)
		}
		fmt.Fprintln(w, line)
	}
	if err := rows.Err(); err != nil {
		return cli.DatabaseError("checking filter", err)
	}
	return nil
}

// checkStatement counts the rows of table matching the translated filter.
func checkStatement(table string, res *filtersql.Result) sqldsl.SelectStmt {
	return sqldsl.SelectStmt{
		Columns: []sqldsl.Expr{sqldsl.Func{Name: "count", Args: []sqldsl.Expr{sqldsl.Raw("*")}}},
		From:    cli.QuoteTable(table),
		Where:   sqldsl.Raw(res.SQL),
	}
}
