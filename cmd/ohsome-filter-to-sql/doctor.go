package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/GIScience/ohsome-filter-to-sql/internal/cli"
	"github.com/GIScience/ohsome-filter-to-sql/internal/doctor"
)

var (
	doctorDB      string
	doctorTable   string
	doctorTimeout time.Duration
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks",
	Long: `Run health checks on a contributions table.

Checks the server version, the columns and their types, the geometry type
field, the GIN index on tags and that a set of sample filters can be planned.
Pass -v to show details for each check.`,
	Example: `  # Run health checks
  ohsome-filter-to-sql doctor --db postgres://localhost/ohsome

  # Check a schema-qualified table with details
  ohsome-filter-to-sql doctor -v --table history.contributions`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := resolveDSN(doctorDB)
		if err != nil {
			return err
		}
		table := resolveString(doctorTable, cfg.Check.Table)

		ctx, cancel := context.WithTimeout(cmd.Context(), doctorTimeout)
		defer cancel()

		return runDoctor(ctx, cmd.OutOrStdout(), dsn, table, verbose > 0)
	},
}

func init() {
	f := doctorCmd.Flags()
	f.StringVar(&doctorDB, "db", "", "database URL")
	f.StringVar(&doctorTable, "table", "", "contributions table, optionally schema-qualified")
	f.DurationVar(&doctorTimeout, "timeout", 30*time.Second, "time limit for all checks")
}

func runDoctor(ctx context.Context, w io.Writer, dsn, table string, details bool) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return cli.DBConnectError("connecting to database", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return cli.DBConnectError("connecting to database", err)
	}

	if !quiet {
		fmt.Fprintln(w, "ohsome-filter-to-sql doctor - Health Check")
	}

	report, err := doctor.New(db, table).Run(ctx)
	if err != nil {
		return cli.DatabaseError("running doctor", err)
	}

	report.Print(w, details)

	if report.HasErrors() {
		return cli.GeneralError("health checks failed", nil)
	}
	return nil
}
