package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/GIScience/ohsome-filter-to-sql/internal/cli"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string
	logger     = slog.New(slog.DiscardHandler)

	// Persistent flags
	cfgFile string
	verbose int
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "ohsome-filter-to-sql",
	Short: "Translate ohsome filters to SQL",
	Long: `ohsome-filter-to-sql - ohsome filter to SQL translator

Translates ohsome filter expressions such as "natural=tree and type:node"
into parameterized PostgreSQL WHERE conditions over a contributions table.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(verbose, quiet)

		// Skip config loading for help/completion/version commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}
		logger.Debug("configuration loaded", "path", configPath)

		return nil
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

// Command group IDs
const (
	groupFilter  = "filter"
	groupUtility = "utility"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover ofl.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupFilter, Title: "Filter:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	translateCmd.GroupID = groupFilter
	parseCmd.GroupID = groupFilter
	checkCmd.GroupID = groupFilter
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)

	configCmd.GroupID = groupUtility
	doctorCmd.GroupID = groupUtility
	versionCmd.GroupID = groupUtility
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

// newLogger builds the stderr logger. Warnings are shown by default, -v
// adds info and -vv debug output; -q leaves only errors.
func newLogger(verbosity int, quiet bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
