package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	filtersql "github.com/GIScience/ohsome-filter-to-sql"
	"github.com/GIScience/ohsome-filter-to-sql/internal/cli"
)

var (
	translateShift  int
	translateFormat string
	translateBatch  bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [filter]",
	Short: "Translate a filter to a SQL condition",
	Long: `Translate an ohsome filter to a parameterized SQL condition.

The filter is taken from the argument or read from stdin. With --batch every
non-empty stdin line is translated separately; lines starting with # are
skipped.`,
	Example: `  # Translate a single filter
  ohsome-filter-to-sql translate 'natural=tree and type:node'

  # Number placeholders after two parameters of an enclosing query
  ohsome-filter-to-sql translate --shift 2 'id:(1..9999)'

  # Translate a file of filters to JSON lines
  ohsome-filter-to-sql translate --batch --format json < filters.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shift := cfg.Translate.Shift
		if cmd.Flags().Changed("shift") {
			shift = translateShift
		}
		format := resolveString(translateFormat, cfg.Translate.Format)

		tr := filtersql.NewTranslator(
			filtersql.WithShift(shift),
			filtersql.WithMaxDepth(cfg.Translate.MaxDepth),
			filtersql.WithLogger(logger),
			filtersql.WithCache(filtersql.NewCache()),
		)

		w := cmd.OutOrStdout()
		if translateBatch {
			if len(args) > 0 {
				return cli.GeneralError("--batch reads filters from stdin and takes no argument", nil)
			}
			return runTranslateBatch(w, cmd.InOrStdin(), tr, format)
		}

		filter, err := readFilter(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return runTranslate(w, tr, filter, format)
	},
}

func init() {
	f := translateCmd.Flags()
	f.IntVar(&translateShift, "shift", 0, "number of parameters preceding the condition")
	f.StringVar(&translateFormat, "format", "", "output format: text, json or yaml")
	f.BoolVar(&translateBatch, "batch", false, "translate one filter per stdin line")
}

// translateOutput is the machine-readable form of a translation.
type translateOutput struct {
	Filter string `json:"filter"`
	SQL    string `json:"sql"`
	Args   []any  `json:"args"`
}

// readFilter returns the filter argument, or all of r when there is none.
func readFilter(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", cli.GeneralError("reading filter from stdin", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func runTranslate(w io.Writer, tr *filtersql.Translator, filter, format string) error {
	res, err := tr.Translate(filter)
	if err != nil {
		return translateError(err)
	}
	return writeResult(w, format, filter, tr.Shift(), res)
}

// maxFilterLine bounds a single line of batch input.
const maxFilterLine = 16 << 20

func runTranslateBatch(w io.Writer, r io.Reader, tr *filtersql.Translator, format string) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFilterLine)
	var total, failed, lineNo int
	for scanner.Scan() {
		lineNo++
		filter := strings.TrimSpace(scanner.Text())
		if filter == "" || strings.HasPrefix(filter, "#") {
			continue
		}
		total++

		res, err := tr.Translate(filter)
		if err != nil {
			if errors.Is(err, filtersql.ErrInvalidOption) {
				return translateError(err)
			}
			failed++
			logger.Error("filter rejected", "line", lineNo, "filter", filter, "error", err)
			continue
		}
		if format == cli.FormatText && total-failed > 1 {
			fmt.Fprintln(w)
		}
		if err := writeResult(w, format, filter, tr.Shift(), res); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return cli.GeneralError("reading filters from stdin", err)
	}

	logger.Info("batch translated", "filters", total, "failed", failed)
	if failed > 0 {
		return cli.FilterError(fmt.Sprintf("%d of %d filters failed", failed, total), nil)
	}
	return nil
}

func translateError(err error) error {
	if errors.Is(err, filtersql.ErrInvalidOption) {
		return cli.ConfigError("invalid translation settings", err)
	}
	return cli.FilterError("translating filter", err)
}

// writeResult prints res in the given format. JSON is written as one object
// per line and YAML as one document per result.
func writeResult(w io.Writer, format, filter string, shift int, res *filtersql.Result) error {
	out := translateOutput{Filter: filter, SQL: res.SQL, Args: res.Args}
	if out.Args == nil {
		out.Args = []any{}
	}

	switch format {
	case cli.FormatText, "":
		fmt.Fprintln(w, res.SQL)
		for i, arg := range res.Args {
			fmt.Fprintf(w, "-- $%d = %v\n", shift+i+1, arg)
		}
		return nil
	case cli.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(out); err != nil {
			return cli.GeneralError("encoding result", err)
		}
		return nil
	case cli.FormatYAML:
		b, err := yaml.Marshal(out)
		if err != nil {
			return cli.GeneralError("encoding result", err)
		}
		_, err = fmt.Fprintf(w, "---\n%s", b)
		return err
	}
	return cli.ConfigError(fmt.Sprintf("unknown output format %q", format), nil)
}
