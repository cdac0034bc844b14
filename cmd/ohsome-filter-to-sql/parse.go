package main

import (
	"fmt"

	"github.com/spf13/cobra"

	filtersql "github.com/GIScience/ohsome-filter-to-sql"
	"github.com/GIScience/ohsome-filter-to-sql/internal/cli"
	"github.com/GIScience/ohsome-filter-to-sql/pkg/parser"
)

var parseCmd = &cobra.Command{
	Use:     "parse [filter]",
	Short:   "Print the syntax tree of a filter",
	Example: `  ohsome-filter-to-sql parse 'natural=tree and (type:node or type:way)'`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := readFilter(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		tree, err := filtersql.Parse(filter, filtersql.WithMaxDepth(cfg.Translate.MaxDepth))
		if err != nil {
			return cli.FilterError("parsing filter", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), parser.Print(tree))
		return nil
	},
}
