package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanotasks/nanotasks/search"
	"github.com/arthur-debert/nanotasks/types"
)

func (cli *CLI) newSearchCmd() *cobra.Command {
	var (
		status, format string
		fields         []string
		opts           search.Options
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find tasks whose title or description contains a query",
		Example: `  nanotasks search milk
  nanotasks search --field title --status pending "buy"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			of, err := NewOutputFormatter(format)
			if err != nil {
				return err
			}

			opts.Query = strings.Join(args, " ")
			switch strings.ToLower(status) {
			case "all":
			case string(types.StatusPending), string(types.StatusCompleted):
				opts.Status = types.Status(strings.ToLower(status))
			default:
				return NewValidationError("search tasks", "status", status, "Use one of: pending, completed, all")
			}
			for _, name := range fields {
				f, ok := search.ParseField(name)
				if !ok {
					return NewValidationError("search tasks", "field", name, "Use one of: title, description")
				}
				opts.Fields = append(opts.Fields, f)
			}
			opts.Highlight = of.Structured()

			results := cli.app.Search.Search(opts)
			if of.Structured() {
				out, err := of.Format(results)
				if err != nil {
					return WrapError("search tasks", err)
				}
				cli.printf(cmd, "%s", out)
				return nil
			}

			if len(results) == 0 {
				cli.printf(cmd, "No tasks match %q.\n", opts.Query)
				return nil
			}
			tasks := make([]types.Task, 0, len(results))
			for _, r := range results {
				tasks = append(tasks, r.Task)
			}
			cli.printf(cmd, "%s", formatTaskTable(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "which tasks to search: pending|completed|all")
	cmd.Flags().StringSliceVar(&fields, "field", nil, "restrict to fields: title, description")
	cmd.Flags().BoolVar(&opts.CaseSensitive, "case-sensitive", false, "match case")
	cmd.Flags().BoolVar(&opts.ExactMatch, "exact", false, "require the whole field to match")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum number of results")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table|json|yaml")
	return cmd
}
