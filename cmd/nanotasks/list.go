package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanotasks/types"
)

func (cli *CLI) newListCmd() *cobra.Command {
	var status, format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, highest priority first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			of, err := NewOutputFormatter(format)
			if err != nil {
				return err
			}

			var data any
			var sections []section
			switch strings.ToLower(status) {
			case "pending":
				tasks := cli.app.View.Pending()
				data, sections = tasks, []section{{"Pending", tasks}}
			case "completed":
				tasks := cli.app.View.CompletedList()
				data, sections = tasks, []section{{"Completed", tasks}}
			case "all":
				lists := cli.app.View.Partition()
				data, sections = lists, []section{{"Pending", lists.Pending}, {"Completed", lists.Completed}}
			default:
				return NewValidationError("list tasks", "status", status, "Use one of: pending, completed, all")
			}

			if of.Structured() {
				out, err := of.Format(data)
				if err != nil {
					return WrapError("list tasks", err)
				}
				cli.printf(cmd, "%s", out)
				return nil
			}

			for i, s := range sections {
				if i > 0 {
					cli.printf(cmd, "\n")
				}
				if len(sections) > 1 {
					cli.printf(cmd, "%s (%d)\n", s.title, len(s.tasks))
				}
				if len(s.tasks) == 0 {
					cli.printf(cmd, "No %s tasks.\n", strings.ToLower(s.title))
					continue
				}
				cli.printf(cmd, "%s", formatTaskTable(s.tasks))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "pending", "which tasks to show: pending|completed|all")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table|json|yaml")
	return cmd
}

type section struct {
	title string
	tasks []types.Task
}

func (cli *CLI) newStatsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count tasks by status and priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			of, err := NewOutputFormatter(format)
			if err != nil {
				return err
			}

			stats := cli.app.View.Stats()
			if of.Structured() {
				out, err := of.Format(stats)
				if err != nil {
					return WrapError("count tasks", err)
				}
				cli.printf(cmd, "%s", out)
				return nil
			}

			parts := make([]string, 0, len(types.Priorities))
			for _, p := range types.Priorities {
				parts = append(parts, fmt.Sprintf("%s %d", p, stats.ByPriority[p]))
			}
			cli.printf(cmd, "Total:     %d\n", stats.Total)
			cli.printf(cmd, "Pending:   %d (%s)\n", stats.Pending, strings.Join(parts, ", "))
			cli.printf(cmd, "Completed: %d\n", stats.Completed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table|json|yaml")
	return cmd
}
