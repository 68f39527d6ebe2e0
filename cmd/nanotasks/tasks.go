package main

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanotasks/nanotasks/form"
	"github.com/arthur-debert/nanotasks/types"
)

func (cli *CLI) newAddCmd() *cobra.Command {
	var description, date, priority string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a pending task",
		Long:  "Add a pending task. The date defaults to today and the priority to low.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := types.ParsePriority(priority)
			if err != nil {
				return NewValidationError("add task", "priority", priority, CommonSuggestions.CheckPriority)
			}
			if date == "" {
				date = cli.now().Format(types.DateLayout)
			}

			cli.app.Form.Stage(form.Fields{
				Title:       args[0],
				Description: description,
				Date:        date,
				Priority:    p,
			})
			task, err := cli.app.Form.Submit()
			if err != nil {
				return NewFormError("add task", err)
			}
			if err := cli.checkSaved("add task"); err != nil {
				return err
			}

			cli.printf(cmd, "Added task %d: %s\n", task.ID, task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&date, "date", "", "due date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "low", "priority: low|medium|high")
	return cmd
}

func (cli *CLI) newEditCmd() *cobra.Command {
	var title, description, date, priority string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Long:  "Change fields of a task. Only the given flags are changed; the completed state is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID("edit task", args[0])
			if err != nil {
				return err
			}
			if !cli.app.BeginEdit(id) {
				return NewNotFoundError("edit task", "task", args[0], CommonSuggestions.CheckID)
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				cli.app.Form.SetTitle(title)
			}
			if flags.Changed("description") {
				cli.app.Form.SetDescription(description)
			}
			if flags.Changed("date") {
				cli.app.Form.SetDate(date)
			}
			if flags.Changed("priority") {
				p, err := types.ParsePriority(priority)
				if err != nil {
					cli.app.Form.Cancel()
					return NewValidationError("edit task", "priority", priority, CommonSuggestions.CheckPriority)
				}
				cli.app.Form.SetPriority(p)
			}

			task, err := cli.app.Form.Submit()
			if err != nil {
				return NewFormError("edit task", err)
			}
			if err := cli.checkSaved("edit task"); err != nil {
				return err
			}

			cli.printf(cmd, "Updated task %d: %s\n", task.ID, task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&date, "date", "", "new due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority: low|medium|high")
	return cmd
}

func (cli *CLI) newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.setCompleted(cmd, "complete task", args[0], true)
		},
	}
}

func (cli *CLI) newReopenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id>",
		Short: "Move a completed task back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.setCompleted(cmd, "reopen task", args[0], false)
		},
	}
}

// setCompleted toggles the task only when it is not already in the wanted state.
func (cli *CLI) setCompleted(cmd *cobra.Command, operation, arg string, completed bool) error {
	id, err := parseTaskID(operation, arg)
	if err != nil {
		return err
	}
	task, ok := cli.app.Store.Get(id)
	if !ok {
		return NewNotFoundError(operation, "task", arg, CommonSuggestions.CheckID)
	}

	if task.Completed != completed {
		task, _ = cli.app.Store.ToggleCompleted(id)
		if err := cli.checkSaved(operation); err != nil {
			return err
		}
	}

	cli.printf(cmd, "Task %d is %s: %s\n", task.ID, task.Status(), task.Title)
	return nil
}

func (cli *CLI) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID("delete task", args[0])
			if err != nil {
				return err
			}
			task, ok := cli.app.Store.Get(id)
			if !ok || !cli.app.Store.Remove(id) {
				return NewNotFoundError("delete task", "task", args[0], CommonSuggestions.CheckID)
			}
			if err := cli.checkSaved("delete task"); err != nil {
				return err
			}

			cli.printf(cmd, "Deleted task %d: %s\n", task.ID, task.Title)
			return nil
		},
	}
}

func parseTaskID(operation, arg string) (types.ID, error) {
	id, err := types.ParseID(arg)
	if err != nil {
		return 0, NewValidationError(operation, "task id", arg, CommonSuggestions.CheckID)
	}
	return id, nil
}
