package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanotasks/formats"
	"github.com/arthur-debert/nanotasks/internal/config"
	"github.com/arthur-debert/nanotasks/nanotasks/export"
	"github.com/arthur-debert/nanotasks/nanotasks/form"
	"github.com/arthur-debert/nanotasks/nanotasks/store"
	"github.com/arthur-debert/nanotasks/types"
)

func (cli *CLI) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [archive.zip]",
		Short: "Write every task to a zip archive",
		Long: fmt.Sprintf(`Write every task to a zip archive holding %s and one document per
task under pending/ and completed/.

Available formats: %s`, export.CollectionFile, strings.Join(formats.List(), ", ")),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formats.Get(cli.cfg.Export.Format)
			if err != nil {
				return NewValidationError("export tasks", "format", cli.cfg.Export.Format, CommonSuggestions.CheckFormat)
			}

			path := export.ArchiveName(cli.now())
			if len(args) == 1 {
				path = args[0]
			}

			if err := cli.app.Export(path, format); err != nil {
				return WrapError("export tasks", err, CommonSuggestions.CheckPerms)
			}
			cli.printf(cmd, "Exported %d tasks to %s\n", cli.app.Store.Len(), path)
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "", "task document format (default plaintext)")
	_ = config.BindFlags(cli.v, cmd.Flags(), map[string]string{config.KeyExportFormat: "format"})
	return cmd
}

func (cli *CLI) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>...",
		Short: "Add tasks from documents, directories or export archives",
		Long: `Add tasks from task documents (.txt, .md), directories of documents,
export archives (.zip) or raw collections (.json). Every task is submitted
like a new task from the form, so it gets a fresh id and is validated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var imported int
			var failures []error
			for _, arg := range args {
				tasks, err := readImport(arg)
				if err != nil {
					failures = append(failures, err)
					continue
				}
				for _, src := range tasks {
					if err := cli.importTask(src.task); err != nil {
						failures = append(failures, fmt.Errorf("%s: %w", src.name, err))
						continue
					}
					imported++
				}
			}

			if err := cli.checkSaved("import tasks"); err != nil {
				return err
			}
			cli.printf(cmd, "Imported %d tasks\n", imported)
			for _, f := range failures {
				cli.loggers.Main.Warn("import skipped", "error", f)
			}
			if len(failures) > 0 {
				return &CLIError{
					Operation:   "import tasks",
					Cause:       fmt.Sprintf("%d item(s) could not be imported", len(failures)),
					Details:     errors.Join(failures...).Error(),
					Suggestions: []string{CommonSuggestions.CheckDate, CommonSuggestions.CheckPriority},
				}
			}
			return nil
		},
	}
}

// importTask submits task through the form and keeps its completed state.
func (cli *CLI) importTask(task types.Task) error {
	cli.app.Form.Cancel()
	cli.app.Form.Stage(form.Fields{
		Title:       task.Title,
		Description: task.Description,
		Date:        task.Date,
		Priority:    task.Priority,
	})
	saved, err := cli.app.Form.Submit()
	if err != nil {
		cli.app.Form.Cancel()
		return err
	}
	if task.Completed {
		cli.app.Store.ToggleCompleted(saved.ID)
	}
	return nil
}

type importedTask struct {
	name string
	task types.Task
}

// readImport reads every task found at path.
func readImport(path string) ([]importedTask, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		var out []importedTask
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := formats.ForExtension(filepath.Ext(p)); !ok {
				return nil
			}
			tasks, err := readImportFile(p)
			if err != nil {
				return err
			}
			out = append(out, tasks...)
			return nil
		})
		return out, err
	}
	return readImportFile(path)
}

func readImportFile(path string) ([]importedTask, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var tasks []types.Task
	switch ext {
	case ".zip":
		var err error
		if tasks, err = export.ReadArchive(path); err != nil {
			return nil, err
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if tasks, err = store.Decode(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		format, ok := formats.ForExtension(ext)
		if !ok {
			return nil, fmt.Errorf("%s: unsupported file type %q", path, ext)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		task, err := format.Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		tasks = []types.Task{task}
	}

	out := make([]importedTask, 0, len(tasks))
	for i, t := range tasks {
		name := path
		if len(tasks) > 1 {
			name = fmt.Sprintf("%s[%d]", path, i)
		}
		out = append(out, importedTask{name: name, task: t})
	}
	return out, nil
}
