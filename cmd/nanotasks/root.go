package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/nanotasks/internal/config"
	"github.com/arthur-debert/nanotasks/internal/logging"
	"github.com/arthur-debert/nanotasks/nanotasks"
)

// CLI holds the command tree and the state shared by commands.
type CLI struct {
	rootCmd *cobra.Command
	v       *viper.Viper

	cfg     *config.Config
	loggers *logging.Loggers
	app     *nanotasks.App

	now func() time.Time
}

// NewCLI creates the command tree.
func NewCLI() *CLI {
	cli := &CLI{
		v:   config.New(),
		now: time.Now,
	}
	cli.createRootCommand()
	cli.addCommands()
	return cli
}

// rootFlagBindings maps config keys to persistent flags.
var rootFlagBindings = map[string]string{
	config.KeyStorePath:    "store",
	config.KeyStoreBackend: "backend",
	config.KeyLogLevel:     "log-level",
	config.KeyLogStderr:    "verbose",
}

func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "nanotasks",
		Short: "nanotasks - a small personal task list",
		Long: `nanotasks keeps a list of tasks with a title, description, due date and
priority. Pending and completed tasks are listed separately, highest
priority first.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (NANOTASKS_STORE_PATH, NANOTASKS_LOG_LEVEL, ...)
3. Config file (nanotasks.yaml in ., $HOME/.nanotasks, /etc/nanotasks or NANOTASKS_CONFIG)
4. Defaults

Examples:
  nanotasks add "Buy milk" --date 2024-05-01 --priority high
  nanotasks list
  nanotasks complete 1714521600000
  nanotasks serve --addr 127.0.0.1:8080`,
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}

	flags := cli.rootCmd.PersistentFlags()
	flags.StringP("store", "s", "", "path to the store file (default: per-user data dir)")
	flags.String("backend", "", "storage backend: json|sqlite|memory")
	flags.String("log-level", "", "log level: debug|info|warn|error")
	flags.BoolP("verbose", "v", false, "also write logs to stderr")

	// lookups only fail for unknown flags
	_ = config.BindFlags(cli.v, flags, rootFlagBindings)
}

func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newAddCmd(),
		cli.newEditCmd(),
		cli.newCompleteCmd(),
		cli.newReopenCmd(),
		cli.newDeleteCmd(),
		cli.newListCmd(),
		cli.newStatsCmd(),
		cli.newSearchCmd(),
		cli.newExportCmd(),
		cli.newImportCmd(),
		cli.newServeCmd(),
		cli.newTUICmd(),
	)
}

// Execute runs the command line and releases the store afterwards.
func (cli *CLI) Execute(args []string) error {
	cli.rootCmd.SetArgs(args)
	defer cli.close()
	return cli.rootCmd.Execute()
}

// setup loads configuration, starts logging and opens the store.
func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cli.v)
	if err != nil {
		return NewConfigError("load configuration", err.Error(), CommonSuggestions.CheckConfig)
	}
	cli.cfg = cfg

	loggers, err := logging.Setup(logging.Options{
		Level:        cfg.Log.Level,
		Stderr:       cfg.Log.Stderr,
		StderrWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return WrapError("set up logging", err, CommonSuggestions.CheckPerms)
	}
	cli.loggers = loggers

	app, err := nanotasks.Open(nanotasks.Options{
		Backend: cfg.Backend(),
		Path:    cfg.Store.Path,
		Logger:  loggers.Main,
		Clock:   cli.now,
	})
	if err != nil {
		// refuse to run on top of a store we could not read, the next save
		// would overwrite it
		if app != nil {
			_ = app.Close()
		}
		return NewStoreError("open store", err, CommonSuggestions.CheckStore, CommonSuggestions.CheckPerms)
	}
	cli.app = app

	loggers.Main.Debug("command started", "command", cmd.CommandPath(), "backend", cfg.Store.Backend, "store", cfg.Store.Path)
	return nil
}

func (cli *CLI) close() {
	if cli.app != nil {
		if err := cli.app.Close(); err != nil {
			cli.loggers.Main.Warn("failed to close store", "error", err)
		}
		cli.app = nil
	}
	if cli.loggers != nil {
		_ = cli.loggers.Close()
		cli.loggers = nil
	}
}

// checkSaved retries a failed automatic save once before the process
// exits and turns a second failure into a command error.
func (cli *CLI) checkSaved(operation string) error {
	if cli.app.Store.LastSaveError() == nil {
		return nil
	}
	if err := cli.app.Store.Save(); err != nil {
		return NewStoreError(operation, err, CommonSuggestions.CheckPerms)
	}
	return nil
}

func (cli *CLI) printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
