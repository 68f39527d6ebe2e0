package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanotasks/internal/config"
	"github.com/arthur-debert/nanotasks/internal/tui"
	"github.com/arthur-debert/nanotasks/internal/web"
)

func (cli *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task page and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := web.NewServer(cli.app,
				web.WithLogger(cli.loggers.Main),
				web.WithAccessLogger(cli.loggers.Access),
			)
			cli.printf(cmd, "Serving tasks on http://%s\n", cli.cfg.Web.Addr)
			if err := server.Run(ctx, cli.cfg.Web.Addr); err != nil {
				return WrapError("serve tasks", err, "Choose another address with --addr")
			}
			return nil
		},
	}

	cmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8080)")
	_ = config.BindFlags(cli.v, cmd.Flags(), map[string]string{config.KeyWebAddr: "addr"})
	return cmd
}

func (cli *CLI) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Manage tasks in a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := tui.Run(cli.app); err != nil {
				return WrapError("run terminal UI", err)
			}
			return cli.checkSaved("run terminal UI")
		},
	}
}
