// way-shell is a workspace panel, tray indicator and switcher for sway.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/cpuguy83/way-shell/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("way-shell failed", "error", err)
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "way-shell",
		Short:         "Workspace panel, tray and switchers for sway",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), opts.cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (default: ~/.config/way-shell/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newWorkspacesCmd(opts))
	cmd.AddCommand(newOutputsCmd(opts))
	cmd.AddCommand(newFocusCmd(opts))
	cmd.AddCommand(newMoveToOutputCmd(opts))
	cmd.AddCommand(newSwitchCmd(opts))
	cmd.AddCommand(newSendToCmd(opts))
	cmd.AddCommand(newSettingsCmd(opts))
	cmd.AddCommand(newVersionCmd(opts))

	return cmd
}

// setup loads the configuration and installs the default logger.
func (o *rootOptions) setup() error {
	var err error
	if o.configPath != "" {
		o.cfg, err = config.LoadFrom(o.configPath)
	} else {
		o.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := o.cfg.SlogLevel()
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})))
	return nil
}
