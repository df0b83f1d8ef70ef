package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/rendererhost/internal/app"
	"github.com/five82/rendererhost/internal/kernel"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "rendererhost: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:           "rendererhost",
		Short:         "Desktop host for the renderer and its kernel connection",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.StartPort < 0 || opts.StartPort > kernel.MaxStartPort {
				return fmt.Errorf("invalid --port %d: must be at most %d", opts.StartPort, kernel.MaxStartPort)
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.StartPort, "port", 0, "first kernel port to try (optional, defaults to config or 7666)")
	flags.StringVar(&opts.ConfigPath, "config", "", "override config path (optional)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "override preferences path (optional)")
	flags.IntVar(&opts.FPS, "fps", 0, "frame rate (optional, defaults to config or 30)")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	return cmd
}
