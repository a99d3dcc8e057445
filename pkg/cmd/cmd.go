package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ltprof/ltprof/internal/settings"
	"github.com/ltprof/ltprof/pkg/cmd/options"
	"github.com/ltprof/ltprof/pkg/cmd/record"
	"github.com/ltprof/ltprof/pkg/cmd/render"
	"github.com/ltprof/ltprof/pkg/cmd/run"
)

const logLevelInfo = "info"

func NewRootCmd(opts *options.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:               settings.CmdName,
		Short:             settings.CmdName + " is a sampling profiler for light-thread runtimes",
		Long:              settings.CmdName + ` drives an external debugger to periodically dump the call stacks of all light threads of a target process and renders them as a flame graph.`,
		DisableAutoGenTag: true,
	}
	cmd.AddCommand(record.NewCommand(opts))
	cmd.AddCommand(run.NewCommand(opts))
	cmd.AddCommand(render.NewCommand(opts))

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", logLevelInfo, "Log level (trace, debug, info, warn, error, fatal, panic)")

	return cmd
}

// Execute adds all child commands to the root commands and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := log.New(
		log.ConsoleWriter{Out: os.Stderr},
	).With().Timestamp().Logger()

	opts := options.NewOptions(
		options.WithContext(ctx),
		options.WithLogger(logger),
	)

	if err := NewRootCmd(opts).Execute(); err != nil {
		os.Exit(1)
	}
}
