package render

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ltprof/ltprof/pkg/cmd/options"
	"github.com/ltprof/ltprof/pkg/preflight"
	"github.com/ltprof/ltprof/pkg/profile"
)

const CmdName = "render"

func NewCommand(opts *options.Options) *cobra.Command {
	o := new(Options)
	o.Options = opts

	cmd := &cobra.Command{
		Use:   CmdName,
		Short: "Render a flame graph from a kept session file",
		Long: fmt.Sprintf(`
%s re-exports a flame graph from a session file captured by a previous run,
without profiling again.
`, CmdName),
		DisableAutoGenTag: true,
		RunE:              o.Run,
	}

	cmd.Flags().StringVarP(&o.sessionPath, "session", "s", "", "Path to the session file to render")
	cmd.Flags().StringVarP(&o.outputPath, "output", "o", "", "Path of the flame graph to write")
	cmd.Flags().StringVar(&o.rendererPath, "renderer", profile.DefaultRenderer, "Flame graph renderer executable")
	cmd.Flags().StringVar(&o.title, "title", "", "Flame graph title")

	cmd.MarkFlagRequired("session")
	cmd.MarkFlagRequired("output")

	return cmd
}

func (o *Options) Run(cmd *cobra.Command, _ []string) error {
	logLevel, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		o.Logger.Fatal().Err(err).Msg("invalid log level")
	}
	o.Logger = o.Logger.Level(logLevel)

	if err := preflight.Run(
		preflight.Executable(o.rendererPath),
		preflight.File(o.sessionPath),
	); err != nil {
		return err
	}

	table, err := profile.CollectFile(o.sessionPath)
	if err != nil {
		return errors.Wrap(err, "failed to collect the samples")
	}

	exporter := profile.NewExporter(
		profile.WithExporterRendererPath(o.rendererPath),
		profile.WithExporterOutputPath(o.outputPath),
		profile.WithExporterTitle(o.title),
		profile.WithExporterLogger(&o.Logger),
	)
	if err := exporter.Export(o.Ctx, table); err != nil {
		return errors.Wrap(err, "failed to export the flame graph")
	}

	return nil
}
