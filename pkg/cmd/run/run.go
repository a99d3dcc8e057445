package run

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ltprof/ltprof/pkg/cmd/options"
	"github.com/ltprof/ltprof/pkg/preflight"
	"github.com/ltprof/ltprof/pkg/profile"
)

const CmdName = "run"

func NewCommand(opts *options.Options) *cobra.Command {
	o := new(Options)
	o.Options = opts

	cmd := &cobra.Command{
		Use:   CmdName + " [flags] -- command [args...]",
		Short: "Launch a command under the debugger and profile it",
		Long: fmt.Sprintf(`
%s launches the target command under debugger control, samples the call
stacks of all its light threads until the command exits, and renders the
aggregated stacks as a flame graph.
`, CmdName),
		Args:              cobra.MinimumNArgs(1),
		DisableAutoGenTag: true,
		RunE:              o.Run,
	}

	cmd.Flags().Float64VarP(&o.freq, "freq", "F", 99, "Sampling frequency (Hz)")
	cmd.Flags().DurationVarP(&o.duration, "duration", "d", 0, "Sampling duration (0 samples until the command exits)")
	cmd.Flags().DurationVar(&o.readyTimeout, "ready-timeout", 0, "Bound the wait for debugger readiness (0 waits until interrupted)")

	cmd.Flags().StringVarP(&o.walkerPath, "walker", "w", "", "Path to the debugger extension that walks light-thread stacks")
	cmd.Flags().StringVarP(&o.outputPath, "output", "o", "", "Path of the flame graph to write")
	cmd.Flags().StringVar(&o.sessionPath, "session", "", "Override the session file path")
	cmd.Flags().StringVar(&o.debuggerPath, "debugger", profile.DefaultDebugger, "Debugger executable")
	cmd.Flags().StringVar(&o.rendererPath, "renderer", profile.DefaultRenderer, "Flame graph renderer executable")
	cmd.Flags().StringVar(&o.title, "title", "", "Flame graph title")

	cmd.Flags().BoolVar(&o.dedupFrames, "dedup-frames", false, "Collapse consecutive identical stack frames")
	cmd.Flags().BoolVar(&o.rawFrames, "raw-frames", false, "Keep runtime-internal stack frames")
	cmd.Flags().BoolVar(&o.keepSession, "keep-session", false, "Keep the session file for later re-rendering")
	cmd.Flags().BoolVar(&o.status, "status", true, "Periodically print a status of the session")

	cmd.MarkFlagRequired("walker")
	cmd.MarkFlagRequired("output")

	return cmd
}

func (o *Options) Run(cmd *cobra.Command, args []string) error {
	logLevel, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		o.Logger.Fatal().Err(err).Msg("invalid log level")
	}
	o.Logger = o.Logger.Level(logLevel)

	if err := preflight.Run(
		preflight.Executable(o.debuggerPath),
		preflight.Executable(o.rendererPath),
		preflight.File(o.walkerPath),
		preflight.Executable(args[0]),
	); err != nil {
		return err
	}

	profiler := profile.NewProfiler(
		profile.WithProfilerMode(profile.ModeLaunch),
		profile.WithProfilerTargetCommand(args),
		profile.WithProfilerFrequency(o.freq),
		profile.WithProfilerDuration(o.duration),
		profile.WithProfilerReadyTimeout(o.readyTimeout),
		profile.WithProfilerWalkerPath(o.walkerPath),
		profile.WithProfilerOutputPath(o.outputPath),
		profile.WithProfilerSessionPath(o.sessionPath),
		profile.WithProfilerDebuggerPath(o.debuggerPath),
		profile.WithProfilerRendererPath(o.rendererPath),
		profile.WithProfilerTitle(o.title),
		profile.WithProfilerDedupFrames(o.dedupFrames),
		profile.WithProfilerRawFrames(o.rawFrames),
		profile.WithProfilerKeepSession(o.keepSession),
		profile.WithProfilerStatus(o.status),
		profile.WithProfilerLogger(&o.Logger),
	)

	if err := profiler.Run(o.Ctx); err != nil {
		return errors.Wrap(err, "failed to run the profiler")
	}

	return nil
}
