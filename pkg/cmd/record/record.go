package record

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ltprof/ltprof/pkg/cmd/options"
	"github.com/ltprof/ltprof/pkg/preflight"
	"github.com/ltprof/ltprof/pkg/profile"
)

const CmdName = "record"

func NewCommand(opts *options.Options) *cobra.Command {
	o := new(Options)
	o.Options = opts

	cmd := &cobra.Command{
		Use:   CmdName,
		Short: "Profile a running process by attaching the debugger to it",
		Long: fmt.Sprintf(`
%s attaches the debugger to a running process, interrupts it at the sampling
frequency to dump the call stacks of all its light threads, and renders the
aggregated stacks as a flame graph.
`, CmdName),
		DisableAutoGenTag: true,
		RunE:              o.Run,
	}

	cmd.Flags().IntVarP(&o.pid, "pid", "p", 0, "PID of the process to profile")
	cmd.Flags().Float64VarP(&o.freq, "freq", "F", 99, "Sampling frequency (Hz)")
	cmd.Flags().DurationVarP(&o.duration, "duration", "d", 0, "Sampling duration (0 samples until interrupted)")
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

	cmd.MarkFlagRequired("pid")
	cmd.MarkFlagRequired("walker")
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
		preflight.Executable(o.debuggerPath),
		preflight.Executable(o.rendererPath),
		preflight.File(o.walkerPath),
	); err != nil {
		return err
	}

	profiler := profile.NewProfiler(
		profile.WithProfilerMode(profile.ModeAttach),
		profile.WithProfilerTargetPid(o.pid),
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
