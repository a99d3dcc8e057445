package profile

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"

	"github.com/ltprof/ltprof/internal/output"
	"github.com/ltprof/ltprof/internal/settings"
)

// Profiler glues one profiling session together: script generation,
// debugger spawn, sampling loop, collection, and export.
type Profiler struct {
	*ProfilerOptions
}

func NewProfiler(opts ...ProfilerOption) *Profiler {
	profiler := &Profiler{
		ProfilerOptions: &ProfilerOptions{
			debuggerPath: DefaultDebugger,
			rendererPath: DefaultRenderer,
		},
	}
	for _, opt := range opts {
		opt(profiler)
	}
	if profiler.logger == nil {
		logger := log.New(log.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		profiler.logger = &logger
	}

	return profiler
}

// Run executes the whole session. Cancellation of ctx ends the sampling
// loop early but still collects and exports whatever was captured, so
// partial data is not lost.
func (p *Profiler) Run(ctx context.Context) error {
	if err := p.validate(); err != nil {
		return err
	}

	suffix := p.suffix()
	scriptPath := settings.ScriptFile(suffix)
	sessionPath := p.sessionPath
	if sessionPath == "" {
		sessionPath = settings.SessionFile(suffix)
	}

	script := NewScript(
		WithScriptMode(p.mode),
		WithScriptWalkerPath(p.walkerPath),
		WithScriptDedupFrames(p.dedupFrames),
		WithScriptRawFrames(p.rawFrames),
	)
	text, err := script.Render()
	if err != nil {
		return errors.Wrap(err, "failed to render the debugger script")
	}
	if err := os.WriteFile(scriptPath, []byte(text), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write the debugger script to %s", scriptPath)
	}
	defer os.Remove(scriptPath)

	dbg := NewDebugger(
		WithDebuggerPath(p.debuggerPath),
		WithDebuggerScriptPath(scriptPath),
		WithDebuggerSessionPath(sessionPath),
		WithDebuggerLogger(p.logger),
	)
	switch p.mode {
	case ModeAttach:
		err = dbg.Attach(p.pid)
	case ModeLaunch:
		err = dbg.Launch(p.argv)
	}
	if err != nil {
		return errors.Wrap(err, "failed to start the debugger")
	}

	sampler := NewSampler(
		WithSamplerMode(p.mode),
		WithSamplerFrequency(p.freq),
		WithSamplerDuration(p.duration),
		WithSamplerReadyTimeout(p.readyTimeout),
		WithSamplerSessionPath(sessionPath),
		WithSamplerTargetPid(p.pid),
		WithSamplerDebuggerPid(dbg.Pid()),
		WithSamplerLogger(p.logger),
	)

	statusCtx, stopStatus := context.WithCancel(ctx)
	if p.status {
		go p.printStatusBar(statusCtx, sampler)
	}

	result, runErr := sampler.Run(ctx)
	stopStatus()

	// The debugger must be gone before the wait below or it blocks: a
	// failed loop may have left the stop catch-point unarmed, and launch
	// mode has no stop catch-point at all, so a session ended by
	// cancellation or duration has to take the child down itself.
	if runErr != nil || (p.mode == ModeLaunch && result.Reason != EndTargetExited) {
		if err := dbg.Kill(); err != nil {
			p.logger.Debug().Err(err).Msg("failed to kill the debugger")
		}
	}

	// Reap the debugger child before touching the session file: its
	// output is complete only once it exited, and skipping the wait
	// would leave a zombie.
	if err := dbg.Wait(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to reap the debugger")
	}
	if runErr != nil {
		return errors.Wrap(runErr, "sampling loop failed")
	}

	table, err := CollectFile(sessionPath)
	if err != nil {
		return errors.Wrap(err, "failed to collect the samples")
	}
	p.logger.Info().
		Uint64("samples", table.Total()).
		Uint64("interrupts", result.Sent).
		Int("stacks", len(table)).
		Msg("session collected")

	exporter := NewExporter(
		WithExporterRendererPath(p.rendererPath),
		WithExporterOutputPath(p.outputPath),
		WithExporterTitle(p.title),
		WithExporterLogger(p.logger),
	)

	// Export even after a cancellation ended the loop: the context that
	// stopped sampling must not kill the renderer too.
	if err := exporter.Export(context.WithoutCancel(ctx), table); err != nil {
		return errors.Wrap(err, "failed to export the flame graph")
	}

	if !p.keepSession {
		os.Remove(sessionPath)
	} else {
		p.logger.Info().Str("path", sessionPath).Msg("session file kept")
	}

	return nil
}

func (p *Profiler) printStatusBar(ctx context.Context, sampler *Sampler) {
	start := time.Now()
	output.StatusBar(ctx,
		1*time.Second, // bar refresh interval.
		func() {
			output.PrintRight(output.PrettySampleStatus(
				sampler.Sent(),
				time.Since(start),
			))
		},
	)
}

// suffix derives the session and script file names: the target pid when
// attaching, a time-based value when launching, so concurrent sessions on
// the same host do not collide.
func (p *Profiler) suffix() string {
	if p.mode == ModeAttach {
		return strconv.Itoa(p.pid)
	}

	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

func (p *Profiler) validate() error {
	if p.freq <= 0 {
		return ErrFrequencyInvalid
	}
	if p.walkerPath == "" {
		return ErrWalkerPathEmpty
	}
	if p.outputPath == "" {
		return ErrOutputPathEmpty
	}
	switch p.mode {
	case ModeAttach:
		if p.pid <= 0 {
			return ErrTargetPidInvalid
		}
	case ModeLaunch:
		if len(p.argv) == 0 {
			return ErrTargetCommandEmpty
		}
	default:
		return ErrModeInvalid
	}

	return nil
}
