package profile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ltprof/ltprof/pkg/profile"
)

// Validation failures must abort before any process is spawned.
func TestProfilerValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []profile.ProfilerOption
		want error
	}{
		{
			name: "zero frequency",
			want: profile.ErrFrequencyInvalid,
		},
		{
			name: "missing walker",
			opts: []profile.ProfilerOption{
				profile.WithProfilerFrequency(99),
			},
			want: profile.ErrWalkerPathEmpty,
		},
		{
			name: "missing output",
			opts: []profile.ProfilerOption{
				profile.WithProfilerFrequency(99),
				profile.WithProfilerWalkerPath("/opt/walker.py"),
			},
			want: profile.ErrOutputPathEmpty,
		},
		{
			name: "missing mode",
			opts: []profile.ProfilerOption{
				profile.WithProfilerFrequency(99),
				profile.WithProfilerWalkerPath("/opt/walker.py"),
				profile.WithProfilerOutputPath("/tmp/out.svg"),
			},
			want: profile.ErrModeInvalid,
		},
		{
			name: "attach without pid",
			opts: []profile.ProfilerOption{
				profile.WithProfilerMode(profile.ModeAttach),
				profile.WithProfilerFrequency(99),
				profile.WithProfilerWalkerPath("/opt/walker.py"),
				profile.WithProfilerOutputPath("/tmp/out.svg"),
			},
			want: profile.ErrTargetPidInvalid,
		},
		{
			name: "launch without command",
			opts: []profile.ProfilerOption{
				profile.WithProfilerMode(profile.ModeLaunch),
				profile.WithProfilerFrequency(99),
				profile.WithProfilerWalkerPath("/opt/walker.py"),
				profile.WithProfilerOutputPath("/tmp/out.svg"),
			},
			want: profile.ErrTargetCommandEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := profile.NewProfiler(tt.opts...).Run(context.Background())
			require.ErrorIs(t, err, tt.want)
		})
	}
}

// In launch mode there is no stop catch-point, so a session ended by
// cancellation must take the debugger child down itself; otherwise the
// reaping wait blocks until the target exits on its own.
func TestProfilerLaunchCancellationStopsDebugger(t *testing.T) {
	dir := t.TempDir()

	// Stand-in debugger that accepts any arguments and never exits on
	// its own, like a real one driving a long-running target.
	debuggerPath := filepath.Join(dir, "held-debugger")
	require.NoError(t, os.WriteFile(debuggerPath, []byte("#!/bin/sh\nsleep 60\n"), 0o755))

	profiler := profile.NewProfiler(
		profile.WithProfilerMode(profile.ModeLaunch),
		profile.WithProfilerTargetCommand([]string{"/bin/true"}),
		profile.WithProfilerFrequency(200),
		profile.WithProfilerWalkerPath("/opt/walker.py"),
		profile.WithProfilerOutputPath(filepath.Join(dir, "out.svg")),
		profile.WithProfilerSessionPath(filepath.Join(dir, "session.txt")),
		profile.WithProfilerDebuggerPath(debuggerPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- profiler.Run(ctx) }()

	select {
	case err := <-errCh:
		// The debugger wrote nothing before it was taken down, so the
		// run ends with an empty session.
		require.ErrorIs(t, err, profile.ErrNoSamples)
	case <-time.After(5 * time.Second):
		t.Fatal("cancellation must terminate the debugger child and return")
	}
}
