package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ltprof/ltprof/pkg/profile"
)

func TestDebuggerValidation(t *testing.T) {
	dbg := profile.NewDebugger(
		profile.WithDebuggerSessionPath(filepath.Join(t.TempDir(), "session.txt")),
	)
	require.ErrorIs(t, dbg.Attach(1), profile.ErrScriptPathEmpty)

	dbg = profile.NewDebugger(
		profile.WithDebuggerScriptPath("/tmp/script.gdb"),
	)
	require.ErrorIs(t, dbg.Launch([]string{"target"}), profile.ErrSessionPathEmpty)

	dbg = profile.NewDebugger(
		profile.WithDebuggerScriptPath("/tmp/script.gdb"),
		profile.WithDebuggerSessionPath(filepath.Join(t.TempDir(), "session.txt")),
	)
	require.ErrorIs(t, dbg.Launch(nil), profile.ErrTargetCommandEmpty)

	require.ErrorIs(t, profile.NewDebugger().Wait(), profile.ErrDebuggerNotStarted)
}

func TestDebuggerSpawnFailure(t *testing.T) {
	sessionPath := filepath.Join(t.TempDir(), "session.txt")
	dbg := profile.NewDebugger(
		profile.WithDebuggerPath("/nonexistent/debugger"),
		profile.WithDebuggerScriptPath("/tmp/script.gdb"),
		profile.WithDebuggerSessionPath(sessionPath),
	)

	require.Error(t, dbg.Attach(1))

	_, err := os.Stat(sessionPath)
	require.True(t, os.IsNotExist(err),
		"a failed spawn must not leave a session file behind",
	)
}

func TestDebuggerLifecycle(t *testing.T) {
	sessionPath := filepath.Join(t.TempDir(), "session.txt")
	dbg := profile.NewDebugger(
		// Stand-in for the real debugger: accepts any arguments and
		// exits immediately.
		profile.WithDebuggerPath("/bin/true"),
		profile.WithDebuggerScriptPath("/tmp/script.gdb"),
		profile.WithDebuggerSessionPath(sessionPath),
	)

	require.NoError(t, dbg.Attach(os.Getpid()))
	require.Greater(t, dbg.Pid(), 0)
	require.NoError(t, dbg.Wait())
	require.FileExists(t, sessionPath)
}
