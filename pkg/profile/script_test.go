package profile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ltprof/ltprof/pkg/profile"
)

func TestRenderAttachScript(t *testing.T) {
	script := profile.NewScript(
		profile.WithScriptMode(profile.ModeAttach),
		profile.WithScriptWalkerPath("/opt/walker.py"),
	)

	text, err := script.Render()
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(text, "set pagination off\n"),
		"pagination must be disabled before anything else",
	)
	require.Contains(t, text, "source /opt/walker.py")
	require.Contains(t, text, "catch signal SIGPROF")
	require.Contains(t, text, "catch signal SIGUSR2")
	require.Contains(t, text, "info tsoprofile")
	require.True(t, strings.HasSuffix(text, "continue\n"),
		"the script must resume the target at the end",
	)

	// Each catch-point needs its commands ... continue|quit ... end
	// framing or the debugger will not resume after a stop.
	require.Equal(t, 2, strings.Count(text, "\ncommands\n"))
	require.Equal(t, 2, strings.Count(text, "\nend\n"))
	require.Contains(t, text, "detach\nquit")
}

func TestRenderLaunchScript(t *testing.T) {
	script := profile.NewScript(
		profile.WithScriptMode(profile.ModeLaunch),
		profile.WithScriptWalkerPath("/opt/walker.py"),
	)

	text, err := script.Render()
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(text, "set pagination off\n"))
	require.Contains(t, text, "starti")
	require.Contains(t, text, "info proc",
		"launch mode must report the target pid",
	)
	require.Contains(t, text, "catch signal SIGPROF")
	require.NotContains(t, text, "SIGUSR2",
		"launch mode has no stop catch-point: termination is detected by the child exiting",
	)
	require.Equal(t, 1, strings.Count(text, "\ncommands\n"))
}

func TestRenderIsDeterministic(t *testing.T) {
	for _, mode := range []profile.Mode{profile.ModeAttach, profile.ModeLaunch} {
		script := profile.NewScript(
			profile.WithScriptMode(mode),
			profile.WithScriptWalkerPath("/opt/walker.py"),
			profile.WithScriptDedupFrames(true),
		)

		first, err := script.Render()
		require.NoError(t, err)
		second, err := script.Render()
		require.NoError(t, err)

		require.Equal(t, first, second)
	}
}

func TestRenderDumpCommandFlags(t *testing.T) {
	tests := []struct {
		name  string
		dedup bool
		raw   bool
		want  string
	}{
		{name: "plain", want: "info tsoprofile\n"},
		{name: "dedup", dedup: true, want: "info tsoprofile -u\n"},
		{name: "raw", raw: true, want: "info tsoprofile -v\n"},
		{name: "both", dedup: true, raw: true, want: "info tsoprofile -u -v\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := profile.NewScript(
				profile.WithScriptMode(profile.ModeAttach),
				profile.WithScriptWalkerPath("/opt/walker.py"),
				profile.WithScriptDedupFrames(tt.dedup),
				profile.WithScriptRawFrames(tt.raw),
			)

			text, err := script.Render()
			require.NoError(t, err)
			require.Contains(t, text, tt.want)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	_, err := profile.NewScript(
		profile.WithScriptMode(profile.ModeAttach),
	).Render()
	require.ErrorIs(t, err, profile.ErrWalkerPathEmpty)

	_, err = profile.NewScript(
		profile.WithScriptWalkerPath("/opt/walker.py"),
	).Render()
	require.ErrorIs(t, err, profile.ErrModeInvalid)
}
