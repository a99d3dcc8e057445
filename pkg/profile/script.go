package profile

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// dumpCommand is the command the stack-walking extension registers with the
// debugger. It prints one tagged folded-stack line per running light thread.
const dumpCommand = "info tsoprofile"

// The script templates are pure data: parameterized per render, never
// mutated at runtime.
//
// In attach mode the target is already running. The first catch-point dumps
// stacks on every sampling signal and resumes, the second one tears the
// session down on the stop signal.
const attachScriptFmt = `set pagination off
source %[1]s
catch signal %[2]s
commands
silent
%[4]s
continue
end
catch signal %[3]s
commands
detach
quit
end
continue
`

// In launch mode the debugger starts the target itself: halt at the first
// instruction, report the target pid, load the walker, arm the sampling
// catch-point and let the target run. No stop signal is needed since the
// session ends when the target exits.
const launchScriptFmt = `set pagination off
starti
info proc
source %[1]s
catch signal %[2]s
commands
silent
%[3]s
continue
end
continue
`

// Readiness markers the sampling loop greps the session file for. The
// debugger confirms every armed catch-point on its standard output, and
// `info proc` reports the launched target's pid.
const (
	attachReadyMarker = "Catchpoint 2 (signal"
	launchReadyMarker = "Catchpoint 1 (signal"
	pidMarker         = "process "
)

type Script struct {
	*ScriptOptions
}

func NewScript(opts ...ScriptOption) *Script {
	script := &Script{
		ScriptOptions: &ScriptOptions{},
	}
	for _, opt := range opts {
		opt(script)
	}

	return script
}

// Render produces the debugger script text for the configured mode.
// The output is deterministic for a given set of options.
func (s *Script) Render() (string, error) {
	if s.walkerPath == "" {
		return "", ErrWalkerPathEmpty
	}

	dump := s.dumpCommand()

	switch s.mode {
	case ModeAttach:
		return fmt.Sprintf(attachScriptFmt,
			s.walkerPath,
			unix.SignalName(SampleSignal),
			unix.SignalName(StopSignal),
			dump,
		), nil
	case ModeLaunch:
		return fmt.Sprintf(launchScriptFmt,
			s.walkerPath,
			unix.SignalName(SampleSignal),
			dump,
		), nil
	default:
		return "", ErrModeInvalid
	}
}

func (s *Script) dumpCommand() string {
	cmd := []string{dumpCommand}
	if s.dedupFrames {
		cmd = append(cmd, "-u")
	}
	if s.rawFrames {
		cmd = append(cmd, "-v")
	}

	return strings.Join(cmd, " ")
}
