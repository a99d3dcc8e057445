package profile

import (
	"golang.org/x/sys/unix"
)

// Mode selects how the debugger takes control of the target: by attaching
// to a running process or by launching a new one under its control.
type Mode string

const (
	ModeAttach Mode = "attach"
	ModeLaunch Mode = "launch"
)

const (
	// SampleSignal is delivered to the target at the sampling frequency.
	// The generated debugger script arms a catch-point on it that dumps
	// the light-thread stacks and resumes the target.
	SampleSignal = unix.SIGPROF

	// StopSignal terminates an attach-mode debugger session. The script
	// arms a second catch-point on it that detaches and quits, so the
	// debugger does not stay attached after sampling ends.
	StopSignal = unix.SIGUSR2
)

// DefaultDebugger and DefaultRenderer are the external collaborators the
// profiler drives. Both are looked up on PATH unless overridden.
const (
	DefaultDebugger = "gdb"
	DefaultRenderer = "flamegraph.pl"
)
