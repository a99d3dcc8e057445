package profile

import (
	"github.com/pkg/errors"
)

var (
	ErrModeInvalid        = errors.New("profiling mode is invalid")
	ErrFrequencyInvalid   = errors.New("sampling frequency must be greater than zero")
	ErrWalkerPathEmpty    = errors.New("no stack walker path specified")
	ErrScriptPathEmpty    = errors.New("no debugger script path specified")
	ErrSessionPathEmpty   = errors.New("no session file path specified")
	ErrOutputPathEmpty    = errors.New("no output path specified")
	ErrTargetPidInvalid   = errors.New("target pid is invalid")
	ErrTargetCommandEmpty = errors.New("target command is empty")
	ErrDebuggerNotStarted = errors.New("debugger is not started")
	ErrReadinessTimeout   = errors.New("timed out waiting for the debugger to become ready")
	ErrNoSamples          = errors.New("no samples captured")
)
