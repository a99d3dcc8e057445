package profile

import (
	log "github.com/rs/zerolog"
)

type DebuggerOptions struct {
	path        string
	scriptPath  string
	sessionPath string

	logger *log.Logger
}

type DebuggerOption func(*Debugger)

func WithDebuggerPath(path string) DebuggerOption {
	return func(d *Debugger) {
		d.path = path
	}
}

func WithDebuggerScriptPath(scriptPath string) DebuggerOption {
	return func(d *Debugger) {
		d.scriptPath = scriptPath
	}
}

func WithDebuggerSessionPath(sessionPath string) DebuggerOption {
	return func(d *Debugger) {
		d.sessionPath = sessionPath
	}
}

func WithDebuggerLogger(logger *log.Logger) DebuggerOption {
	return func(d *Debugger) {
		d.logger = logger
	}
}
