package profile

import (
	"time"

	log "github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

type SamplerOptions struct {
	mode        Mode
	freq        float64
	duration    time.Duration
	sessionPath string

	// targetPid is known upfront in attach mode and discovered from the
	// session file in launch mode.
	targetPid   int
	debuggerPid int

	// readyTimeout bounds the wait for the readiness marker. Zero waits
	// until cancelled.
	readyTimeout time.Duration

	logger *log.Logger

	kill     func(pid int, sig unix.Signal) error
	pidAlive func(pid int) bool
}

type SamplerOption func(*Sampler)

func WithSamplerMode(mode Mode) SamplerOption {
	return func(s *Sampler) {
		s.mode = mode
	}
}

func WithSamplerFrequency(freq float64) SamplerOption {
	return func(s *Sampler) {
		s.freq = freq
	}
}

func WithSamplerDuration(duration time.Duration) SamplerOption {
	return func(s *Sampler) {
		s.duration = duration
	}
}

func WithSamplerSessionPath(sessionPath string) SamplerOption {
	return func(s *Sampler) {
		s.sessionPath = sessionPath
	}
}

func WithSamplerTargetPid(pid int) SamplerOption {
	return func(s *Sampler) {
		s.SamplerOptions.targetPid = pid
	}
}

func WithSamplerDebuggerPid(pid int) SamplerOption {
	return func(s *Sampler) {
		s.debuggerPid = pid
	}
}

func WithSamplerReadyTimeout(timeout time.Duration) SamplerOption {
	return func(s *Sampler) {
		s.readyTimeout = timeout
	}
}

func WithSamplerLogger(logger *log.Logger) SamplerOption {
	return func(s *Sampler) {
		s.logger = logger
	}
}

// WithSamplerKillFn overrides the signal delivery function.
func WithSamplerKillFn(kill func(pid int, sig unix.Signal) error) SamplerOption {
	return func(s *Sampler) {
		s.kill = kill
	}
}

// WithSamplerPidAliveFn overrides the process liveness check.
func WithSamplerPidAliveFn(pidAlive func(pid int) bool) SamplerOption {
	return func(s *Sampler) {
		s.pidAlive = pidAlive
	}
}
