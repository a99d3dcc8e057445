package profile

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/unix"
)

// EndReason says why the sampling loop exited.
type EndReason string

const (
	EndCancelled       EndReason = "cancelled"
	EndTargetExited    EndReason = "target exited"
	EndDurationElapsed EndReason = "duration elapsed"
)

// SampleResult summarizes one sampling loop run.
type SampleResult struct {
	// Sent is the number of sampling interrupts delivered. Not every
	// interrupt yields a sample: ticks before readiness or after target
	// termination produce none.
	Sent uint64

	// TargetPid is the profiled process id, discovered from the session
	// file in launch mode.
	TargetPid int

	Reason EndReason
}

// Sampler is the fixed-frequency sampling loop combined with the readiness
// detector: a single state machine, driven by one timer, that polls the
// growing session file until the debugger has armed its catch-points and
// then delivers the sampling signal to the target on every tick.
type Sampler struct {
	sent      atomic.Uint64
	ready     bool
	targetPid int

	*SamplerOptions
}

func NewSampler(opts ...SamplerOption) *Sampler {
	sampler := &Sampler{
		SamplerOptions: &SamplerOptions{
			kill:     unix.Kill,
			pidAlive: pidAlive,
		},
	}
	for _, opt := range opts {
		opt(sampler)
	}
	if sampler.logger == nil {
		logger := log.New(log.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		sampler.logger = &logger
	}
	sampler.targetPid = sampler.SamplerOptions.targetPid

	return sampler
}

// Run drives the loop until cancellation, target termination, or the
// configured duration elapses. Readiness is always observed before the
// first interrupt: delivering the sampling signal to a target that has not
// armed its catch-point yet would terminate it instead of dumping stacks.
func (s *Sampler) Run(ctx context.Context) (*SampleResult, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	interval := time.Duration(float64(time.Second) / s.freq)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if s.duration > 0 {
		timer := time.NewTimer(s.duration)
		defer timer.Stop()
		deadline = timer.C
	}

	var readyDeadline <-chan time.Time
	if s.readyTimeout > 0 {
		readyTimer := time.NewTimer(s.readyTimeout)
		defer readyTimer.Stop()
		readyDeadline = readyTimer.C
	}

	s.logger.Debug().
		Float64("freq_hz", s.freq).
		Dur("interval", interval).
		Str("mode", string(s.mode)).
		Msg("sampling loop started")

	for {
		select {
		case <-ctx.Done():
			return s.finish(EndCancelled), nil
		case <-deadline:
			return s.finish(EndDurationElapsed), nil
		case <-readyDeadline:
			return nil, ErrReadinessTimeout
		case <-ticker.C:
			if !s.ready {
				if err := s.pollReady(); err != nil {
					s.logger.Debug().Err(err).Msg("readiness poll failed")
					continue
				}
				if s.ready {
					readyDeadline = nil
					s.logger.Info().Int("pid", s.targetPid).Msg("target ready, sampling started")
				}
				continue
			}

			if s.mode == ModeLaunch && !s.pidAlive(s.debuggerPid) {
				return s.finish(EndTargetExited), nil
			}

			if err := s.kill(s.targetPid, SampleSignal); err != nil {
				// The target may exit between the liveness check
				// and the delivery: normal termination, not an
				// error.
				if errors.Is(err, unix.ESRCH) {
					return s.finish(EndTargetExited), nil
				}

				return nil, errors.Wrap(err, "failed to deliver the sampling signal")
			}
			s.sent.Add(1)
		}
	}
}

// Sent returns the number of sampling interrupts delivered so far. Safe to
// read from the status goroutine while the loop runs.
func (s *Sampler) Sent() uint64 {
	return s.sent.Load()
}

func (s *Sampler) finish(reason EndReason) *SampleResult {
	// In attach mode the debugger stays attached until its stop
	// catch-point fires. A target that already exited took the debugger
	// down with it.
	if s.mode == ModeAttach && reason != EndTargetExited {
		if err := s.kill(s.targetPid, StopSignal); err != nil {
			s.logger.Debug().Err(err).Msg("failed to deliver the stop signal")
		}
	}
	s.logger.Info().
		Uint64("interrupts", s.sent.Load()).
		Str("reason", string(reason)).
		Msg("sampling loop ended")

	return &SampleResult{
		Sent:      s.sent.Load(),
		TargetPid: s.targetPid,
		Reason:    reason,
	}
}

// pollReady re-reads the session file from the beginning and looks for the
// readiness markers. The file doubles as the only channel between the
// controller and the debugger child, so polling it is the synchronization
// primitive here.
func (s *Sampler) pollReady() error {
	data, err := os.ReadFile(s.sessionPath)
	if err != nil {
		return errors.Wrap(err, "failed to read the session file")
	}
	text := string(data)

	switch s.mode {
	case ModeAttach:
		s.ready = strings.Contains(text, attachReadyMarker)
	case ModeLaunch:
		if s.targetPid == 0 {
			if pid, ok := scanTargetPid(text); ok {
				s.targetPid = pid
				s.logger.Debug().Int("pid", pid).Msg("target pid reported by the debugger")
			}
		}
		// The pid report alone is not enough: the catch-point is
		// armed after it, and signaling earlier would kill the
		// target.
		s.ready = s.targetPid != 0 && strings.Contains(text, launchReadyMarker)
	}

	return nil
}

func (s *Sampler) validate() error {
	if s.freq <= 0 {
		return ErrFrequencyInvalid
	}
	if s.sessionPath == "" {
		return ErrSessionPathEmpty
	}
	switch s.mode {
	case ModeAttach:
		if s.targetPid <= 0 {
			return ErrTargetPidInvalid
		}
	case ModeLaunch:
		if s.debuggerPid <= 0 {
			return ErrDebuggerNotStarted
		}
	default:
		return ErrModeInvalid
	}

	return nil
}

// scanTargetPid extracts the target pid from the debugger's `process <pid>`
// report line.
func scanTargetPid(text string) (int, bool) {
	for _, line := range strings.Split(text, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), pidMarker)
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil || pid <= 0 {
			continue
		}

		return pid, true
	}

	return 0, false
}

// pidAlive reports whether pid is still running. Existence alone is not
// enough: an exited child stays visible as a zombie until it is reaped,
// which here happens only after the loop has ended.
func pidAlive(pid int) bool {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	statuses, err := proc.Status()
	if err != nil {
		return false
	}
	for _, status := range statuses {
		if status == process.Zombie {
			return false
		}
	}

	return true
}
