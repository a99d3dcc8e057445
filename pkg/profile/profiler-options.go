package profile

import (
	"time"

	log "github.com/rs/zerolog"
)

type ProfilerOptions struct {
	mode Mode
	pid  int
	argv []string

	freq         float64
	duration     time.Duration
	readyTimeout time.Duration

	walkerPath   string
	debuggerPath string
	rendererPath string
	outputPath   string
	sessionPath  string
	title        string

	dedupFrames bool
	rawFrames   bool
	keepSession bool
	status      bool

	logger *log.Logger
}

type ProfilerOption func(*Profiler)

func WithProfilerMode(mode Mode) ProfilerOption {
	return func(p *Profiler) {
		p.mode = mode
	}
}

func WithProfilerTargetPid(pid int) ProfilerOption {
	return func(p *Profiler) {
		p.pid = pid
	}
}

func WithProfilerTargetCommand(argv []string) ProfilerOption {
	return func(p *Profiler) {
		p.argv = argv
	}
}

func WithProfilerFrequency(freq float64) ProfilerOption {
	return func(p *Profiler) {
		p.freq = freq
	}
}

func WithProfilerDuration(duration time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.duration = duration
	}
}

func WithProfilerReadyTimeout(timeout time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.readyTimeout = timeout
	}
}

func WithProfilerWalkerPath(walkerPath string) ProfilerOption {
	return func(p *Profiler) {
		p.walkerPath = walkerPath
	}
}

func WithProfilerDebuggerPath(debuggerPath string) ProfilerOption {
	return func(p *Profiler) {
		if debuggerPath != "" {
			p.debuggerPath = debuggerPath
		}
	}
}

func WithProfilerRendererPath(rendererPath string) ProfilerOption {
	return func(p *Profiler) {
		if rendererPath != "" {
			p.rendererPath = rendererPath
		}
	}
}

func WithProfilerOutputPath(outputPath string) ProfilerOption {
	return func(p *Profiler) {
		p.outputPath = outputPath
	}
}

func WithProfilerSessionPath(sessionPath string) ProfilerOption {
	return func(p *Profiler) {
		p.sessionPath = sessionPath
	}
}

func WithProfilerTitle(title string) ProfilerOption {
	return func(p *Profiler) {
		p.title = title
	}
}

func WithProfilerDedupFrames(dedup bool) ProfilerOption {
	return func(p *Profiler) {
		p.dedupFrames = dedup
	}
}

func WithProfilerRawFrames(raw bool) ProfilerOption {
	return func(p *Profiler) {
		p.rawFrames = raw
	}
}

func WithProfilerKeepSession(keep bool) ProfilerOption {
	return func(p *Profiler) {
		p.keepSession = keep
	}
}

func WithProfilerStatus(status bool) ProfilerOption {
	return func(p *Profiler) {
		p.status = status
	}
}

func WithProfilerLogger(logger *log.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}
