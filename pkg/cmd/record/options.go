package record

import (
	"time"

	"github.com/ltprof/ltprof/pkg/cmd/options"
)

type Options struct {
	pid int

	freq         float64
	duration     time.Duration
	readyTimeout time.Duration

	walkerPath   string
	outputPath   string
	sessionPath  string
	debuggerPath string
	rendererPath string
	title        string

	dedupFrames bool
	rawFrames   bool
	keepSession bool
	status      bool

	*options.Options
}
