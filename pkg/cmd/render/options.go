package render

import (
	"github.com/ltprof/ltprof/pkg/cmd/options"
)

type Options struct {
	sessionPath  string
	outputPath   string
	rendererPath string
	title        string

	*options.Options
}
