package profile

import (
	log "github.com/rs/zerolog"
)

type ExporterOptions struct {
	rendererPath string
	outputPath   string
	title        string

	logger *log.Logger
}

type ExporterOption func(*Exporter)

func WithExporterRendererPath(rendererPath string) ExporterOption {
	return func(e *Exporter) {
		e.rendererPath = rendererPath
	}
}

func WithExporterOutputPath(outputPath string) ExporterOption {
	return func(e *Exporter) {
		e.outputPath = outputPath
	}
}

func WithExporterTitle(title string) ExporterOption {
	return func(e *Exporter) {
		if title != "" {
			e.title = title
		}
	}
}

func WithExporterLogger(logger *log.Logger) ExporterOption {
	return func(e *Exporter) {
		e.logger = logger
	}
}
