package profile

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
)

// Exporter serializes a SampleTable as sorted folded-stack lines and pipes
// them to the external flame-graph renderer, capturing its output to the
// destination path.
type Exporter struct {
	*ExporterOptions
}

func NewExporter(opts ...ExporterOption) *Exporter {
	exporter := &Exporter{
		ExporterOptions: &ExporterOptions{
			rendererPath: DefaultRenderer,
			title:        "Light thread profile",
		},
	}
	for _, opt := range opts {
		opt(exporter)
	}
	if exporter.logger == nil {
		logger := log.New(log.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		exporter.logger = &logger
	}

	return exporter
}

// Payload builds the renderer input: one `<signature> <count>` line per
// unique signature, sorted ascending. Exporting the same table twice
// produces byte-identical payloads.
func (e *Exporter) Payload(table SampleTable) []byte {
	signatures := make([]string, 0, len(table))
	for signature := range table {
		signatures = append(signatures, signature)
	}
	sort.Strings(signatures)

	var buf bytes.Buffer
	for _, signature := range signatures {
		fmt.Fprintf(&buf, "%s %d\n", signature, table[signature])
	}

	return buf.Bytes()
}

// Export renders the table and writes the image to the output path. The
// output file is written only after the renderer succeeds, so a failed
// export never leaves a partial file in place. The table itself stays
// valid and can be exported again without re-sampling.
func (e *Exporter) Export(ctx context.Context, table SampleTable) error {
	if e.outputPath == "" {
		return ErrOutputPathEmpty
	}
	if len(table) == 0 {
		return ErrNoSamples
	}

	cmd := exec.CommandContext(ctx, e.rendererPath,
		"--title", e.title,
		"--countname", "samples",
	)
	cmd.Stdin = bytes.NewReader(e.Payload(table))

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "renderer %s failed: %s",
			e.rendererPath, strings.TrimSpace(errBuf.String()))
	}

	if err := os.WriteFile(e.outputPath, out.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write the flame graph to %s", e.outputPath)
	}
	e.logger.Info().
		Str("path", e.outputPath).
		Uint64("samples", table.Total()).
		Int("stacks", len(table)).
		Msg("flame graph written")

	return nil
}
