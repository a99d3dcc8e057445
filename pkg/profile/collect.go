package profile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// SampleTag marks session file lines that carry one folded stack-trace
// string per light thread per sampling tick. Everything else in the file is
// debugger noise.
const SampleTag = "PROFILE;"

// SampleTable maps a folded-stack signature to its occurrence count.
// The sum of all counts equals the number of tagged, non-empty lines in the
// session file.
type SampleTable map[string]uint64

// Collect reads a completed session, recognizes tagged lines, and builds
// the histogram. The result is independent of line order. Zero tagged lines
// yield an empty table, not an error.
func Collect(r io.Reader) (SampleTable, error) {
	table := make(SampleTable)

	scanner := bufio.NewScanner(r)
	// Deep light-thread stacks produce long lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, SampleTag) {
			continue
		}
		signature := strings.TrimSpace(strings.TrimPrefix(line, SampleTag))
		if signature == "" {
			continue
		}
		table[signature]++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan the session file")
	}

	return table, nil
}

// CollectFile collects the samples from a session file on disk.
func CollectFile(path string) (SampleTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open the session file %s", path)
	}
	defer f.Close()

	return Collect(f)
}

// Total returns the number of samples in the table.
func (t SampleTable) Total() uint64 {
	var total uint64
	for _, count := range t {
		total += count
	}

	return total
}
