package settings

import (
	"fmt"
	"path/filepath"
)

const (
	CmdName = "ltprof"

	workDir = "/tmp"
)

// SessionFile returns the path the debugger's standard output is captured
// to for one profiling run. The suffix keeps concurrent sessions on the
// same host from colliding.
func SessionFile(suffix string) string {
	return filepath.Join(workDir, fmt.Sprintf("%s-session-%s.txt", CmdName, suffix))
}

// ScriptFile returns the path the generated debugger script is written to.
func ScriptFile(suffix string) string {
	return filepath.Join(workDir, fmt.Sprintf("%s-script-%s.gdb", CmdName, suffix))
}
