// Package preflight validates the external collaborators a profiling
// session depends on before any process is spawned, so a missing tool
// aborts the run without leaving orphaned children behind.
package preflight

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

type CheckFunc func() error

// Executable checks that a binary is resolvable through PATH (or is a
// valid explicit path).
func Executable(name string) CheckFunc {
	return func() error {
		if _, err := exec.LookPath(name); err != nil {
			return errors.Wrapf(err, "required executable %q not found", name)
		}

		return nil
	}
}

// File checks that a regular file exists at the given path.
func File(path string) CheckFunc {
	return func() error {
		info, err := os.Stat(path)
		if err != nil {
			return errors.Wrapf(err, "required file %q not found", path)
		}
		if info.IsDir() {
			return errors.Errorf("required file %q is a directory", path)
		}

		return nil
	}
}

// Run executes the checks in order and returns the first failure.
func Run(checks ...CheckFunc) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}

	return nil
}
