package profile

import (
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// Debugger owns the debugger child process for one profiling session and
// the session file its standard output is captured to.
type Debugger struct {
	cmd     *exec.Cmd
	session *os.File

	*DebuggerOptions
}

func NewDebugger(opts ...DebuggerOption) *Debugger {
	dbg := &Debugger{
		DebuggerOptions: &DebuggerOptions{
			path: DefaultDebugger,
		},
	}
	for _, opt := range opts {
		opt(dbg)
	}
	if dbg.logger == nil {
		logger := log.New(log.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		dbg.logger = &logger
	}

	return dbg
}

// Attach spawns the debugger attached to an already running target.
func (d *Debugger) Attach(pid int) error {
	if err := d.validate(); err != nil {
		return err
	}

	cmd := exec.Command(d.path, "--batch", "-p", strconv.Itoa(pid), "-x", d.scriptPath)
	cmd.Stderr = os.Stderr

	return d.start(cmd)
}

// Launch spawns the debugger with the target command to run under it.
// The debugger's standard error is discarded: in launch mode only the
// session file content matters.
func (d *Debugger) Launch(argv []string) error {
	if err := d.validate(); err != nil {
		return err
	}
	if len(argv) == 0 {
		return ErrTargetCommandEmpty
	}

	args := []string{"--batch", "-x", d.scriptPath, "--args"}
	args = append(args, argv...)
	cmd := exec.Command(d.path, args...)

	return d.start(cmd)
}

func (d *Debugger) start(cmd *exec.Cmd) error {
	session, err := os.Create(d.sessionPath)
	if err != nil {
		return errors.Wrapf(err, "failed to create session file %s", d.sessionPath)
	}
	cmd.Stdout = session

	// A new process group keeps a user-level interrupt against the
	// controller from reaching the debugger child, which would abort the
	// session before the stop catch-point fires.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		session.Close()
		os.Remove(d.sessionPath)

		return errors.Wrapf(err, "failed to start debugger %s", d.path)
	}

	d.cmd = cmd
	d.session = session
	d.logger.Debug().
		Int("pid", cmd.Process.Pid).
		Str("session_file", d.sessionPath).
		Str("script_file", d.scriptPath).
		Msg("debugger started")

	return nil
}

// Pid returns the debugger child's process id.
func (d *Debugger) Pid() int {
	if d.cmd == nil || d.cmd.Process == nil {
		return 0
	}

	return d.cmd.Process.Pid
}

// Kill forcibly terminates the debugger child. Only used when the session
// cannot be torn down through a stop catch-point: launch mode has none, and
// a failed sampling loop may have left one unarmed. Wait must still be
// called to reap the child.
func (d *Debugger) Kill() error {
	if d.cmd == nil || d.cmd.Process == nil {
		return ErrDebuggerNotStarted
	}

	// The debugger leads its own process group and a launched target
	// runs inside it; signal the group so the target goes down too.
	if err := unix.Kill(-d.cmd.Process.Pid, unix.SIGKILL); err == nil {
		return nil
	}

	return d.cmd.Process.Kill()
}

// Wait reaps the debugger child and closes the session file. It must be
// called exactly once, after the sampling loop has ended. A non-zero exit
// from the debugger is normal here: batch mode exits with the target's
// status.
func (d *Debugger) Wait() error {
	if d.cmd == nil {
		return ErrDebuggerNotStarted
	}
	defer d.session.Close()

	if err := d.cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			d.logger.Debug().Int("code", exitErr.ExitCode()).Msg("debugger exited non-zero")
			return nil
		}

		return errors.Wrap(err, "failed to wait for the debugger")
	}

	return nil
}

func (d *Debugger) validate() error {
	if d.scriptPath == "" {
		return ErrScriptPathEmpty
	}
	if d.sessionPath == "" {
		return ErrSessionPathEmpty
	}

	return nil
}
