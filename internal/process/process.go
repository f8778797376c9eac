// pattern: Imperative Shell

package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"projman/internal/logging"
)

var (
	// ErrExecutableNotFound means the program could not be located or is not executable.
	ErrExecutableNotFound = errors.New("executable not found")
	// ErrInterrupted means the child was killed by a signal or its context was cancelled.
	ErrInterrupted = errors.New("interrupted")
	// ErrOther covers non-zero exits and every other launch failure.
	ErrOther = errors.New("program failed")
)

// Cmd describes a single program invocation.
type Cmd struct {
	Program string
	Args    []string
	Dir     string // Working directory; empty means the current one
	Inherit bool   // Attach the child to this process's stdin/stdout/stderr
	Quiet   bool   // With Inherit, discard the child's stdout
}

// String renders the command line for logs and error messages.
func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Program
	}
	return c.Program + " " + strings.Join(c.Args, " ")
}

// ProgramError is returned by Runner implementations for any failed invocation.
// Kind is one of ErrExecutableNotFound, ErrInterrupted or ErrOther.
type ProgramError struct {
	Program  string
	Kind     error
	ExitCode int // -1 when the process never exited normally
	Err      error
}

func (e *ProgramError) Error() string {
	switch e.Kind {
	case ErrExecutableNotFound:
		return fmt.Sprintf("%s: executable not found", e.Program)
	case ErrInterrupted:
		return fmt.Sprintf("%s: interrupted", e.Program)
	default:
		if e.ExitCode > 0 {
			return fmt.Sprintf("%s: exited with status %d", e.Program, e.ExitCode)
		}
		return fmt.Sprintf("%s: %v", e.Program, e.Err)
	}
}

// Is lets errors.Is match the Kind sentinel.
func (e *ProgramError) Is(target error) bool {
	return target == e.Kind
}

func (e *ProgramError) Unwrap() error {
	return e.Err
}

// Launched is the result of a fire-and-forget start. It means the child is
// running, not that it finished.
type Launched struct {
	PID int

	cmd *exec.Cmd
}

// Wait blocks until the launched child exits.
func (l *Launched) Wait() error {
	if l == nil || l.cmd == nil {
		return nil
	}
	return l.cmd.Wait()
}

// Release detaches from the child so no zombie bookkeeping is kept.
func (l *Launched) Release() error {
	if l == nil || l.cmd == nil || l.cmd.Process == nil {
		return nil
	}
	return l.cmd.Process.Release()
}

// Runner spawns external programs.
type Runner interface {
	// Run starts the program and blocks until it exits.
	Run(ctx context.Context, c Cmd) error
	// Start launches the program without waiting for it.
	Start(ctx context.Context, c Cmd) (*Launched, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	logger *logging.ScopedLogger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewExecRunner creates a runner wired to the process's own standard streams.
func NewExecRunner(logger *logging.ScopedLogger) *ExecRunner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &ExecRunner{
		logger: logger,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// NewExecRunnerWithStreams creates a runner that attaches inherited children
// to the given streams instead of the real terminal (for testing).
func NewExecRunnerWithStreams(logger *logging.ScopedLogger, stdin io.Reader, stdout, stderr io.Writer) *ExecRunner {
	r := NewExecRunner(logger)
	r.stdin, r.stdout, r.stderr = stdin, stdout, stderr
	return r
}

func (r *ExecRunner) command(ctx context.Context, c Cmd) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	cmd.Dir = c.Dir
	if c.Inherit {
		cmd.Stdin = r.stdin
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
		if c.Quiet {
			cmd.Stdout = io.Discard
		}
	}
	return cmd
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Cmd) error {
	cmd := r.command(ctx, c)

	r.logger.Debug("running program", "program", c.Program, "args", c.Args, "dir", c.Dir)

	err := cmd.Run()
	if err == nil {
		r.logger.Debug("program exited cleanly", "program", c.Program)
		return nil
	}

	perr := classify(ctx, c.Program, err)
	r.logger.Warn("program failed", "program", c.Program, "kind", perr.Kind.Error(), "exit_code", perr.ExitCode, "error", err)
	return perr
}

// Start implements Runner. The context only bounds the launch itself; the
// child keeps running after Start returns.
func (r *ExecRunner) Start(ctx context.Context, c Cmd) (*Launched, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProgramError{Program: c.Program, Kind: ErrInterrupted, ExitCode: -1, Err: err}
	}

	cmd := r.command(context.WithoutCancel(ctx), c)

	if err := cmd.Start(); err != nil {
		perr := classify(ctx, c.Program, err)
		r.logger.Warn("program launch failed", "program", c.Program, "kind", perr.Kind.Error(), "error", err)
		return nil, perr
	}

	r.logger.Info("program launched", "program", c.Program, "pid", cmd.Process.Pid, "dir", c.Dir)
	return &Launched{PID: cmd.Process.Pid, cmd: cmd}, nil
}

// classify maps an os/exec error onto one of the ProgramError kinds.
func classify(ctx context.Context, program string, err error) *ProgramError {
	perr := &ProgramError{Program: program, Kind: ErrOther, ExitCode: -1, Err: err}

	if programMissing(program, err) {
		perr.Kind = ErrExecutableNotFound
		return perr
	}

	if ctx.Err() != nil {
		perr.Kind = ErrInterrupted
		return perr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		perr.ExitCode = exitErr.ExitCode()
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			perr.Kind = ErrInterrupted
		}
	}

	return perr
}

// programMissing reports whether err is about the program itself rather than,
// say, a working directory that does not exist.
func programMissing(program string, err error) bool {
	var execErr *exec.Error
	if errors.Is(err, exec.ErrNotFound) || errors.As(err, &execErr) {
		return true
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && pathErr.Path == program {
		return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
	}
	return false
}

// Kind returns which ProgramError class err belongs to, or nil if err is not
// a ProgramError.
func Kind(err error) error {
	var perr *ProgramError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return nil
}
