// pattern: Imperative Shell

package template

import (
	"context"
	"errors"
	"fmt"

	"projman/internal/logging"
	"projman/internal/process"
)

// ErrTemplateCommandFailed is matched by every error Apply returns for a
// failed command.
var ErrTemplateCommandFailed = errors.New("template command failed")

// Remover deletes a project directory. *library.Library satisfies it.
type Remover interface {
	RemovePath(path string) error
}

// ProgressFunc is told about each command just before it runs. index is
// 1-based.
type ProgressFunc func(index, total int, command string)

// CommandFailedError reports the command that broke a template run and the
// result of the rollback that followed. Cleanup is nil when the project
// directory was removed successfully.
type CommandFailedError struct {
	Template string
	Index    int
	Command  string
	Cause    error
	Cleanup  error
}

func (e *CommandFailedError) Error() string {
	msg := fmt.Sprintf("template %q: command %d %q failed: %v", e.Template, e.Index, e.Command, e.Cause)
	if e.Cleanup != nil {
		msg += fmt.Sprintf("; cleanup of project directory also failed: %v", e.Cleanup)
	}
	return msg
}

// Is lets errors.Is match ErrTemplateCommandFailed.
func (e *CommandFailedError) Is(target error) bool {
	return target == ErrTemplateCommandFailed
}

// Unwrap exposes both the command cause and the cleanup failure.
func (e *CommandFailedError) Unwrap() []error {
	if e.Cleanup != nil {
		return []error{e.Cause, e.Cleanup}
	}
	return []error{e.Cause}
}

// ApplyOptions describes where and how a template runs.
type ApplyOptions struct {
	ProjectPath string   // Freshly created, empty project directory
	Shell       string   // Shell program, e.g. "sh"
	ShellArgs   []string // Arguments placed before each command, e.g. ["-c"]
	Quiet       bool     // Discard command stdout
}

// Engine runs templates.
type Engine struct {
	Runner   process.Runner
	Remover  Remover
	Progress ProgressFunc
	Logger   *logging.ScopedLogger
}

// Apply runs every command of t in order inside opts.ProjectPath. The first
// failure stops the run and the project directory is removed through
// Remover, so a partially applied template never survives. The caller must
// have just created ProjectPath.
func (e *Engine) Apply(ctx context.Context, t Template, opts ApplyOptions) error {
	if err := validateCommands(t.Commands); err != nil {
		return fmt.Errorf("template %q: %w", t.Name, err)
	}

	logger := e.Logger.With("template", t.Name, "project", opts.ProjectPath)
	total := len(t.Commands)

	// Ctrl+C reaches the running command; this process has to outlive it to
	// roll back.
	restore := process.IgnoreInterrupts()
	defer restore()

	for i, command := range t.Commands {
		index := i + 1
		if e.Progress != nil {
			e.Progress(index, total, command)
		}

		args := make([]string, 0, len(opts.ShellArgs)+1)
		args = append(args, opts.ShellArgs...)
		args = append(args, command)

		logger.Info("running template command", "index", index, "total", total, "command", command)

		err := e.Runner.Run(ctx, process.Cmd{
			Program: opts.Shell,
			Args:    args,
			Dir:     opts.ProjectPath,
			Inherit: true,
			Quiet:   opts.Quiet,
		})
		if err == nil {
			continue
		}

		failure := &CommandFailedError{
			Template: t.Name,
			Index:    index,
			Command:  command,
			Cause:    err,
		}
		logger.Error("template command failed, rolling back", "index", index, "command", command, "error", err)

		if cleanupErr := e.Remover.RemovePath(opts.ProjectPath); cleanupErr != nil {
			failure.Cleanup = cleanupErr
			logger.Error("rollback failed", "error", cleanupErr)
		}
		return failure
	}

	logger.Info("template applied", "commands", total)
	return nil
}
