// pattern: Imperative Shell

// Package session opens a project in an editor or a shell.
package session

import (
	"context"
	"fmt"
	"slices"

	"projman/internal/config"
	"projman/internal/library"
	"projman/internal/process"
)

// Kind selects the program a project is opened with.
type Kind string

const (
	KindEditor Kind = "editor"
	KindShell  Kind = "shell"
)

// Session is either an EditorSession or a ShellSession.
type Session interface {
	command(p library.Project) process.Cmd
	fork() bool
	Kind() Kind
}

// EditorSession opens the project directory in an editor. With Fork the
// editor is launched and left running.
type EditorSession struct {
	Program string
	Args    []string
	Fork    bool
}

func (s EditorSession) command(p library.Project) process.Cmd {
	args := append(slices.Clone(s.Args), p.Path)
	return process.Cmd{Program: s.Program, Args: args, Dir: p.Path, Inherit: true}
}

func (s EditorSession) fork() bool { return s.Fork }

// Kind implements Session.
func (EditorSession) Kind() Kind { return KindEditor }

// ShellSession starts an interactive shell in the project directory and
// waits for it to exit.
type ShellSession struct {
	Program string
	Args    []string
}

func (s ShellSession) command(p library.Project) process.Cmd {
	return process.Cmd{Program: s.Program, Args: slices.Clone(s.Args), Dir: p.Path, Inherit: true}
}

func (ShellSession) fork() bool { return false }

// Kind implements Session.
func (ShellSession) Kind() Kind { return KindShell }

// For builds the session of the given kind from a resolved Config.
func For(kind Kind, cfg config.Config) Session {
	if kind == KindShell {
		return ShellSession{Program: cfg.Shell.Program, Args: cfg.Shell.Args}
	}
	return EditorSession{Program: cfg.Editor.Program, Args: cfg.Editor.Args, Fork: cfg.Editor.Fork}
}

// Result is either Completed or Launched.
type Result interface {
	isResult()
}

// Completed means the program ran and exited successfully.
type Completed struct{}

// Launched means the program was started and is still running on its own.
type Launched struct {
	PID int
}

func (Completed) isResult() {}
func (Launched) isResult()  {}

// Open runs s for project p. Wait-mode sessions block with SIGINT ignored in
// this process so an interrupt reaches only the child.
func Open(ctx context.Context, runner process.Runner, s Session, p library.Project) (Result, error) {
	c := s.command(p)
	if c.Program == "" {
		return nil, fmt.Errorf("no %s program configured", s.Kind())
	}

	if s.fork() {
		launched, err := runner.Start(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("launching %s: %w", s.Kind(), err)
		}
		_ = launched.Release()
		return Launched{PID: launched.PID}, nil
	}

	restore := process.IgnoreInterrupts()
	defer restore()

	if err := runner.Run(ctx, c); err != nil {
		return nil, fmt.Errorf("running %s: %w", s.Kind(), err)
	}
	return Completed{}, nil
}
