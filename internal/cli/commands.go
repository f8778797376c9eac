// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"projman/internal/config"
	"projman/internal/library"
	"projman/internal/logging"
	"projman/internal/process"
	"projman/internal/resolve"
	"projman/internal/session"
	"projman/internal/state"
	"projman/internal/template"
	"projman/internal/tui"
)

// ErrUsage is wrapped by errors for malformed command lines.
var ErrUsage = errors.New("invalid arguments")

func usageError(usage string) error {
	return fmt.Errorf("%w\n%s", ErrUsage, usage)
}

// Deps are the collaborators commands run against. Config must already be
// resolved for the current platform.
type Deps struct {
	Config    config.Config
	ConfigDir string
	DataDir   string
	Runner    process.Runner
	Logs      logging.LoggerProvider
	Confirm   resolve.Confirmer
	Styles    *tui.Styles
	Stdout    io.Writer
	Stderr    io.Writer

	// Pick asks the user to choose a project. False means cancelled.
	Pick func(projects []library.Project) (library.Project, bool, error)
}

func (d *Deps) stdout() io.Writer {
	if d.Stdout == nil {
		return os.Stdout
	}
	return d.Stdout
}

func (d *Deps) stderr() io.Writer {
	if d.Stderr == nil {
		return os.Stderr
	}
	return d.Stderr
}

func (d *Deps) logger(scope string) *logging.ScopedLogger {
	if d.Logs == nil {
		return logging.NopLogger()
	}
	return d.Logs.For(scope)
}

func (d *Deps) progress() *tui.Progress {
	return tui.NewProgress(d.stderr(), d.Styles)
}

func (d *Deps) library() (*library.Library, error) {
	return library.New(d.Config.Root, d.Config.DisplayHidden,
		library.WithRunner(d.Runner),
		library.WithLogger(d.logger("library")),
	)
}

func (d *Deps) templates() *template.FileStore {
	return template.NewFileStore(filepath.Join(d.ConfigDir, template.FileName))
}

func (d *Deps) state() *state.File {
	return state.NewFile(d.DataDir)
}

func (d *Deps) confirm(question string, def bool) bool {
	if d.Confirm == nil {
		return false
	}
	return d.Confirm.Confirm(question, def)
}

// withRootLock runs fn holding the lock that serialises library changes.
func (d *Deps) withRootLock(fn func() error) error {
	fl, err := state.Lock(d.DataDir)
	if err != nil {
		return err
	}
	defer state.Cleanup(fl)
	return fn()
}

// resolveProject maps a user token onto a project in lib.
func (d *Deps) resolveProject(lib *library.Library, token string) (library.Project, error) {
	r := resolve.Resolver{
		RecentEnabled: d.Config.Recent,
		Recent:        d.state().Recent(),
		Autocomplete:  d.Config.Autocomplete,
		Confirm:       d.Confirm,
		Logger:        d.logger("resolve"),
	}

	name, ok := r.Resolve(token, lib.Names())
	if !ok {
		if token == resolve.RecentMarker && d.Config.Recent {
			return library.Project{}, fmt.Errorf("no recent project recorded: %w", library.ErrNotFound)
		}
		return library.Project{}, &library.NameError{Name: token, Err: library.ErrNotFound}
	}
	return lib.Get(name)
}

// BuildApp creates and configures the CLI application with all commands and groups.
func BuildApp(version string, d *Deps) *App {
	app := NewApp(version)
	app.Stderr = d.Stderr
	ctx := context.Background()

	app.AddCommand(&Command{
		Name:    "new",
		Summary: "Create a project, optionally from a template",
		Usage:   "Usage: projman new <name> [-t template] [-q] [-o]",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("new", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			tmpl := fs.StringP("template", "t", "", "scaffold with the named template")
			quiet := fs.BoolP("quiet", "q", false, "hide the output of template commands")
			open := fs.BoolP("open", "o", false, "open the project in the editor afterwards")
			if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
				return usageError("Usage: projman new <name> [-t template] [-q] [-o]")
			}
			return runNew(ctx, d, fs.Arg(0), *tmpl, *quiet, *open)
		},
	})

	app.AddCommand(&Command{
		Name:    "list",
		Summary: "List projects",
		Usage:   "Usage: projman list [-p]",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("list", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			paths := fs.BoolP("paths", "p", false, "show each project's path")
			if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
				return usageError("Usage: projman list [-p]")
			}
			lib, err := d.library()
			if err != nil {
				return err
			}
			return tui.RenderProjectList(d.stdout(), lib.Projects(), *paths, d.Styles)
		},
	})

	openCmd := &Command{
		Name:    "open",
		Summary: `Open a project in the editor ("-" for the most recent)`,
		Usage:   "Usage: projman open [name|-] [-s]",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("open", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			shell := fs.BoolP("shell", "s", false, "start a shell instead of the editor")
			if err := fs.Parse(args); err != nil || fs.NArg() > 1 {
				return usageError("Usage: projman open [name|-] [-s]")
			}
			kind := session.KindEditor
			if *shell {
				kind = session.KindShell
			}
			return runOpen(ctx, d, fs.Arg(0), kind)
		},
	}
	app.AddCommand(openCmd)
	app.Default = openCmd

	app.AddCommand(&Command{
		Name:    "rename",
		Summary: "Rename a project",
		Usage:   "Usage: projman rename <name> <new-name>",
		Run: func(args []string) error {
			if len(args) != 2 {
				return usageError("Usage: projman rename <name> <new-name>")
			}
			return runRename(d, args[0], args[1])
		},
	})

	app.AddCommand(&Command{
		Name:    "remove",
		Summary: "Delete a project and everything in it",
		Usage:   "Usage: projman remove <name> [-f]",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("remove", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			force := fs.BoolP("force", "f", false, "do not ask before deleting a non-empty project")
			if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
				return usageError("Usage: projman remove <name> [-f]")
			}
			return runRemove(d, fs.Arg(0), *force)
		},
	})

	app.AddCommand(&Command{
		Name:    "clone",
		Summary: "Clone a git repository into the root",
		Usage:   "Usage: projman clone <remote> [name] [-b branch]",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("clone", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			branch := fs.StringP("branch", "b", "", "branch to check out")
			if err := fs.Parse(args); err != nil || fs.NArg() < 1 || fs.NArg() > 2 {
				return usageError("Usage: projman clone <remote> [name] [-b branch]")
			}
			spec := library.CloneSpec{Remote: fs.Arg(0), Name: fs.Arg(1), Branch: *branch}
			return runClone(ctx, d, spec)
		},
	})

	app.AddCommand(&Command{
		Name:    "recent",
		Summary: "Print the most recently opened project",
		Usage:   "Usage: projman recent",
		Run: func(args []string) error {
			if len(args) != 0 {
				return usageError("Usage: projman recent")
			}
			name := d.state().Recent()
			if name == "" {
				return errors.New("no recent project recorded")
			}
			_, err := fmt.Fprintln(d.stdout(), name)
			return err
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: projman version",
		Run: func(args []string) error {
			_, err := fmt.Fprintln(d.stdout(), version)
			return err
		},
	})

	templateGroup := app.AddGroup("template", "Manage project templates")
	RegisterTemplateCommands(templateGroup, d)

	return app
}

func runNew(ctx context.Context, d *Deps, name, tmplName string, quiet, open bool) error {
	var project library.Project

	err := d.withRootLock(func() error {
		lib, err := d.library()
		if err != nil {
			return err
		}

		var tmpl template.Template
		if tmplName != "" {
			store, err := d.templates().Load()
			if err != nil {
				return err
			}
			if tmpl, err = store.Get(tmplName); err != nil {
				return err
			}
		}

		if project, err = lib.Create(name); err != nil {
			return err
		}

		if tmplName == "" {
			return nil
		}
		engine := &template.Engine{
			Runner:   d.Runner,
			Remover:  lib,
			Progress: d.progress().Step,
			Logger:   d.logger("template"),
		}
		return engine.Apply(ctx, tmpl, template.ApplyOptions{
			ProjectPath: project.Path,
			Shell:       d.Config.TemplateShell.Program,
			ShellArgs:   d.Config.TemplateShell.Args,
			Quiet:       quiet,
		})
	})
	if err != nil {
		return err
	}

	d.progress().Done("created " + project.Path)
	if open {
		return openProject(ctx, d, project, session.KindEditor)
	}
	return nil
}

func runOpen(ctx context.Context, d *Deps, token string, kind session.Kind) error {
	lib, err := d.library()
	if err != nil {
		return err
	}

	var project library.Project
	if token == "" {
		if lib.IsEmpty() {
			return fmt.Errorf("no projects in %s", lib.Root())
		}
		if d.Pick == nil {
			return usageError("Usage: projman open [name|-] [-s]")
		}
		var ok bool
		project, ok, err = d.Pick(lib.Projects())
		if err != nil || !ok {
			return err
		}
	} else if project, err = d.resolveProject(lib, token); err != nil {
		return err
	}

	return openProject(ctx, d, project, kind)
}

func openProject(ctx context.Context, d *Deps, project library.Project, kind session.Kind) error {
	if d.Config.Recent {
		if err := d.state().SetRecent(project.Name); err != nil {
			d.logger("state").Warn("failed to record recent project", "project", project.Name, "error", err)
		}
	}

	result, err := session.Open(ctx, d.Runner, session.For(kind, d.Config), project)
	if err != nil {
		return err
	}
	if launched, ok := result.(session.Launched); ok {
		d.progress().Done(fmt.Sprintf("opened %s (pid %d)", project.Name, launched.PID))
	}
	return nil
}

func runRename(d *Deps, token, newName string) error {
	return d.withRootLock(func() error {
		lib, err := d.library()
		if err != nil {
			return err
		}
		project, err := d.resolveProject(lib, token)
		if err != nil {
			return err
		}
		if err := lib.Rename(project.Name, newName); err != nil {
			return err
		}
		if err := d.state().Renamed(project.Name, newName); err != nil {
			d.logger("state").Warn("failed to update recent project", "error", err)
		}
		d.progress().Done(fmt.Sprintf("renamed %s to %s", project.Name, newName))
		return nil
	})
}

func runRemove(d *Deps, token string, force bool) error {
	return d.withRootLock(func() error {
		lib, err := d.library()
		if err != nil {
			return err
		}
		project, err := d.resolveProject(lib, token)
		if err != nil {
			return err
		}

		if !force {
			empty, err := lib.ProjectIsEmpty(project)
			if err != nil {
				return err
			}
			if !empty && !d.confirm(fmt.Sprintf("%s is not empty. Delete it and everything in it?", project.Name), false) {
				_, _ = fmt.Fprintln(d.stderr(), "aborted")
				return nil
			}
		}

		if err := lib.Remove(project.Name); err != nil {
			return err
		}
		if err := d.state().Removed(project.Name); err != nil {
			d.logger("state").Warn("failed to update recent project", "error", err)
		}
		d.progress().Done("removed " + project.Path)
		return nil
	})
}

func runClone(ctx context.Context, d *Deps, spec library.CloneSpec) error {
	return d.withRootLock(func() error {
		lib, err := d.library()
		if err != nil {
			return err
		}
		if err := lib.Clone(ctx, spec); err != nil {
			return err
		}
		name := spec.Name
		if name == "" {
			name = library.DeriveCloneName(spec.Remote)
		}
		d.progress().Done("cloned into " + lib.PathFor(name))
		return nil
	})
}
