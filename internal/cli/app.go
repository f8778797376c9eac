// pattern: Functional Core
package cli

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
)

// Command represents a single CLI command with its metadata and handler.
type Command struct {
	Name    string
	Summary string
	Usage   string
	Run     func(args []string) error
}

// Group represents a group of related commands.
type Group struct {
	Name     string
	Summary  string
	Commands map[string]*Command
}

// App represents the top-level CLI application with groups and ungrouped commands.
type App struct {
	groups   map[string]*Group
	commands map[string]*Command
	version  string

	// Stderr receives help text and error messages. Defaults to os.Stderr.
	Stderr io.Writer

	// ExitFunc is called with the exit status of a failed command.
	// Defaults to os.Exit.
	ExitFunc func(int)

	// Default runs when Execute is given no arguments.
	Default *Command
}

// commandOrder is the listing order for top-level help.
var commandOrder = []string{"new", "open", "list", "rename", "remove", "clone", "recent", "version"}

// NewApp creates a new CLI application with the given version.
func NewApp(version string) *App {
	return &App{
		groups:   make(map[string]*Group),
		commands: make(map[string]*Command),
		version:  version,
	}
}

// AddGroup creates and registers a new command group.
func (a *App) AddGroup(name, summary string) *Group {
	g := &Group{
		Name:     name,
		Summary:  summary,
		Commands: make(map[string]*Command),
	}
	a.groups[name] = g
	return g
}

// AddCommand registers an ungrouped (top-level) command.
func (a *App) AddCommand(cmd *Command) {
	a.commands[cmd.Name] = cmd
}

// AddCommand registers a command in the group.
func (g *Group) AddCommand(cmd *Command) {
	g.Commands[cmd.Name] = cmd
}

func (a *App) stderr() io.Writer {
	if a.Stderr == nil {
		return os.Stderr
	}
	return a.Stderr
}

func (a *App) exit(code int) {
	if a.ExitFunc == nil {
		os.Exit(code)
	}
	a.ExitFunc(code)
}

// run invokes cmd and turns a returned error into "error: ..." and exit 1.
func (a *App) run(cmd *Command, args []string) {
	if wantsHelp(args) {
		fmt.Fprintf(a.stderr(), "%s\n", cmd.Usage)
		return
	}
	if err := cmd.Run(args); err != nil {
		fmt.Fprintf(a.stderr(), "error: %v\n", err)
		a.exit(1)
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}

// Execute dispatches the CLI arguments to the appropriate command.
// Returns true when no command was given and the project picker should run.
func (a *App) Execute(args []string) bool {
	if len(args) == 0 {
		return true
	}

	cmdName := args[0]

	if cmdName == "help" {
		a.PrintHelp(a.stderr())
		return false
	}

	if cmd, ok := a.commands[cmdName]; ok {
		a.run(cmd, args[1:])
		return false
	}

	if group, ok := a.groups[cmdName]; ok {
		// Group with no subcommand, "help", or --help/-h
		if len(args) < 2 || args[1] == "help" || args[1] == "--help" || args[1] == "-h" {
			group.PrintHelp(a.stderr())
			return false
		}

		if cmd, ok := group.Commands[args[1]]; ok {
			a.run(cmd, args[2:])
			return false
		}

		fmt.Fprintf(a.stderr(), "error: unknown command %q\n\n", cmdName+" "+args[1])
		group.PrintHelp(a.stderr())
		a.exit(1)
		return false
	}

	fmt.Fprintf(a.stderr(), "error: unknown command %q\n\n", cmdName)
	a.PrintHelp(a.stderr())
	a.exit(1)
	return false
}

// RunDefault runs the Default command with no arguments.
func (a *App) RunDefault() {
	if a.Default == nil {
		a.PrintHelp(a.stderr())
		return
	}
	a.run(a.Default, nil)
}

// PrintHelp prints the top-level help text.
func (a *App) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: projman [options] [command]\n\n")
	fmt.Fprintf(w, "Commands:\n")

	for _, name := range commandOrder {
		if cmd, ok := a.commands[name]; ok {
			fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
		}
	}

	fmt.Fprintf(w, "  %-10s %s\n", "(none)", "Pick a project and open it")

	if len(a.groups) > 0 {
		fmt.Fprintf(w, "\nCommand Groups:\n")
		for _, name := range slices.Sorted(maps.Keys(a.groups)) {
			group := a.groups[name]
			fmt.Fprintf(w, "  %-10s %s\n", group.Name, group.Summary)
		}
	}

	fmt.Fprintf(w, "\nUse \"projman <group> help\" for group details.\n\n")
	fmt.Fprintf(w, "Options:\n")
}

// PrintHelp prints help for a specific group.
func (g *Group) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: projman %s <command>\n\n", g.Name)
	fmt.Fprintf(w, "Commands:\n")
	// Sort command names for deterministic output
	names := slices.Sorted(maps.Keys(g.Commands))
	for _, name := range names {
		cmd := g.Commands[name]
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintf(w, "\nUse \"projman %s <command> --help\" for command details.\n", g.Name)
}
