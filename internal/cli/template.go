// pattern: Imperative Shell
package cli

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"projman/internal/template"
)

// RegisterTemplateCommands registers the template command group commands.
func RegisterTemplateCommands(group *Group, d *Deps) {
	group.AddCommand(&Command{
		Name:    "add",
		Summary: "Add a template from one or more commands",
		Usage:   "Usage: projman template add <name> <command>...",
		Run: func(args []string) error {
			if len(args) > 0 && args[0] == "--" {
				args = args[1:]
			}
			if len(args) < 2 {
				return usageError("Usage: projman template add <name> <command>...")
			}
			name, commands := args[0], args[1:]
			if err := d.templates().Update(func(s *template.Store) error {
				return s.Add(name, commands)
			}); err != nil {
				return err
			}
			d.progress().Done(fmt.Sprintf("added template %s (%d commands)", name, len(commands)))
			return nil
		},
	})

	group.AddCommand(&Command{
		Name:    "remove",
		Summary: "Remove a template",
		Usage:   "Usage: projman template remove <name>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return usageError("Usage: projman template remove <name>")
			}
			if err := d.templates().Update(func(s *template.Store) error {
				return s.Remove(args[0])
			}); err != nil {
				return err
			}
			d.progress().Done("removed template " + args[0])
			return nil
		},
	})

	group.AddCommand(&Command{
		Name:    "list",
		Summary: "List template names",
		Usage:   "Usage: projman template list",
		Run: func(args []string) error {
			if len(args) != 0 {
				return usageError("Usage: projman template list")
			}
			store, err := d.templates().Load()
			if err != nil {
				return err
			}
			for _, t := range store.List() {
				if _, err := fmt.Fprintln(d.stdout(), t.Name); err != nil {
					return err
				}
			}
			return nil
		},
	})

	group.AddCommand(&Command{
		Name:    "show",
		Summary: "Print the commands of a template",
		Usage:   "Usage: projman template show <name>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return usageError("Usage: projman template show <name>")
			}
			store, err := d.templates().Load()
			if err != nil {
				return err
			}
			t, err := store.Get(args[0])
			if err != nil {
				return err
			}
			return printTemplate(d.stdout(), t)
		},
	})

	group.AddCommand(&Command{
		Name:    "clear",
		Summary: "Remove every template",
		Usage:   "Usage: projman template clear [-f]",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("template clear", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			force := fs.BoolP("force", "f", false, "do not ask for confirmation")
			if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
				return usageError("Usage: projman template clear [-f]")
			}
			if !*force && !d.confirm("Remove all templates?", false) {
				_, _ = fmt.Fprintln(d.stderr(), "aborted")
				return nil
			}
			if err := d.templates().Update(func(s *template.Store) error {
				s.Clear()
				return nil
			}); err != nil {
				return err
			}
			d.progress().Done("cleared templates")
			return nil
		},
	})
}

func printTemplate(w io.Writer, t template.Template) error {
	total := len(t.Commands)
	for i, c := range t.Commands {
		if _, err := fmt.Fprintf(w, "%*d. %s\n", len(fmt.Sprint(total)), i+1, c); err != nil {
			return err
		}
	}
	return nil
}
