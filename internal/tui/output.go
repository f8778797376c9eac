// pattern: Imperative Shell

package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"projman/internal/library"
)

// Progress prints template steps as "[i/n] command" lines.
type Progress struct {
	w      io.Writer
	styles *Styles
}

func NewProgress(w io.Writer, styles *Styles) *Progress {
	if styles == nil {
		styles = NewStyles("")
	}
	return &Progress{w: w, styles: styles}
}

// Step reports that command index of total is about to run.
func (p *Progress) Step(index, total int, command string) {
	counter := p.styles.AccentStyle().Render(fmt.Sprintf("[%d/%d]", index, total))
	_, _ = fmt.Fprintf(p.w, "%s %s\n", counter, command)
}

// Done reports a finished action.
func (p *Progress) Done(message string) {
	_, _ = fmt.Fprintf(p.w, "%s %s\n", p.styles.SuccessStyle().Render("✓"), message)
}

// Failed reports a failed action.
func (p *Progress) Failed(message string) {
	_, _ = fmt.Fprintf(p.w, "%s %s\n", p.styles.ErrorStyle().Render("✗"), message)
}

// RenderProjectList writes one project per line. With paths, the path
// column is aligned after the widest name.
func RenderProjectList(w io.Writer, projects []library.Project, paths bool, styles *Styles) error {
	if styles == nil {
		styles = NewStyles("")
	}

	width := 0
	if paths {
		for _, p := range projects {
			width = max(width, ansi.StringWidth(p.Name))
		}
	}

	for _, p := range projects {
		name := styles.NameStyle().Render(p.Name)
		if !paths {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
			continue
		}
		pad := strings.Repeat(" ", width-ansi.StringWidth(p.Name)+2)
		if _, err := fmt.Fprintf(w, "%s%s%s\n", name, pad, styles.PathStyle().Render(p.Path)); err != nil {
			return err
		}
	}
	return nil
}
