// pattern: Imperative Shell

package tui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

// ConfirmModel asks a yes/no question. Enter takes the default answer;
// esc and ctrl+c decline.
type ConfirmModel struct {
	question string
	def      bool
	answer   bool
	done     bool
	styles   *Styles
}

// NewConfirmModel creates a prompt for question with the given default.
func NewConfirmModel(question string, def bool, styles *Styles) ConfirmModel {
	if styles == nil {
		styles = NewStyles("")
	}
	return ConfirmModel{question: question, def: def, styles: styles}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.done {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.answer = true
	case "n", "N", "esc", "ctrl+c":
		m.answer = false
	case "enter":
		m.answer = m.def
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m ConfirmModel) View() string {
	hint := "[y/N]"
	if m.def {
		hint = "[Y/n]"
	}
	if m.done {
		reply := "no"
		if m.answer {
			reply = "yes"
		}
		return fmt.Sprintf("%s %s\n", m.question, m.styles.AccentStyle().Render(reply))
	}
	return fmt.Sprintf("%s %s ", m.question, m.styles.HelpStyle().Render(hint))
}

// Answer reports the chosen answer and whether the user answered at all.
func (m ConfirmModel) Answer() (answer, done bool) {
	return m.answer, m.done
}

// Prompter asks confirmation questions on a terminal.
type Prompter struct {
	In     io.Reader
	Out    io.Writer
	Styles *Styles

	// Interactive reports whether In is a terminal. Nil checks os.Stdin.
	Interactive func() bool
}

// NewPrompter returns a Prompter on stdin and stderr.
func NewPrompter(styles *Styles) *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stderr, Styles: styles}
}

func (p *Prompter) interactive() bool {
	if p.Interactive != nil {
		return p.Interactive()
	}
	return term.IsTerminal(os.Stdin.Fd())
}

// Confirm asks question and returns the answer. Without a terminal nobody
// can answer, so the question is declined whatever its default.
func (p *Prompter) Confirm(question string, def bool) bool {
	if !p.interactive() {
		return false
	}

	program := tea.NewProgram(
		NewConfirmModel(question, def, p.Styles),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
	)
	final, err := program.Run()
	if err != nil {
		return def
	}
	m, ok := final.(ConfirmModel)
	if !ok {
		return def
	}
	answer, done := m.Answer()
	if !done {
		return def
	}
	return answer
}
