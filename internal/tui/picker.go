// pattern: Imperative Shell

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"projman/internal/library"
)

// projectItem wraps a project for display in a list.
type projectItem struct {
	project library.Project
}

func (i projectItem) Title() string       { return i.project.Name }
func (i projectItem) Description() string { return i.project.Path }
func (i projectItem) FilterValue() string { return i.project.Name }

// projectDelegate renders one project per row with its path underneath.
type projectDelegate struct {
	styles *Styles
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 0 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(projectItem)
	if !ok {
		return
	}

	indicator := "  "
	title := d.styles.NameStyle().Render(pi.project.Name)
	if index == m.Index() {
		indicator = d.styles.SelectedStyle().Render("▸ ")
		title = d.styles.SelectedStyle().Render(pi.project.Name)
	}
	path := d.styles.PathStyle().Render(pi.project.Path)

	_, _ = fmt.Fprintf(w, "%s%s\n    %s", indicator, title, path)
}

func toListItems(projects []library.Project) []list.Item {
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectItem{project: p}
	}
	return items
}

// PickerModel lets the user choose one project. Enter picks the selection,
// esc, q and ctrl+c cancel. "/" filters by name.
type PickerModel struct {
	list      list.Model
	chosen    *library.Project
	cancelled bool
}

// NewPickerModel lists projects for selection.
func NewPickerModel(projects []library.Project, styles *Styles) PickerModel {
	if styles == nil {
		styles = NewStyles("")
	}
	l := list.New(toListItems(projects), projectDelegate{styles: styles}, 60, 20)
	l.Title = "Projects"
	l.Styles.Title = styles.TitleStyle()
	l.SetShowStatusBar(false)
	return PickerModel{list: l}
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(projectItem); ok {
				p := item.project
				m.chosen = &p
			} else {
				m.cancelled = true
			}
			return m, tea.Quit
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			m.cancelled = true
			return m, tea.Quit
		case "q", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PickerModel) View() string {
	if m.chosen != nil || m.cancelled {
		return ""
	}
	return m.list.View()
}

// Chosen returns the picked project, if any.
func (m PickerModel) Chosen() (library.Project, bool) {
	if m.chosen == nil {
		return library.Project{}, false
	}
	return *m.chosen, true
}

// Pick runs the picker on the terminal. It returns false when the user
// cancels or there is nothing to pick from.
func Pick(projects []library.Project, styles *Styles, in io.Reader, out io.Writer) (library.Project, bool, error) {
	if len(projects) == 0 {
		return library.Project{}, false, nil
	}

	program := tea.NewProgram(
		NewPickerModel(projects, styles),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := program.Run()
	if err != nil {
		return library.Project{}, false, fmt.Errorf("running picker: %w", err)
	}
	m, ok := final.(PickerModel)
	if !ok {
		return library.Project{}, false, nil
	}
	p, ok := m.Chosen()
	return p, ok, nil
}
