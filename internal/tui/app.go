package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/quantmind-br/repotxt/internal/config"
)

type screen int

const (
	screenMenu screen = iota
	screenSection
	screenQuit
	screenDone
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Save   key.Binding
	Back   key.Binding
	Quit   key.Binding
	Yes    key.Binding
	No     key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
	Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Yes:    key.NewBinding(key.WithKeys("y", "Y")),
	No:     key.NewBinding(key.WithKeys("n", "N", "esc")),
	Cancel: key.NewBinding(key.WithKeys("c")),
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Model edits the configuration one section at a time. The menu lists every
// section with a summary of its values; the row after the last section saves.
type Model struct {
	screen   screen
	values   *ConfigValues
	cursor   int
	form     *huh.Form
	edited   map[string]bool
	saveErr  error
	save     func(*config.Config) error
	access   bool
	quitting bool
}

// Options configures the editor
type Options struct {
	Config     *config.Config
	SaveFunc   func(*config.Config) error
	Accessible bool
}

func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	return Model{
		values: FromConfig(cfg),
		edited: make(map[string]bool),
		save:   opts.SaveFunc,
		access: opts.Accessible,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) dirty() bool {
	return len(m.edited) > 0
}

func (m Model) onSaveRow() bool {
	return m.cursor == len(Categories)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch m.screen {
		case screenMenu:
			return m.updateMenu(k)
		case screenQuit:
			return m.updateQuit(k)
		case screenDone:
			return m, tea.Quit
		case screenSection:
			if key.Matches(k, keys.Back) {
				m.screen, m.form = screenMenu, nil
				return m, nil
			}
		}
	}

	if m.screen != screenSection || m.form == nil {
		return m, nil
	}

	next, cmd := m.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.edited[Categories[m.cursor].ID] = true
		m.screen, m.form = screenMenu, nil
		return m, nil
	}
	return m, cmd
}

func (m Model) updateMenu(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(k, keys.Down):
		if !m.onSaveRow() {
			m.cursor++
		}
	case key.Matches(k, keys.Save):
		return m.write()
	case key.Matches(k, keys.Open):
		if m.onSaveRow() {
			return m.write()
		}
		return m.openSection()
	case key.Matches(k, keys.Quit):
		if m.dirty() {
			m.screen = screenQuit
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) openSection() (tea.Model, tea.Cmd) {
	form := GetFormForCategory(Categories[m.cursor].ID, m.values)
	if form == nil {
		return m, nil
	}
	if m.access {
		form = form.WithAccessible(true).WithTheme(GetAccessibleTheme())
	}
	m.screen, m.form = screenSection, form
	return m, form.Init()
}

func (m Model) updateQuit(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, keys.Yes):
		return m.write()
	case key.Matches(k, keys.Cancel):
		m.screen = screenMenu
	case key.Matches(k, keys.No):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) write() (tea.Model, tea.Cmd) {
	m.screen = screenDone
	cfg, err := m.values.ToConfig()
	if err == nil && m.save != nil {
		err = m.save(cfg)
	}
	m.saveErr = err
	if err == nil {
		m.edited = make(map[string]bool)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("repotxt configuration"))
	b.WriteString("\n\n")

	switch m.screen {
	case screenMenu:
		b.WriteString(m.menuView())
	case screenSection:
		b.WriteString(m.form.View())
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render(helpLine(keys.Back)))
	case screenQuit:
		b.WriteString(confirmBoxStyle.Render("You have unsaved changes in " +
			strings.Join(m.editedNames(), ", ") + ".\n\nSave before quitting?\n\n[y] Yes  [n] No  [c] Cancel"))
	case screenDone:
		if m.saveErr != nil {
			b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.saveErr)))
		} else {
			b.WriteString(SuccessStyle.Render("Configuration saved."))
		}
		b.WriteString("\n\nPress any key to exit.")
	}
	return b.String()
}

func (m Model) menuView() string {
	var b strings.Builder
	for i, cat := range Categories {
		name := cat.Name
		if m.edited[cat.ID] {
			name += " *"
		}
		line := fmt.Sprintf("%-16s %s", name, summary(cat.ID, m.values))
		if i == m.cursor {
			b.WriteString(SelectedStyle.Render("> " + line))
			b.WriteString("\n")
			b.WriteString(DescriptionStyle.Render("    " + cat.Description))
		} else {
			b.WriteString(UnselectedStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	save := "Save"
	if m.dirty() {
		save = fmt.Sprintf("Save (%d edited)", len(m.edited))
	}
	b.WriteString("\n")
	if m.onSaveRow() {
		b.WriteString(SelectedStyle.Render("> " + save))
	} else {
		b.WriteString(UnselectedStyle.Render("  " + save))
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(helpLine(keys.Up, keys.Down, keys.Open, keys.Save, keys.Quit)))
	return b.String()
}

func (m Model) editedNames() []string {
	var names []string
	for _, cat := range Categories {
		if m.edited[cat.ID] {
			names = append(names, cat.Name)
		}
	}
	return names
}

// summary renders the current values of a section on one line
func summary(id string, v *ConfigValues) string {
	switch id {
	case "github":
		s := fmt.Sprintf("%s, %s retries", v.APIURL, v.MaxRetries)
		if v.Token != "" {
			s += ", token set"
		}
		return s
	case "wiki":
		return v.WikiServiceURL
	case "server":
		return fmt.Sprintf(":%s, origin %s", v.ServerPort, v.FrontendURL)
	case "concurrency":
		workers := v.Workers + " workers"
		if v.Workers == "0" || v.Workers == "" {
			workers = "one per file"
		}
		return fmt.Sprintf("%s, timeout %s", workers, v.Timeout)
	case "output":
		return fmt.Sprintf("%s (%s, %s)", v.OutputDirectory, v.TextFile, v.ZipFile)
	case "logging":
		return v.LogLevel + "/" + v.LogFormat
	}
	return ""
}

// Run starts the configuration editor
func Run(opts Options) error {
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	return err
}
