// Package repl implements the interactive read-parse-print loop of the mil
// command as a Bubble Tea model.
package repl

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// EvalFunc turns one line of input into the text to show for it. A non-nil
// error is shown in the error style; its message is the rendered diagnostic.
type EvalFunc func(line string) (string, error)

// Entry is one evaluated input line.
type Entry struct {
	Input  string
	Output string
	Failed bool
}

// Config holds REPL settings.
type Config struct {
	Prompt  string
	History int // entries kept on screen; 0 keeps everything
}

// Model is the Bubble Tea model of the REPL.
type Model struct {
	input    textinput.Model
	eval     EvalFunc
	entries  []Entry
	limit    int
	width    int
	quitting bool

	// Input history for up/down navigation.
	history      []string
	historyIndex int // -1 when not navigating
	draft        string
}

// New creates a REPL model that evaluates lines with eval.
func New(cfg Config, eval EvalFunc) Model {
	ti := textinput.New()
	ti.Prompt = cfg.Prompt
	if ti.Prompt == "" {
		ti.Prompt = "mil> "
	}
	ti.PromptStyle = PromptStyle
	ti.Placeholder = "expression, e.g. a + b * c"
	ti.CharLimit = 4096
	ti.Focus()

	return Model{
		input:        ti,
		eval:         eval,
		limit:        cfg.History,
		historyIndex: -1,
	}
}

// Entries returns the evaluated lines, oldest first.
func (m Model) Entries() []Entry { return m.entries }

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool { return m.quitting }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyUp:
			m.historyPrev()
			return m, nil
		case tea.KeyDown:
			m.historyNext()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit evaluates the current input line.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.SetValue("")
	m.historyIndex = -1
	m.draft = ""

	switch strings.TrimSpace(line) {
	case ":q", ":quit", "exit":
		m.quitting = true
		return m, tea.Quit
	case ":clear":
		m.entries = nil
		return m, nil
	}

	if strings.TrimSpace(line) != "" {
		m.history = append(m.history, line)
	}

	out, err := m.eval(line)
	entry := Entry{Input: line, Output: out}
	if err != nil {
		entry.Output = err.Error()
		entry.Failed = true
	}
	m.entries = append(m.entries, entry)
	if m.limit > 0 && len(m.entries) > m.limit {
		m.entries = m.entries[len(m.entries)-m.limit:]
	}
	return m, nil
}

func (m *Model) historyPrev() {
	if len(m.history) == 0 {
		return
	}
	switch {
	case m.historyIndex == -1:
		m.draft = m.input.Value()
		m.historyIndex = len(m.history) - 1
	case m.historyIndex > 0:
		m.historyIndex--
	}
	m.input.SetValue(m.history[m.historyIndex])
	m.input.CursorEnd()
}

func (m *Model) historyNext() {
	if m.historyIndex == -1 {
		return
	}
	if m.historyIndex < len(m.history)-1 {
		m.historyIndex++
		m.input.SetValue(m.history[m.historyIndex])
	} else {
		m.historyIndex = -1
		m.input.SetValue(m.draft)
	}
	m.input.CursorEnd()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(TitleStyle.Render("mil expression parser"))
	b.WriteByte('\n')
	for _, e := range m.entries {
		b.WriteString(InputStyle.Render(m.input.Prompt + e.Input))
		b.WriteByte('\n')
		if e.Failed {
			b.WriteString(ErrorStyle.Render(e.Output))
		} else {
			b.WriteString(OutputStyle.Render(e.Output))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(HelpStyle.Render("enter: parse • ↑/↓: history • :clear • esc: quit"))
	return b.String()
}
