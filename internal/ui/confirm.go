package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is a yes/no prompt.
type ConfirmModel struct {
	question  string
	detail    string
	confirmed bool
	done      bool
	help      help.Model
	keys      keyMap
}

// NewConfirmModel creates a prompt asking question, with optional detail lines below it.
func NewConfirmModel(question, detail string) *ConfirmModel {
	return &ConfirmModel{question: question, detail: detail, help: help.New(), keys: newKeyMap()}
}

func (m *ConfirmModel) Init() tea.Cmd { return nil }

func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.yes):
		m.confirmed = true
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.no), key.Matches(keyMsg, m.keys.quit), key.Matches(keyMsg, m.keys.back):
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *ConfirmModel) View() string {
	if m.done {
		if m.confirmed {
			return styles.OK("Confirmed") + "\n"
		}
		return styles.Warn("Cancelled") + "\n"
	}

	view := styles.Title(m.question)
	if m.detail != "" {
		view = fmt.Sprintf("%s\n%s\n", view, m.detail)
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n", view, helpView)
}

// Confirmed reports whether the user answered yes.
func (m *ConfirmModel) Confirmed() bool { return m.confirmed }

// Confirm runs the prompt on the given streams and reports the answer.
func Confirm(ctx context.Context, in io.Reader, out io.Writer, question, detail string) (bool, error) {
	model := NewConfirmModel(question, detail)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))

	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("error running prompt: %w", err)
	}
	return final.(*ConfirmModel).Confirmed(), nil
}
