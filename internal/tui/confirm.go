package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	c := m.confirm
	if c == nil {
		m.screen = screenList
		return nil
	}
	switch msg.String() {
	case "y", "s", "enter":
		m.screen = screenList
		return func() tea.Msg {
			return deleteDoneMsg{err: c.Accept(m.ctx)}
		}
	case "n", "esc":
		c.Dismiss()
		m.confirm = nil
		m.screen = screenList
	}
	return nil
}

func (m *Model) viewConfirm() string {
	c := m.confirm
	if c == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Title))
	b.WriteString("\n\n")
	b.WriteString(c.Message)
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("[n] " + c.Cancel))
	b.WriteString("   ")
	b.WriteString(outcomeStyle.Render("[y] " + c.Confirm))
	return dialogStyle.Render(b.String())
}
