package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gofinances/internal/app"
	"gofinances/internal/core"
)

func (m *Model) clampCursor() {
	n := len(m.list.Items())
	switch {
	case n == 0:
		m.cursor = 0
	case m.cursor >= n:
		m.cursor = n - 1
	case m.cursor < 0:
		m.cursor = 0
	}
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	items := m.list.Items()
	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "r":
		m.loading = true
		return m.loadList(true)
	case "n":
		return m.openForm()
	case "d":
		if m.cursor < 0 || m.cursor >= len(items) {
			return nil
		}
		m.confirm = items[m.cursor].RequestDelete()
		m.screen = screenConfirm
	}
	return nil
}

func (m *Model) viewList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("gofinances"))
	b.WriteString("\n\n")

	bal := m.list.Balance()
	b.WriteString(balanceStyle.Render(fmt.Sprintf("Entradas %s   Saídas %s   Total %s",
		incomeStyle.Render(core.FormatCurrency(bal.Income, core.Income)),
		outcomeStyle.Render(core.FormatCurrency(bal.Outcome, core.Outcome)),
		core.FormatCurrency(bal.Total, core.Income))))
	b.WriteString("\n")

	items := m.list.Items()
	switch {
	case m.loadErr != "":
		b.WriteString(errorStyle.Render(m.loadErr))
		b.WriteString("\n")
	case m.loading && len(items) == 0:
		b.WriteString(mutedStyle.Render("Carregando..."))
		b.WriteString("\n")
	case len(items) == 0:
		b.WriteString(mutedStyle.Render("Nenhuma transação cadastrada"))
		b.WriteString("\n")
	}

	for i, item := range items {
		b.WriteString(renderItem(item, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ mover • n nova • d excluir • r atualizar • q sair"))
	return b.String()
}

func renderItem(item app.TransactionItem, selected bool) string {
	tx := item.Transaction()
	prefix := "  "
	if selected {
		prefix = cursorStyle.Render("> ")
	}
	amount := incomeStyle.Render(item.Currency())
	if tx.Type == core.Outcome {
		amount = outcomeStyle.Render(item.Currency())
	}
	return fmt.Sprintf("%s%-24s %16s  %s", prefix, tx.Title, amount, mutedStyle.Render(item.CategoryTitle()))
}
