package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gofinances/internal/app"
	"gofinances/internal/core"
)

type field int

const (
	fieldTitle field = iota
	fieldValue
	fieldCategory
	fieldType
	fieldCount
)

// formScreen holds the text buffers and focus of one create session. The
// form itself owns the parsed state.
type formScreen struct {
	form     *app.CreateForm
	focus    field
	title    string
	value    string
	category string
	sugg     int
}

func (m *Model) openForm() tea.Cmd {
	form := app.NewCreateForm(app.CreateFormDeps{
		Categories: m.cfg.Client,
		Creator:    m.cfg.Client,
		Publisher:  m.broker,
		Notifier:   app.NotifierFunc(m.notify),
		Navigator:  app.NavigatorFunc(m.back),
		Logger:     m.cfg.Logger,
	})
	m.form = &formScreen{form: form}
	m.screen = screenForm
	return func() tea.Msg {
		return categoriesLoadedMsg{err: form.Open(m.ctx)}
	}
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	fs := m.form
	if fs == nil {
		m.screen = screenList
		return nil
	}
	st := fs.form.State()

	switch msg.String() {
	case "esc":
		if fs.focus == fieldCategory && st.ShowSuggestions {
			fs.form.DismissSuggestions()
			return nil
		}
		m.form = nil
		m.screen = screenList
		return nil
	case "ctrl+s":
		if st.Submitting {
			return nil
		}
		form := fs.form
		return func() tea.Msg {
			_, err := form.Submit(m.ctx)
			return submitDoneMsg{err: err}
		}
	case "ctrl+r":
		form := fs.form
		return func() tea.Msg {
			return categoriesLoadedMsg{err: form.Reload(m.ctx)}
		}
	case "ctrl+t":
		fs.form.SetType(toggleType(st.Type))
		return nil
	case "tab":
		m.focusField((fs.focus + 1) % fieldCount)
		return nil
	case "shift+tab":
		m.focusField((fs.focus + fieldCount - 1) % fieldCount)
		return nil
	}

	if fs.focus == fieldCategory && st.ShowSuggestions {
		switch msg.String() {
		case "up":
			if fs.sugg > 0 {
				fs.sugg--
			}
			return nil
		case "down":
			if fs.sugg < len(st.Suggestions)-1 {
				fs.sugg++
			}
			return nil
		case "enter":
			if c, err := fs.form.SelectSuggestion(fs.sugg); err == nil {
				fs.category = c.Title
			}
			return nil
		}
	}

	switch fs.focus {
	case fieldTitle:
		fs.title = editText(fs.title, msg)
		fs.form.SetTitle(fs.title)
	case fieldValue:
		fs.value = editText(fs.value, msg)
		fs.form.SetValue(fs.value)
	case fieldCategory:
		next := editText(fs.category, msg)
		if next != fs.category {
			fs.category = next
			fs.sugg = 0
			fs.form.SetCategory(fs.category)
		}
	case fieldType:
		switch msg.String() {
		case "left", "i":
			fs.form.SetType(core.Income)
		case "right", "o":
			fs.form.SetType(core.Outcome)
		case " ", "enter":
			fs.form.SetType(toggleType(st.Type))
		}
	}
	return nil
}

func (m *Model) focusField(f field) {
	fs := m.form
	if fs.focus == fieldCategory && f != fieldCategory {
		fs.form.DismissSuggestions()
	}
	fs.focus = f
	if f == fieldCategory {
		fs.sugg = 0
		fs.form.FocusCategory()
	}
}

func toggleType(t core.TransactionType) core.TransactionType {
	if t == core.Income {
		return core.Outcome
	}
	return core.Income
}

// editText applies a key press to a single-line buffer.
func editText(s string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		return s + string(msg.Runes)
	case tea.KeySpace:
		return s + " "
	case tea.KeyBackspace:
		r := []rune(s)
		if len(r) == 0 {
			return s
		}
		return string(r[:len(r)-1])
	case tea.KeyCtrlU:
		return ""
	}
	return s
}

func (m *Model) viewForm() string {
	fs := m.form
	if fs == nil {
		return ""
	}
	st := fs.form.State()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Cadastro"))
	b.WriteString("\n\n")

	b.WriteString(renderField("Nome", fs.title, fs.focus == fieldTitle))
	value := fs.value
	if st.ValueInvalid && value != "" {
		value += " " + errorStyle.Render("(valor inválido)")
	}
	b.WriteString(renderField("Preço", value, fs.focus == fieldValue))
	b.WriteString(renderField("Categoria", fs.category, fs.focus == fieldCategory))

	if fs.focus == fieldCategory && st.ShowSuggestions {
		for i, c := range st.Suggestions {
			line := "    " + c.Title
			if i == fs.sugg {
				line = "    " + selectedStyle.Render(c.Title)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString(renderField("Tipo", renderType(st.Type), fs.focus == fieldType))

	if st.Submitting {
		b.WriteString(mutedStyle.Render("Enviando..."))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab campo • ctrl+t tipo • ctrl+s enviar • ctrl+r categorias • esc voltar"))
	return b.String()
}

func renderField(label, value string, focused bool) string {
	l := labelStyle.Render(label)
	if focused {
		l = focusedStyle.Render("> ") + labelStyle.Render(label)
		value += focusedStyle.Render("_")
	} else {
		l = "  " + l
	}
	return l + " " + value + "\n"
}

func renderType(t core.TransactionType) string {
	income, outcome := "( ) Income", "( ) Outcome"
	switch t {
	case core.Income:
		income = incomeStyle.Render("(x) Income")
	case core.Outcome:
		outcome = outcomeStyle.Render("(x) Outcome")
	}
	return income + "  " + outcome
}
