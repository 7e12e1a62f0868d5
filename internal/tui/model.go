// Package tui is the terminal front end: a transaction list, the create form
// and the delete confirmation, driven by the flows in internal/app.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gofinances/internal/api"
	"gofinances/internal/app"
	"gofinances/internal/cache"
	"gofinances/internal/events"
	applog "gofinances/internal/log"
)

const defaultToastDuration = 3 * time.Second

// Client is everything the screens need from the API.
type Client interface {
	api.CategoryReader
	api.TransactionCreator
	api.TransactionDeleter
	api.TransactionLister
}

// Config wires the model.
type Config struct {
	Client        Client
	Broker        *events.Broker
	Cache         cache.Cache[api.TransactionList]
	Logger        *applog.Logger
	ToastDuration time.Duration
}

type screen int

const (
	screenList screen = iota
	screenForm
	screenConfirm
)

// Messages produced by commands.
type (
	listLoadedMsg       struct{ err error }
	categoriesLoadedMsg struct{ err error }
	submitDoneMsg       struct{ err error }
	deleteDoneMsg       struct{ err error }
	changedMsg          struct{}
	toastMsg            struct{ text string }
	toastExpiredMsg     struct{ id int }
	backMsg             struct{}
)

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	cfg    Config
	log    *applog.Logger
	list   *app.TransactionList
	broker *events.Broker

	// notices and navigation coming from command goroutines
	ui chan tea.Msg

	screen  screen
	cursor  int
	loading bool
	loadErr string

	form *formScreen

	confirm *app.Confirmation

	toast   string
	toastID int

	width int
}

// New builds the model. ctx bounds every request the screens make.
func New(ctx context.Context, cfg Config) *Model {
	if cfg.Logger == nil {
		cfg.Logger = applog.Discard()
	}
	if cfg.Broker == nil {
		cfg.Broker = events.NewBroker()
	}
	if cfg.ToastDuration <= 0 {
		cfg.ToastDuration = defaultToastDuration
	}

	m := &Model{
		ctx:    ctx,
		cfg:    cfg,
		log:    cfg.Logger.WithComponent(applog.ComponentUI),
		broker: cfg.Broker,
		ui:     make(chan tea.Msg, 16),
	}
	m.list = app.NewTransactionList(app.ListDeps{
		Lister: cfg.Client,
		Broker: cfg.Broker,
		Cache:  cfg.Cache,
		Item: app.ItemDeps{
			Deleter:  cfg.Client,
			Notifier: app.NotifierFunc(m.notify),
			Logger:   cfg.Logger,
		},
		Logger: cfg.Logger,
	})
	return m
}

// Close releases the list's broker subscription.
func (m *Model) Close() {
	m.list.Close()
}

func (m *Model) notify(text string) {
	m.post(toastMsg{text: text})
}

func (m *Model) back() {
	m.post(backMsg{})
}

// post never blocks the caller; a full queue drops the message.
func (m *Model) post(msg tea.Msg) {
	select {
	case m.ui <- msg:
	default:
		m.log.Warn("UI queue full, dropping message")
	}
}

func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadList(false), m.listenUI(), m.waitForChange())
}

func (m *Model) listenUI() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.ui:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.list.Changed():
			return changedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) loadList(force bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if force {
			_, err = m.list.Refresh(m.ctx)
		} else {
			_, err = m.list.Load(m.ctx)
		}
		return listLoadedMsg{err: err}
	}
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toast = text
	m.toastID++
	id := m.toastID
	return tea.Tick(m.cfg.ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case toastMsg:
		return m, tea.Batch(m.showToast(msg.text), m.listenUI())

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case backMsg:
		if m.screen == screenForm {
			m.form = nil
			m.screen = screenList
		}
		return m, m.listenUI()

	case changedMsg:
		m.loading = true
		return m, tea.Batch(m.loadList(false), m.waitForChange())

	case listLoadedMsg:
		m.loading = false
		m.loadErr = ""
		if msg.err != nil {
			m.loadErr = app.MsgGenericError
		}
		m.clampCursor()
		return m, nil

	case categoriesLoadedMsg, submitDoneMsg:
		// Failures were already reported through the notifier.
		return m, nil

	case deleteDoneMsg:
		m.confirm = nil
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenForm:
			return m, m.updateForm(msg)
		case screenConfirm:
			return m, m.updateConfirm(msg)
		default:
			return m, m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenForm:
		body = m.viewForm()
	case screenConfirm:
		body = m.viewConfirm()
	default:
		body = m.viewList()
	}
	if m.toast != "" {
		body += "\n\n" + toastStyle.Render(m.toast)
	}
	return body + "\n"
}
