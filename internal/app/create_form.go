package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"gofinances/internal/api"
	"gofinances/internal/core"
	"gofinances/internal/events"
	applog "gofinances/internal/log"
)

var (
	ErrSubmitInFlight = errors.New("submission already in progress")
	ErrNoSuggestion   = errors.New("no such suggestion")
)

// CreateFormDeps are the collaborators of a CreateForm.
type CreateFormDeps struct {
	Categories api.CategoryReader
	Creator    api.TransactionCreator
	Publisher  events.Publisher
	Notifier   Notifier
	Navigator  Navigator
	Logger     *applog.Logger
}

// CreateForm is the state of one "new transaction" session. Methods are safe
// to call from the UI loop and from request goroutines at the same time.
type CreateForm struct {
	deps CreateFormDeps
	log  *applog.Logger

	mu              sync.Mutex
	categories      core.CategorySnapshot
	title           string
	rawValue        string
	value           decimal.Decimal
	valueInvalid    bool
	categoryName    string
	txType          core.TransactionType
	suggestions     []core.Category
	showSuggestions bool
	submitting      bool
}

// FormState is a read-only copy of the form for rendering.
type FormState struct {
	Title           string
	RawValue        string
	Value           decimal.Decimal
	ValueInvalid    bool
	CategoryName    string
	Type            core.TransactionType
	Suggestions     []core.Category
	ShowSuggestions bool
	Submitting      bool
}

func NewCreateForm(deps CreateFormDeps) *CreateForm {
	logger := deps.Logger
	if logger == nil {
		logger = applog.Default()
	}
	return &CreateForm{
		deps:  deps,
		log:   logger.WithComponent(applog.ComponentTransaction),
		value: decimal.Zero,
	}
}

// Open fetches the category snapshot for this session. On failure the user
// is notified and the form stays usable with no suggestions.
func (f *CreateForm) Open(ctx context.Context) error {
	cats, err := f.deps.Categories.ListCategories(ctx)
	if err != nil {
		f.log.WarnContext(ctx, "Failed to load categories", applog.FieldError, err)
		f.notify(MsgLoadCategories)
		return fmt.Errorf("load categories: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = core.NewCategorySnapshot(cats)
	f.suggestions = f.categories.Suggest(f.categoryName)
	return nil
}

// Reload replaces the snapshot with a fresh copy from the API.
func (f *CreateForm) Reload(ctx context.Context) error {
	return f.Open(ctx)
}

// Categories returns the session's snapshot.
func (f *CreateForm) Categories() core.CategorySnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categories
}

func (f *CreateForm) SetTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = title
}

// SetValue parses raw amount text. Unparseable text stores zero and marks the
// value invalid, which blocks Submit.
func (f *CreateForm) SetValue(raw string) {
	v, err := core.ParseValue(raw)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.rawValue = raw
	f.value = v
	f.valueInvalid = err != nil
}

// SetCategory stores the typed text, re-runs the suggestion filter and shows
// the suggestion list.
func (f *CreateForm) SetCategory(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categoryName = text
	f.suggestions = f.categories.Suggest(text)
	f.showSuggestions = true
}

// FocusCategory shows the suggestion list for the current text.
func (f *CreateForm) FocusCategory() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestions = f.categories.Suggest(f.categoryName)
	f.showSuggestions = true
}

func (f *CreateForm) DismissSuggestions() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showSuggestions = false
}

// SelectSuggestion takes the i-th visible suggestion as the category name
// and hides the list.
func (f *CreateForm) SelectSuggestion(i int) (core.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.suggestions) {
		return core.Category{}, ErrNoSuggestion
	}
	c := f.suggestions[i]
	f.categoryName = c.Title
	f.showSuggestions = false
	return c, nil
}

func (f *CreateForm) SetType(t core.TransactionType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txType = t
}

func (f *CreateForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormState{
		Title:           f.title,
		RawValue:        f.rawValue,
		Value:           f.value,
		ValueInvalid:    f.valueInvalid,
		CategoryName:    f.categoryName,
		Type:            f.txType,
		Suggestions:     append([]core.Category(nil), f.suggestions...),
		ShowSuggestions: f.showSuggestions,
		Submitting:      f.submitting,
	}
}

// Submit validates and sends the form. On success a Created event is
// published and the navigator goes back once. Every failure is also shown to
// the user; the fields are left as they were.
func (f *CreateForm) Submit(ctx context.Context) (core.Transaction, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return core.Transaction{}, ErrSubmitInFlight
	}
	n := core.NewTransaction{
		Title:    f.title,
		Value:    f.value,
		Category: f.categoryName,
		Type:     f.txType,
	}
	if err := n.Validate(); err != nil {
		f.mu.Unlock()
		f.log.DebugContext(ctx, "Form rejected", applog.FieldOperation, applog.OpValidate, applog.FieldError, err)
		f.notify(MsgIncompleteForm)
		return core.Transaction{}, err
	}
	f.submitting = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	tx, err := f.deps.Creator.CreateTransaction(ctx, n)
	if err != nil {
		msg, ok := api.ServerMessage(err)
		if !ok {
			msg = MsgGenericError
		}
		f.log.WarnContext(ctx, "Transaction creation failed",
			applog.FieldOperation, applog.OpCreate,
			applog.FieldTitle, n.Title,
			applog.FieldError, err)
		f.notify(msg)
		return core.Transaction{}, err
	}

	f.log.InfoContext(ctx, "Transaction created",
		applog.FieldTransactionID, tx.ID,
		applog.FieldTitle, n.Title,
		applog.FieldValue, n.Value.String(),
		applog.FieldType, string(n.Type),
		applog.FieldCategory, n.Category)

	if f.deps.Publisher != nil {
		f.deps.Publisher.Publish(events.Event{Kind: events.Created, TransactionID: tx.ID})
	}
	if f.deps.Navigator != nil {
		f.deps.Navigator.Back()
	}
	return tx, nil
}

func (f *CreateForm) notify(msg string) {
	if f.deps.Notifier != nil {
		f.deps.Notifier.Notify(msg)
	}
}
