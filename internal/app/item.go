package app

import (
	"context"
	"errors"
	"sync"

	"gofinances/internal/api"
	"gofinances/internal/core"
	"gofinances/internal/events"
	applog "gofinances/internal/log"
)

// ItemDeps are shared by every TransactionItem of a list.
type ItemDeps struct {
	Deleter   api.TransactionDeleter
	Publisher events.Publisher
	Notifier  Notifier
	Logger    *applog.Logger
}

// TransactionItem is one row of the transaction list.
type TransactionItem struct {
	tx   core.Transaction
	deps ItemDeps
}

func NewTransactionItem(tx core.Transaction, deps ItemDeps) TransactionItem {
	if deps.Logger == nil {
		deps.Logger = applog.Default()
	}
	return TransactionItem{tx: tx, deps: deps}
}

func (i TransactionItem) Transaction() core.Transaction { return i.tx }

// Amount is the signed display value, e.g. "- 1.234,56".
func (i TransactionItem) Amount() string {
	return core.FormatAmount(i.tx.Value, i.tx.Type)
}

// Currency is Amount behind the "R$ " prefix.
func (i TransactionItem) Currency() string {
	return core.FormatCurrency(i.tx.Value, i.tx.Type)
}

func (i TransactionItem) CategoryTitle() string {
	return i.tx.Category.Title
}

// RequestDelete opens the two-option confirmation for this item. Nothing is
// sent until Accept is called.
func (i TransactionItem) RequestDelete() *Confirmation {
	return &Confirmation{
		Title:   DeleteTitle,
		Message: DeleteMessage,
		Cancel:  OptionCancel,
		Confirm: OptionConfirm,
		item:    i,
	}
}

// Confirmation is the pending delete dialog. Resolve it with Accept or
// Dismiss; only the first resolution counts.
type Confirmation struct {
	Title   string
	Message string
	Cancel  string
	Confirm string

	item TransactionItem
	once sync.Once
}

// Dismiss is the cancel option; it does nothing else.
func (c *Confirmation) Dismiss() {
	c.once.Do(func() {})
}

// Accept sends the delete request. On success a Deleted event is published.
// On failure the user is notified, no event is published and the error is
// returned.
func (c *Confirmation) Accept(ctx context.Context) error {
	err := ErrAlreadyResolved
	c.once.Do(func() { err = c.item.delete(ctx) })
	return err
}

// ErrAlreadyResolved is returned by Accept after the dialog was answered.
var ErrAlreadyResolved = errors.New("confirmation already resolved")

func (i TransactionItem) delete(ctx context.Context) error {
	logger := i.deps.Logger.WithComponent(applog.ComponentTransaction)
	if err := i.deps.Deleter.DeleteTransaction(ctx, i.tx.ID); err != nil {
		logger.WarnContext(ctx, "Transaction delete failed",
			applog.FieldOperation, applog.OpDelete,
			applog.FieldTransactionID, i.tx.ID,
			applog.FieldError, err)
		if i.deps.Notifier != nil {
			i.deps.Notifier.Notify(MsgDeleteFailed)
		}
		return err
	}

	logger.InfoContext(ctx, "Transaction deleted", applog.FieldTransactionID, i.tx.ID)
	if i.deps.Publisher != nil {
		i.deps.Publisher.Publish(events.Event{Kind: events.Deleted, TransactionID: i.tx.ID})
	}
	return nil
}
