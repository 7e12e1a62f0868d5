package app

import (
	"context"
	"errors"
	"testing"

	"gofinances/internal/core"
	"gofinances/internal/events"
	applog "gofinances/internal/log"
)

func newItem(fa *fakeAPI, rec *recorder) TransactionItem {
	tx := core.Transaction{
		ID:       "tx-1",
		Title:    "Aluguel",
		Value:    dec("1234.56"),
		Type:     core.Outcome,
		Category: core.Category{ID: "2", Title: "Casa"},
	}
	return NewTransactionItem(tx, ItemDeps{Deleter: fa, Publisher: rec, Notifier: rec, Logger: applog.Discard()})
}

func TestItemFormatting(t *testing.T) {
	item := newItem(&fakeAPI{}, &recorder{})
	if got := item.Amount(); got != "- 1.234,56" {
		t.Errorf("Amount() = %q", got)
	}
	if got := item.CategoryTitle(); got != "Casa" {
		t.Errorf("CategoryTitle() = %q", got)
	}
}

func TestConfirmationTexts(t *testing.T) {
	c := newItem(&fakeAPI{}, &recorder{}).RequestDelete()
	if c.Title != "Excluir" || c.Message != "Deseja excluir essa transação?" || c.Cancel != "Cancelar" || c.Confirm != "Sim" {
		t.Fatalf("unexpected dialog %+v", c)
	}
}

func TestDismissSendsNothing(t *testing.T) {
	fa := &fakeAPI{}
	rec := &recorder{}
	c := newItem(fa, rec).RequestDelete()
	c.Dismiss()

	if err := c.Accept(context.Background()); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
	if len(fa.deleted) != 0 || len(rec.events) != 0 || len(rec.notices) != 0 {
		t.Fatal("dismiss must have no side effects")
	}
}

func TestAcceptPublishesDeleted(t *testing.T) {
	fa := &fakeAPI{}
	rec := &recorder{}
	c := newItem(fa, rec).RequestDelete()

	if err := c.Accept(context.Background()); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if len(fa.deleted) != 1 || fa.deleted[0] != "tx-1" {
		t.Fatalf("unexpected deletes %v", fa.deleted)
	}
	if len(rec.events) != 1 || rec.events[0].Kind != events.Deleted || rec.events[0].TransactionID != "tx-1" {
		t.Fatalf("unexpected events %+v", rec.events)
	}

	if err := c.Accept(context.Background()); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("second Accept: %v", err)
	}
	if len(fa.deleted) != 1 {
		t.Fatal("second Accept must not send again")
	}
}

func TestAcceptFailureNotifies(t *testing.T) {
	fa := &fakeAPI{deleteErr: errors.New("boom")}
	rec := &recorder{}
	c := newItem(fa, rec).RequestDelete()

	if err := c.Accept(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(rec.events) != 0 {
		t.Fatal("no event expected on failure")
	}
	if len(rec.notices) != 1 || rec.notices[0] != MsgDeleteFailed {
		t.Fatalf("unexpected notices %v", rec.notices)
	}
}
