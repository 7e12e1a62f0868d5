package app

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"gofinances/internal/api"
	"gofinances/internal/core"
	"gofinances/internal/events"
)

type fakeAPI struct {
	mu         sync.Mutex
	categories []core.Category
	catErr     error
	createErr  error
	deleteErr  error
	list       api.TransactionList
	listErr    error
	created    []core.NewTransaction
	deleted    []string
	listCalls  int
	block      chan struct{}
}

func (f *fakeAPI) ListCategories(ctx context.Context) ([]core.Category, error) {
	return f.categories, f.catErr
}

func (f *fakeAPI) CreateTransaction(ctx context.Context, n core.NewTransaction) (core.Transaction, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, n)
	if f.createErr != nil {
		return core.Transaction{}, f.createErr
	}
	return core.Transaction{ID: "new-1", Title: n.Title, Value: n.Value, Type: n.Type, Category: core.Category{Title: n.Category}}, nil
}

func (f *fakeAPI) DeleteTransaction(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeAPI) ListTransactions(ctx context.Context) (api.TransactionList, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.list, f.listErr
}

func (f *fakeAPI) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type recorder struct {
	mu       sync.Mutex
	notices  []string
	backs    int
	events   []events.Event
}

func (r *recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, msg)
}

func (r *recorder) Back() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backs++
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
