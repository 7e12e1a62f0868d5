package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"gofinances/internal/api"
	"gofinances/internal/cache"
	"gofinances/internal/core"
	"gofinances/internal/events"
	applog "gofinances/internal/log"
)

const (
	listCacheKey     = "transactions"
	defaultListCache = 30 * time.Second
)

// ListDeps are the collaborators of a TransactionList.
type ListDeps struct {
	Lister api.TransactionLister
	Broker *events.Broker
	Cache  cache.Cache[api.TransactionList]
	Item   ItemDeps
	Logger *applog.Logger
}

// TransactionList is the list screen model. It observes the broker and
// refetches after any create or delete.
type TransactionList struct {
	deps ListDeps
	log  *applog.Logger

	sub     *events.Subscription
	changed chan struct{}
	done    chan struct{}
	stale   atomic.Bool
	group   singleflight.Group

	mu      sync.Mutex
	current api.TransactionList
}

func NewTransactionList(deps ListDeps) *TransactionList {
	if deps.Logger == nil {
		deps.Logger = applog.Default()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewLRUCache[api.TransactionList](1, defaultListCache)
	}
	if deps.Item.Logger == nil {
		deps.Item.Logger = deps.Logger
	}
	if deps.Item.Publisher == nil && deps.Broker != nil {
		deps.Item.Publisher = deps.Broker
	}

	l := &TransactionList{
		deps:    deps,
		log:     deps.Logger.WithComponent(applog.ComponentUI),
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	l.stale.Store(true)

	if deps.Broker != nil {
		l.sub = deps.Broker.Subscribe(1)
		go l.watch()
	} else {
		close(l.done)
	}
	return l
}

func (l *TransactionList) watch() {
	defer close(l.done)
	for e := range l.sub.C {
		l.log.Debug("List marked stale", applog.FieldEvent, string(e.Kind), applog.FieldTransactionID, e.TransactionID)
		l.stale.Store(true)
		l.deps.Cache.Delete(listCacheKey)
		select {
		case l.changed <- struct{}{}:
		default:
		}
	}
}

// Changed fires after an event marked the list stale.
func (l *TransactionList) Changed() <-chan struct{} {
	return l.changed
}

func (l *TransactionList) Stale() bool {
	return l.stale.Load()
}

// Load returns the cached list unless it is stale or expired.
func (l *TransactionList) Load(ctx context.Context) (api.TransactionList, error) {
	if !l.stale.Load() {
		if list, ok := l.deps.Cache.Get(listCacheKey); ok {
			return list, nil
		}
	}
	return l.Refresh(ctx)
}

// Refresh fetches the list. Concurrent callers share one request.
func (l *TransactionList) Refresh(ctx context.Context) (api.TransactionList, error) {
	v, err, _ := l.group.Do(listCacheKey, func() (any, error) {
		l.stale.Store(false)
		list, err := l.deps.Lister.ListTransactions(ctx)
		if err != nil {
			l.stale.Store(true)
			return api.TransactionList{}, err
		}
		// An event during the fetch means this result may already be old.
		if !l.stale.Load() {
			l.deps.Cache.Set(listCacheKey, list)
		}
		l.mu.Lock()
		l.current = list
		l.mu.Unlock()
		l.log.DebugContext(ctx, "Transactions loaded", "count", len(list.Transactions))
		return list, nil
	})
	if err != nil {
		l.log.WarnContext(ctx, "Failed to load transactions", applog.FieldOperation, applog.OpRefresh, applog.FieldError, err)
		return api.TransactionList{}, fmt.Errorf("refresh transactions: %w", err)
	}
	return v.(api.TransactionList), nil
}

// Items wraps the last loaded transactions.
func (l *TransactionList) Items() []TransactionItem {
	l.mu.Lock()
	txs := l.current.Transactions
	l.mu.Unlock()

	items := make([]TransactionItem, len(txs))
	for i, tx := range txs {
		items[i] = NewTransactionItem(tx, l.deps.Item)
	}
	return items
}

func (l *TransactionList) Balance() core.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current.Balance
}

// Close unsubscribes from the broker.
func (l *TransactionList) Close() {
	if l.sub != nil {
		l.sub.Close()
	}
	<-l.done
}
