// Package events carries change notifications between the flows that mutate
// transactions and the screens that display them.
package events

import (
	"sync"
	"time"
)

type Kind string

const (
	Created Kind = "created"
	Deleted Kind = "deleted"
)

// Event says that the transaction list is out of date.
type Event struct {
	Kind          Kind
	TransactionID string
	At            time.Time
}

// Publisher is the side used by the create and delete flows.
type Publisher interface {
	Publish(e Event)
}

// Broker fans events out to subscribers. Publish never blocks: when a
// subscriber's buffer is full it already holds a pending notification, and
// any one event is enough to mark the list stale.
type Broker struct {
	mu     sync.Mutex
	subs   map[int]*Subscription
	nextID int
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]*Subscription)}
}

type Subscription struct {
	C <-chan Event

	ch     chan Event
	id     int
	broker *Broker
	once   sync.Once
}

// Subscribe registers an observer. buffer below 1 is treated as 1.
func (b *Broker) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s := &Subscription{C: ch, ch: ch, id: b.nextID, broker: b}
	b.subs[s.id] = s
	return s
}

// Close unregisters the subscription and closes its channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s.id)
		s.broker.mu.Unlock()
		close(s.ch)
	})
}

func (b *Broker) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		select {
		case s.ch <- e:
		default:
		}
	}
}

// Subscribers returns the number of registered subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
