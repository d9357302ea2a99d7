// Package events carries the lifecycle event stream. Delivery is best-effort:
// subscribers that fall behind lose events rather than blocking transitions.
package events

import (
	"sync"
	"time"

	"github.com/karasi-sonica/PawzIO/internal/domain"
)

// Transition is emitted on every successful state transition.
type Transition struct {
	RequestID  string              `json:"request_id"`
	OldState   domain.RequestState `json:"old_state"`
	NewState   domain.RequestState `json:"new_state"`
	Category   domain.Category     `json:"category"`
	ProviderID string              `json:"provider_id,omitempty"`
	Timestamp  time.Time           `json:"timestamp"`
}

// Broker fans transitions out to in-process subscribers.
type Broker struct {
	mu     sync.RWMutex
	subs   map[int]chan Transition
	nextID int
	closed bool
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan Transition)}
}

// Publish delivers the transition to every subscriber without blocking.
// A subscriber whose buffer is full is skipped.
func (b *Broker) Publish(t Transition) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- t:
		default:
		}
	}
}

// Subscribe registers a new subscriber with the given channel buffer and
// returns the channel plus an unsubscribe function. Unsubscribing closes
// the channel.
func (b *Broker) Subscribe(buffer int) (<-chan Transition, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if buffer <= 0 {
		buffer = 16
	}
	id := b.nextID
	b.nextID++
	ch := make(chan Transition, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Close closes every subscriber channel. Publish becomes a no-op.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
