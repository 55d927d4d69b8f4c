// Package eventbus fans lot events out to in-process observers such as
// the MQTT notifier and the occupancy sampler.
package eventbus

import (
	"sync"

	"github.com/parkwella/parkd/core/events"
)

// subscriberBuffer bounds how far a subscriber may lag before it
// starts missing events.
const subscriberBuffer = 8

// EventBus decouples the lot from whoever watches it.
type EventBus interface {
	Publish(events.Event)
	Subscribe(kinds ...string) <-chan events.Event
	Unsubscribe(<-chan events.Event)
	Close()
}

// Bus is the in-memory EventBus used throughout the service. Delivery
// is best effort: publishing never blocks, a slow subscriber drops the
// overflow.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscriber
	closed bool
}

type subscriber struct {
	ch    chan events.Event
	kinds map[string]bool // nil means every kind
}

// New creates a Bus with no subscribers.
func New() *Bus { return &Bus{} }

// Publish delivers e to every subscriber interested in its kind.
func (b *Bus) Publish(e events.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, s := range b.subs {
		if s.kinds != nil && !s.kinds[e.Kind()] {
			continue
		}
		select {
		case s.ch <- e:
		default:
		}
	}
}

// Subscribe registers an observer. Called with no arguments it
// receives every event, otherwise only the named kinds.
func (b *Bus) Subscribe(kinds ...string) <-chan events.Event {
	s := subscriber{ch: make(chan events.Event, subscriberBuffer)}
	if len(kinds) > 0 {
		s.kinds = make(map[string]bool, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = true
		}
	}
	b.mu.Lock()
	if b.closed {
		close(s.ch)
	} else {
		b.subs = append(b.subs, s)
	}
	b.mu.Unlock()
	return s.ch
}

// Unsubscribe drops the observer and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(s.ch)
			}
			return
		}
	}
}

// Close closes all subscriber channels and drops the subscriber list.
// Publishing after Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, s := range b.subs {
		close(s.ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
