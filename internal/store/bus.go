package store

import (
	"sync"
)

// Table identifies which table a change event touched.
type Table string

const (
	TableSessions Table = "work_sessions"
	TableTasks    Table = "tasks"
)

// Event is published on the change bus after every successful
// mutation. It carries no payload beyond the table name, so dropping
// a queued event while a newer one is pending loses nothing:
// subscribers re-run their queries either way.
type Event struct {
	Table Table
}

const subscriberBuffer = 8

// bus fans change events out to subscribers without ever blocking
// the mutation path.
type bus struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func newBus() *bus {
	return &bus{subs: make(map[chan Event]struct{})}
}

// subscribe registers a new listener. The returned cancel func must
// be called to release the channel.
func (b *bus) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// publish delivers ev to every subscriber. Sends are non-blocking:
// a lagging subscriber drops the event rather than stalling writers.
func (b *bus) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
