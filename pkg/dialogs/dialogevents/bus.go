// Package dialogevents is a local, in-process pub/sub bus for
// dialogs.Event: xid-stamped envelopes, non-blocking per-subscriber
// delivery. Shipping events to an external transport is out of scope —
// subscribers run in-process within the host application.
package dialogevents

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/turnflow/dialogs/pkg/dialogs"
)

// Envelope wraps a dialogs.Event with bus-assigned identity and timing.
type Envelope struct {
	ID        string
	Timestamp time.Time
	Event     dialogs.Event
}

// Bus is a local, in-process fan-out of engine turn-boundary events. It
// implements dialogs.EventSink.
type Bus struct {
	subMu       sync.RWMutex
	subscribers map[string]chan Envelope
}

// New returns an empty event bus.
func New() *Bus {
	return &Bus{subscribers: make(map[string]chan Envelope)}
}

// Emit implements dialogs.EventSink: it stamps evt with an id and
// timestamp and fans it out to every current subscriber, dropping
// delivery to any subscriber whose buffer is full rather than blocking
// the engine.
func (b *Bus) Emit(evt dialogs.Event) {
	envelope := Envelope{
		ID:        xid.New().String(),
		Timestamp: time.Now().UTC(),
		Event:     evt,
	}

	b.subMu.RLock()
	defer b.subMu.RUnlock()
	for id, ch := range b.subscribers {
		select {
		case ch <- envelope:
		default:
			slog.Warn("dialog event dropped: subscriber buffer full",
				slog.String("subscriber", id), slog.String("event_kind", string(evt.Kind)))
		}
	}
}

// Subscribe creates a local subscription, returning a channel that
// receives Envelope values. The caller must call Unsubscribe with the
// same id to clean up.
func (b *Bus) Subscribe(id string, bufSize int) <-chan Envelope {
	if bufSize <= 0 {
		bufSize = 64
	}
	ch := make(chan Envelope, bufSize)
	b.subMu.Lock()
	b.subscribers[id] = ch
	b.subMu.Unlock()
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}
