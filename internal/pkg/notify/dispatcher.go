package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is the severity of a notification. The set is closed; sinks switch
// over it exhaustively.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Valid reports whether k is a known severity.
func (k Kind) Valid() bool {
	switch k {
	case KindInfo, KindSuccess, KindWarning, KindError:
		return true
	}
	return false
}

// Notification is one user-facing event in the feed. Owned exclusively by
// the Dispatcher; never persisted remotely.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// Sink receives each notification as it is added, the ephemeral
// surfaced-toast side effect.
type Sink interface {
	Surface(n Notification)
}

// Dispatcher is the ordered, most-recent-first log of notifications. It is
// constructed once in main and injected into consumers; it lives for the
// process.
type Dispatcher struct {
	mu    sync.Mutex
	items []Notification
	sinks []Sink
	limit int
	now   func() time.Time
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithSink registers a toast sink.
func WithSink(s Sink) Option {
	return func(d *Dispatcher) {
		d.sinks = append(d.sinks, s)
	}
}

// WithLimit bounds the feed; the oldest entries are evicted past it.
// Zero means unbounded.
func WithLimit(n int) Option {
	return func(d *Dispatcher) {
		d.limit = n
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add creates a notification with a fresh id and unread flag, prepends it
// to the feed, and surfaces it to every sink.
func (d *Dispatcher) Add(kind Kind, title, message string) Notification {
	if !kind.Valid() {
		kind = KindInfo
	}
	n := Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: d.now(),
	}

	d.mu.Lock()
	d.items = append([]Notification{n}, d.items...)
	if d.limit > 0 && len(d.items) > d.limit {
		d.items = d.items[:d.limit]
	}
	sinks := make([]Sink, len(d.sinks))
	copy(sinks, d.sinks)
	d.mu.Unlock()

	for _, sink := range sinks {
		sink.Surface(n)
	}
	return n
}

// MarkRead marks one notification read. Missing ids are a no-op.
func (d *Dispatcher) MarkRead(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.items {
		if d.items[i].ID == id {
			d.items[i].Read = true
			return
		}
	}
}

// MarkAllRead marks every notification read.
func (d *Dispatcher) MarkAllRead() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.items {
		d.items[i].Read = true
	}
}

// Remove deletes one notification. Missing ids are a no-op.
func (d *Dispatcher) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.items {
		if d.items[i].ID == id {
			d.items = append(d.items[:i], d.items[i+1:]...)
			return
		}
	}
}

// List returns a copy of the feed, most recent first.
func (d *Dispatcher) List() []Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Notification, len(d.items))
	copy(out, d.items)
	return out
}

// UnreadCount returns the number of unread notifications.
func (d *Dispatcher) UnreadCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := 0
	for i := range d.items {
		if !d.items[i].Read {
			count++
		}
	}
	return count
}
