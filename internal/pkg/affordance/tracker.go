package affordance

import (
	"sync"
	"time"

	"github.com/okwaro/sokopesa/internal/pkg/logger"
	"github.com/okwaro/sokopesa/internal/pkg/mutation"
	"github.com/sirupsen/logrus"
)

// State is the visible state of one UI action affordance
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Tracker is a per-action state machine: idle -> loading -> success|error,
// then back to idle explicitly or after an optional timeout. It guarantees
// the affordance never shows a stale loading state forever and completion
// callbacks never double-fire.
type Tracker struct {
	mu      sync.Mutex
	state   State
	timeout time.Duration
	timer   *time.Timer
	gen     uint64

	onSuccess func()
	onError   func(*mutation.Failure)
	log       *logrus.Entry
}

// Option configures a Tracker
type Option func(*Tracker)

// WithTimeout enables auto-reset to idle after entering success or error.
// Without it the state holds until an explicit transition.
func WithTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		t.timeout = d
	}
}

// WithOnSuccess registers the success callback, invoked exactly once per
// completed loading cycle.
func WithOnSuccess(f func()) Option {
	return func(t *Tracker) {
		t.onSuccess = f
	}
}

// WithOnError registers the error callback, invoked exactly once per
// failed loading cycle with the failure descriptor.
func WithOnError(f func(*mutation.Failure)) Option {
	return func(t *Tracker) {
		t.onError = f
	}
}

// NewTracker creates an idle tracker
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		state: StateIdle,
		log:   logger.L().WithComponent("affordance"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// IsLoading reports whether an action is in flight.
func (t *Tracker) IsLoading() bool {
	return t.State() == StateLoading
}

// SetLoading enters loading. Calling it while already loading is a logged
// no-op: the in-flight action owns the affordance until it completes.
func (t *Tracker) SetLoading() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateLoading {
		t.log.Warn("SetLoading ignored: action already in flight")
		return
	}
	t.cancelTimerLocked()
	t.state = StateLoading
}

// SetSuccess completes the loading cycle successfully. Outside of loading
// it is a no-op, which is what makes the callback fire exactly once.
func (t *Tracker) SetSuccess() {
	t.mu.Lock()
	if t.state != StateLoading {
		t.mu.Unlock()
		return
	}
	t.cancelTimerLocked()
	t.state = StateSuccess
	t.scheduleResetLocked()
	cb := t.onSuccess
	t.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// SetError completes the loading cycle with a failure. Outside of loading
// it is a no-op.
func (t *Tracker) SetError(f *mutation.Failure) {
	t.mu.Lock()
	if t.state != StateLoading {
		t.mu.Unlock()
		return
	}
	t.cancelTimerLocked()
	t.state = StateError
	t.scheduleResetLocked()
	cb := t.onError
	t.mu.Unlock()

	if cb != nil {
		cb(f)
	}
}

// Reset returns the tracker to idle and cancels any pending auto-reset.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelTimerLocked()
	t.state = StateIdle
}

// scheduleResetLocked arms the auto-reset timer. The generation counter
// keeps a timer that already fired from resetting a newer state.
func (t *Tracker) scheduleResetLocked() {
	if t.timeout <= 0 {
		return
	}
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.timeout, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen != gen {
			return
		}
		if t.state == StateSuccess || t.state == StateError {
			t.state = StateIdle
		}
		t.timer = nil
	})
}

func (t *Tracker) cancelTimerLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
