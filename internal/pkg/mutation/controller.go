package mutation

import (
	"context"
	"fmt"
	"sync"

	"github.com/okwaro/sokopesa/internal/pkg/cache"
	"github.com/okwaro/sokopesa/internal/pkg/logger"
	"github.com/okwaro/sokopesa/internal/pkg/notify"
	"github.com/okwaro/sokopesa/internal/pkg/remote"
	"github.com/sirupsen/logrus"
)

// genericErrorMessage surfaces when neither the remote nor the caller
// provided one.
const genericErrorMessage = "Something went wrong. Please try again."

// Notifier is the slice of the dispatcher the controller needs. Mutations
// must produce notification side effects only through the controller, so
// there is exactly one code path per mutation that can toast.
type Notifier interface {
	Add(kind notify.Kind, title, message string) notify.Notification
}

// Mutation describes one optimistic state change.
//
// Apply runs synchronously before the request is dispatched and returns an
// opaque snapshot that Rollback receives verbatim; the pair must undo
// exactly what it did, the controller never diffs state. Guard runs before
// Apply and fails the mutation locally without touching anything. The
// context the controller hands Apply and Rollback is detached from the
// caller's, so their cache writes land even after the caller goes away.
type Mutation struct {
	// Key serializes mutations: at most one in-flight mutation per key.
	Key string

	Guard    func() error
	Apply    func(ctx context.Context) (rollback interface{})
	Rollback func(ctx context.Context, rollback interface{})

	// Request performs the remote call. Errors carrying a *remote.Failure
	// keep their class and detail; anything else is treated as a network
	// failure.
	Request func(ctx context.Context) (interface{}, error)

	// Invalidates lists the cache prefixes to mark stale after the remote
	// accepts the mutation.
	Invalidates []cache.Key

	SuccessTitle   string
	SuccessMessage string
	ErrorTitle     string
	// Fallback is the per-action error message used when the remote
	// supplies no detail.
	Fallback string
}

// Controller applies a local change immediately, dispatches the remote
// request, and deterministically rolls back on failure. It owns the only
// path from a mutation to cache invalidation and notifications.
type Controller struct {
	cache    *cache.Coordinator
	notifier Notifier
	log      *logrus.Entry

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewController creates a controller over the shared cache and dispatcher
func NewController(c *cache.Coordinator, n Notifier, log *logger.AppLogger) *Controller {
	return &Controller{
		cache:    c,
		notifier: n,
		log:      log.WithComponent("mutation"),
		inflight: make(map[string]struct{}),
	}
}

// Mutate runs one optimistic mutation to completion and returns a typed
// outcome; it never panics across this boundary. When it returns a
// failure, rollback has already run, so the caller observes pre-mutation
// local state.
func (c *Controller) Mutate(ctx context.Context, m Mutation) Outcome {
	if m.Key == "" || m.Request == nil {
		return c.fail(m, failure(KindValidation, "mutation needs a key and a request"))
	}
	if m.Apply != nil && m.Rollback == nil {
		return c.fail(m, failure(KindValidation, "optimistic apply declared without a rollback"))
	}

	if m.Guard != nil {
		if err := m.Guard(); err != nil {
			return c.fail(m, failure(KindValidation, err.Error()))
		}
	}

	if !c.acquire(m.Key) {
		return c.fail(m, failure(KindConcurrent, fmt.Sprintf("mutation already in flight for %s", m.Key)))
	}
	defer c.release(m.Key)

	// Every side effect past this point must run to completion even if the
	// caller's context dies (navigation away): a mutation the remote
	// accepted must still invalidate, and one it rejected must still roll
	// back. The whole effect pipeline runs detached.
	opCtx := context.WithoutCancel(ctx)

	var snapshot interface{}
	if m.Apply != nil {
		snapshot = m.Apply(opCtx)
	}

	payload, err := c.dispatch(opCtx, m)
	if err != nil {
		if m.Rollback != nil {
			m.Rollback(opCtx, snapshot)
		}
		return c.fail(m, Outcome{Failure: classify(err)})
	}

	for _, prefix := range m.Invalidates {
		if _, ierr := c.cache.Invalidate(opCtx, prefix); ierr != nil {
			c.log.WithError(ierr).WithField("prefix", prefix.String()).Warn("cache invalidation failed")
		}
	}

	if m.SuccessMessage != "" && c.notifier != nil {
		c.notifier.Add(notify.KindSuccess, m.SuccessTitle, m.SuccessMessage)
	}

	return Outcome{Payload: payload}
}

// dispatch isolates the caller-supplied request so a panic inside it
// surfaces as an error instead of escaping the controller.
func (c *Controller) dispatch(ctx context.Context, m Mutation) (payload interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithField("key", m.Key).Errorf("mutation request panicked: %v", r)
			err = &Failure{Kind: KindInternal, Detail: "internal error"}
		}
	}()
	return m.Request(ctx)
}

// fail emits the user-visible error side effects and returns the outcome;
// every failure path funnels through here so there is no silent failure.
func (c *Controller) fail(m Mutation, out Outcome) Outcome {
	f := out.Failure
	c.log.WithFields(logrus.Fields{
		"key":  m.Key,
		"kind": string(f.Kind),
	}).Warn(f.Error())

	if c.notifier != nil {
		message := f.Detail
		if message == "" || f.Kind == KindNetwork || f.Kind == KindServer || f.Kind == KindInternal {
			message = m.Fallback
		}
		if message == "" {
			message = genericErrorMessage
		}
		title := m.ErrorTitle
		if title == "" {
			title = "Action failed"
		}
		c.notifier.Add(notify.KindError, title, message)
	}
	return out
}

func classify(err error) *Failure {
	if f, ok := err.(*Failure); ok {
		return f
	}
	if rf, ok := remote.AsFailure(err); ok {
		kind := KindNetwork
		switch rf.Class {
		case remote.ClassClientError:
			kind = KindClient
		case remote.ClassServerError:
			kind = KindServer
		case remote.ClassNetworkError:
			kind = KindNetwork
		}
		return &Failure{Kind: kind, Status: rf.Status, Detail: rf.Detail}
	}
	return &Failure{Kind: KindNetwork, Detail: ""}
}

func (c *Controller) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[key]; busy {
		return false
	}
	c.inflight[key] = struct{}{}
	return true
}

func (c *Controller) release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
}
