package mutation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okwaro/sokopesa/internal/pkg/cache"
	"github.com/okwaro/sokopesa/internal/pkg/logger"
	"github.com/okwaro/sokopesa/internal/pkg/notify"
	"github.com/okwaro/sokopesa/internal/pkg/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedToast struct {
	kind    notify.Kind
	title   string
	message string
}

type fakeNotifier struct {
	mu     sync.Mutex
	toasts []recordedToast
}

func (f *fakeNotifier) Add(kind notify.Kind, title, message string) notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toasts = append(f.toasts, recordedToast{kind, title, message})
	return notify.Notification{Kind: kind, Title: title, Message: message}
}

func (f *fakeNotifier) last(t *testing.T) recordedToast {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.toasts)
	return f.toasts[len(f.toasts)-1]
}

func newTestController(t *testing.T) (*Controller, *cache.Coordinator, *fakeNotifier) {
	t.Helper()
	coord := cache.NewCoordinator(cache.NewMemoryStore(), 0)
	notifier := &fakeNotifier{}
	return NewController(coord, notifier, logger.L()), coord, notifier
}

func TestMutateSuccess(t *testing.T) {
	ctx := context.Background()
	controller, coord, notifier := newTestController(t)

	require.NoError(t, coord.Write(ctx, cache.MyPurchasesKey(), []int{1}))

	applied := false
	out := controller.Mutate(ctx, Mutation{
		Key:   "purchase:42",
		Apply: func(context.Context) interface{} { applied = true; return "snapshot" },
		Rollback: func(context.Context, interface{}) {
			t.Fatal("rollback must not run on success")
		},
		Request: func(ctx context.Context) (interface{}, error) {
			return map[string]int64{"transaction_id": 101}, nil
		},
		Invalidates:    []cache.Key{cache.TransactionsKey()},
		SuccessTitle:   "Purchase initiated",
		SuccessMessage: "Purchase initiated! Redirecting to payment...",
	})

	require.True(t, out.OK())
	assert.True(t, applied)
	assert.Equal(t, map[string]int64{"transaction_id": 101}, out.Payload)

	toast := notifier.last(t)
	assert.Equal(t, notify.KindSuccess, toast.kind)
	assert.Equal(t, "Purchase initiated! Redirecting to payment...", toast.message)

	var stale interface{}
	ok, err := coord.Read(ctx, cache.MyPurchasesKey(), &stale)
	require.NoError(t, err)
	assert.False(t, ok, "success must invalidate the listed prefixes")
}

func TestMutateClientErrorRollsBackAndSurfacesDetail(t *testing.T) {
	ctx := context.Background()
	controller, _, notifier := newTestController(t)

	var rolledBackWith interface{}
	out := controller.Mutate(ctx, Mutation{
		Key:      "transaction:7",
		Apply:    func(context.Context) interface{} { return "snapshot" },
		Rollback: func(_ context.Context, snapshot interface{}) { rolledBackWith = snapshot },
		Request: func(ctx context.Context) (interface{}, error) {
			return nil, &remote.Failure{Class: remote.ClassClientError, Status: 401, Detail: "Invalid password"}
		},
		ErrorTitle: "Reveal failed",
		Fallback:   "Failed to reveal credentials",
	})

	require.False(t, out.OK())
	assert.Equal(t, KindClient, out.Failure.Kind)
	assert.Equal(t, 401, out.Failure.Status)
	assert.Equal(t, "snapshot", rolledBackWith, "rollback receives the apply context verbatim")

	toast := notifier.last(t)
	assert.Equal(t, notify.KindError, toast.kind)
	assert.Equal(t, "Reveal failed", toast.title)
	assert.Equal(t, "Invalid password", toast.message, "client error detail surfaces verbatim")
}

func TestMutateNetworkErrorUsesFallback(t *testing.T) {
	ctx := context.Background()
	controller, _, notifier := newTestController(t)

	out := controller.Mutate(ctx, Mutation{
		Key: "purchase:42",
		Request: func(ctx context.Context) (interface{}, error) {
			return nil, &remote.Failure{Class: remote.ClassNetworkError}
		},
		Fallback: "Failed to initiate purchase",
	})

	require.False(t, out.OK())
	assert.Equal(t, KindNetwork, out.Failure.Kind)
	assert.Equal(t, "Failed to initiate purchase", notifier.last(t).message)
}

func TestMutateServerErrorIgnoresRemoteDetail(t *testing.T) {
	ctx := context.Background()
	controller, _, notifier := newTestController(t)

	out := controller.Mutate(ctx, Mutation{
		Key: "purchase:42",
		Request: func(ctx context.Context) (interface{}, error) {
			return nil, &remote.Failure{Class: remote.ClassServerError, Status: 500, Detail: "stack trace leaked"}
		},
		Fallback: "Failed to initiate purchase",
	})

	require.False(t, out.OK())
	assert.Equal(t, KindServer, out.Failure.Kind)
	assert.Equal(t, "Failed to initiate purchase", notifier.last(t).message)
}

func TestMutateGenericMessageLastResort(t *testing.T) {
	ctx := context.Background()
	controller, _, notifier := newTestController(t)

	out := controller.Mutate(ctx, Mutation{
		Key: "purchase:42",
		Request: func(ctx context.Context) (interface{}, error) {
			return nil, &remote.Failure{Class: remote.ClassNetworkError}
		},
	})

	require.False(t, out.OK())
	toast := notifier.last(t)
	assert.Equal(t, "Action failed", toast.title)
	assert.Equal(t, "Something went wrong. Please try again.", toast.message)
}

func TestMutateGuardShortCircuits(t *testing.T) {
	ctx := context.Background()
	controller, _, notifier := newTestController(t)

	requested := false
	out := controller.Mutate(ctx, Mutation{
		Key:   "transaction:7",
		Guard: func() error { return assert.AnError },
		Apply: func(context.Context) interface{} { t.Fatal("apply must not run after a failed guard"); return nil },
		Rollback: func(context.Context, interface{}) {
			t.Fatal("rollback must not run after a failed guard")
		},
		Request: func(ctx context.Context) (interface{}, error) {
			requested = true
			return nil, nil
		},
	})

	require.False(t, out.OK())
	assert.Equal(t, KindValidation, out.Failure.Kind)
	assert.True(t, out.Failure.Kind.Local())
	assert.False(t, requested)
	assert.Equal(t, notify.KindError, notifier.last(t).kind)
}

func TestMutateRejectsApplyWithoutRollback(t *testing.T) {
	ctx := context.Background()
	controller, _, _ := newTestController(t)

	out := controller.Mutate(ctx, Mutation{
		Key:     "transaction:7",
		Apply:   func(context.Context) interface{} { return nil },
		Request: func(ctx context.Context) (interface{}, error) { return nil, nil },
	})

	require.False(t, out.OK())
	assert.Equal(t, KindValidation, out.Failure.Kind)
}

func TestMutateConcurrentRejection(t *testing.T) {
	ctx := context.Background()
	controller, _, _ := newTestController(t)

	started := make(chan struct{})
	release := make(chan struct{})
	first := make(chan Outcome, 1)

	go func() {
		first <- controller.Mutate(ctx, Mutation{
			Key: "transaction:7",
			Request: func(ctx context.Context) (interface{}, error) {
				close(started)
				<-release
				return "ok", nil
			},
		})
	}()

	<-started
	second := controller.Mutate(ctx, Mutation{
		Key:     "transaction:7",
		Request: func(ctx context.Context) (interface{}, error) { return "ok", nil },
	})
	require.False(t, second.OK())
	assert.Equal(t, KindConcurrent, second.Failure.Kind)

	// A different key is unaffected by the in-flight mutation.
	other := controller.Mutate(ctx, Mutation{
		Key:     "transaction:8",
		Request: func(ctx context.Context) (interface{}, error) { return "ok", nil },
	})
	assert.True(t, other.OK())

	close(release)
	require.True(t, (<-first).OK())

	// The key frees up once the first mutation completes.
	retry := controller.Mutate(ctx, Mutation{
		Key:     "transaction:7",
		Request: func(ctx context.Context) (interface{}, error) { return "ok", nil },
	})
	assert.True(t, retry.OK())
}

func TestMutateRecoversRequestPanic(t *testing.T) {
	ctx := context.Background()
	controller, _, _ := newTestController(t)

	rolledBack := false
	out := controller.Mutate(ctx, Mutation{
		Key:      "transaction:7",
		Apply:    func(context.Context) interface{} { return "snapshot" },
		Rollback: func(context.Context, interface{}) { rolledBack = true },
		Request: func(ctx context.Context) (interface{}, error) {
			panic("remote client bug")
		},
	})

	require.False(t, out.OK())
	assert.Equal(t, KindInternal, out.Failure.Kind)
	assert.True(t, rolledBack)
}

func TestMutateSurvivesCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	controller, _, _ := newTestController(t)

	out := controller.Mutate(ctx, Mutation{
		Key: "transaction:7",
		Request: func(reqCtx context.Context) (interface{}, error) {
			cancel()
			select {
			case <-reqCtx.Done():
				t.Error("request context must outlive the caller's context")
			case <-time.After(20 * time.Millisecond):
			}
			return "ok", nil
		},
	})

	assert.True(t, out.OK())
}

// cancellableStore behaves like a shared backend: every operation fails
// once the context it receives is cancelled, and it counts the effects
// that landed.
type cancellableStore struct {
	mu            sync.Mutex
	entries       map[string][]byte
	writes        int
	invalidations int
}

func newCancellableStore() *cancellableStore {
	return &cancellableStore{entries: make(map[string][]byte)}
}

func (s *cancellableStore) Read(ctx context.Context, key cache.Key) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.entries[key.String()]
	return raw, ok, nil
}

func (s *cancellableStore) Write(ctx context.Context, key cache.Key, value []byte, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key.String()] = value
	s.writes++
	return nil
}

func (s *cancellableStore) Invalidate(ctx context.Context, prefix cache.Key) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidations++
	return 1, nil
}

func TestMutateInvalidatesAfterCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := newCancellableStore()
	coord := cache.NewCoordinator(store, 0)
	controller := NewController(coord, &fakeNotifier{}, logger.L())

	out := controller.Mutate(ctx, Mutation{
		Key: "transaction:7",
		Request: func(context.Context) (interface{}, error) {
			cancel()
			return "ok", nil
		},
		Invalidates: []cache.Key{cache.TransactionsKey()},
	})

	require.True(t, out.OK())
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 1, store.invalidations, "invalidation must land even after the caller's context dies")
}

func TestMutateRollsBackAfterCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := newCancellableStore()
	coord := cache.NewCoordinator(store, 0)
	controller := NewController(coord, &fakeNotifier{}, logger.L())

	key := cache.TransactionDetailKey(7)
	var rollbackErr error
	out := controller.Mutate(ctx, Mutation{
		Key: "transaction:7",
		Apply: func(opCtx context.Context) interface{} {
			if err := coord.Write(opCtx, key, "optimistic"); err != nil {
				t.Errorf("optimistic write failed: %v", err)
			}
			return "snapshot"
		},
		Rollback: func(opCtx context.Context, snapshot interface{}) {
			rollbackErr = coord.Write(opCtx, key, snapshot)
		},
		Request: func(context.Context) (interface{}, error) {
			cancel()
			return nil, &remote.Failure{Class: remote.ClassServerError, Status: 500}
		},
	})

	require.False(t, out.OK())
	require.NoError(t, rollbackErr, "rollback write must land even after the caller's context dies")

	var restored string
	ok, err := coord.Read(context.Background(), key, &restored)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "snapshot", restored)
}
