package affordance

import "sync"

// Set lazily manages one tracker per action key, so every mutating
// affordance in the UI has exactly one state machine behind it.
type Set struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
	opts     []Option
}

// NewSet creates an empty set; opts apply to every tracker it creates.
func NewSet(opts ...Option) *Set {
	return &Set{trackers: make(map[string]*Tracker), opts: opts}
}

// Get returns the tracker for key, creating an idle one on first use.
func (s *Set) Get(key string) *Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, ok := s.trackers[key]
	if !ok {
		tr = NewTracker(s.opts...)
		s.trackers[key] = tr
	}
	return tr
}

// State reports the state for key. A key never seen is idle.
func (s *Set) State(key string) State {
	s.mu.Lock()
	tr, ok := s.trackers[key]
	s.mu.Unlock()
	if !ok {
		return StateIdle
	}
	return tr.State()
}
