package fieldstate

import (
	"context"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/observable"
)

// Reader is the read-only view of a Store handed out to form consumers.
type Reader interface {
	Name() string
	Get() State
	Subscribe(fn func(State)) (unsubscribe func())
	Watch(ctx context.Context) <-chan State
}

// Store is the observable container of a single field's State.
type Store struct {
	name      string
	value     *observable.Value[State]
	onDestroy func()
	once      sync.Once
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithOnDestroy registers fn to run once when the store is destroyed.
func WithOnDestroy(fn func()) StoreOption {
	return func(s *Store) {
		s.onDestroy = fn
	}
}

// NewStore creates a store for the field called name.
func NewStore(name string, initial State, opts ...StoreOption) *Store {
	s := &Store{
		name:  name,
		value: observable.New(initial.Clone()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Name() string { return s.name }

// Get returns a copy of the current state.
func (s *Store) Get() State {
	return s.value.Get().Clone()
}

// Subscribe calls fn with the current state, then with every change until
// unsubscribe is called or the store is destroyed.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	return s.value.Subscribe(func(st State) { fn(st.Clone()) })
}

// Watch returns a channel feed of state changes. See observable.Value.Watch.
func (s *Store) Watch(ctx context.Context) <-chan State {
	return s.value.Watch(ctx)
}

// Set replaces the state. It reports false after Destroy.
func (s *Store) Set(next State) bool {
	return s.value.Set(next.Clone())
}

// Update replaces the state with fn(current). It reports false after Destroy.
func (s *Store) Update(fn func(State) State) bool {
	return s.value.Update(func(cur State) State {
		return fn(cur.Clone()).Clone()
	})
}

// Apply applies changes to the current state. It reports false after Destroy.
func (s *Store) Apply(changes ...Change) bool {
	return s.value.Update(func(cur State) State {
		return cur.With(changes...)
	})
}

// Destroy terminates all subscriptions and runs the destroy hook. Idempotent.
func (s *Store) Destroy() {
	s.once.Do(func() {
		s.value.Close()
		if s.onDestroy != nil {
			s.onDestroy()
		}
	})
}

// Destroyed reports whether Destroy has been called.
func (s *Store) Destroyed() bool {
	return s.value.Closed()
}
