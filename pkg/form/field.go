package form

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/formkit/pkg/fieldstate"
	"github.com/dmitrymomot/formkit/pkg/rule"
)

// field is the form's record of one registered field.
type field struct {
	name     string
	store    *fieldstate.Store
	rules    []rule.Rule
	bail     bool
	debounce *debouncer[request, fieldstate.State]

	// gen advances on every request that supersedes earlier runs.
	// A run whose captured generation is stale does not settle the store.
	gen atomic.Uint64

	// settledGen is the newest generation that left the store settled.
	// settled is closed and replaced on every settle.
	settleMu   sync.Mutex
	settledGen uint64
	settled    chan struct{}

	subMu       sync.Mutex
	unsubscribe func()
	destroyed   bool
}

// request is the argument of a debounced validation.
type request struct {
	ctx   context.Context
	value any
	gen   uint64
}

func (fd *field) hasRules() bool {
	return len(fd.rules) > 0
}

func (fd *field) initialState(defaultValue any) fieldstate.State {
	st := fieldstate.New(defaultValue)
	st.Valid = !fd.hasRules()
	return st
}

func newField(name string, rules []rule.Rule, bail bool) *field {
	return &field{
		name:    name,
		rules:   rules,
		bail:    bail,
		settled: make(chan struct{}),
	}
}

// watch keeps the unsubscribe function of the form's own subscription.
// It is called right away when the field is already destroyed.
func (fd *field) watch(unsubscribe func()) {
	fd.subMu.Lock()
	if !fd.destroyed {
		fd.unsubscribe = unsubscribe
		fd.subMu.Unlock()
		return
	}
	fd.subMu.Unlock()
	unsubscribe()
}

// destroy stops the field for good.
func (fd *field) destroy() {
	fd.subMu.Lock()
	fd.destroyed = true
	unsubscribe := fd.unsubscribe
	fd.unsubscribe = nil
	fd.subMu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}

	gen := fd.gen.Add(1)
	fd.store.Destroy()
	fd.markSettled(gen)
}

// markSettled wakes runs waiting in awaitSettled. Call it after the store
// holds the state written for gen.
func (fd *field) markSettled(gen uint64) {
	fd.settleMu.Lock()
	defer fd.settleMu.Unlock()
	fd.settledGen = max(fd.settledGen, gen)
	close(fd.settled)
	fd.settled = make(chan struct{})
}

// awaitSettled blocks until a request newer than gen has settled the store
// and no validation is running, then returns that state. live reports
// whether the field is still registered.
func (fd *field) awaitSettled(ctx context.Context, gen uint64, live func() bool) (fieldstate.State, error) {
	for {
		fd.settleMu.Lock()
		done := fd.settledGen > gen
		wake := fd.settled
		fd.settleMu.Unlock()

		if !live() || fd.store.Destroyed() {
			return fd.store.Get(), fmt.Errorf("%w: %q", ErrFieldNotFound, fd.name)
		}
		if done {
			if st := fd.store.Get(); !st.Pending {
				return st, nil
			}
		}

		select {
		case <-wake:
		case <-ctx.Done():
			return fd.store.Get(), ctx.Err()
		}
	}
}

// stopValidation runs when the store is destroyed. Scheduled validations
// resolve with the last state and ErrFieldNotFound.
func (fd *field) stopValidation() {
	fd.debounce.Stop(fd.store.Get(), ErrFieldNotFound)
}
