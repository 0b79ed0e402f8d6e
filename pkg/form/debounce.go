package form

import (
	"sync"
	"time"

	"github.com/dmitrymomot/formkit/pkg/async"
)

// debouncer coalesces calls made within wait into a single run of fn with
// the last argument. Every caller of a coalesced batch gets the same result.
type debouncer[A, R any] struct {
	wait time.Duration
	fn   func(A) (R, error)

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	arg     A
	waiters []func(R, error)
	stopped bool
}

func newDebouncer[A, R any](wait time.Duration, fn func(A) (R, error)) *debouncer[A, R] {
	return &debouncer[A, R]{wait: wait, fn: fn}
}

// Call schedules fn(arg) after the quiet window, replacing any scheduled
// argument. The returned future resolves when the batch runs or is cancelled.
func (d *debouncer[A, R]) Call(arg A) *async.Future[R] {
	fut, resolve := async.NewFuture[R]()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		var zero R
		resolve(zero, ErrClosed)
		return fut
	}

	d.arg = arg
	d.waiters = append(d.waiters, resolve)
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() { d.fire(seq) })

	return fut
}

func (d *debouncer[A, R]) fire(seq uint64) {
	d.mu.Lock()
	// a timer that lost the race with Stop or a newer Call
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	arg, waiters := d.arg, d.waiters
	var zero A
	d.arg = zero
	d.waiters = nil
	d.timer = nil
	d.mu.Unlock()

	res, err := d.fn(arg)
	for _, resolve := range waiters {
		resolve(res, err)
	}
}

// Pending reports whether a batch is scheduled.
func (d *debouncer[A, R]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.waiters) > 0
}

// Cancel drops the scheduled batch and resolves its callers with res and err.
func (d *debouncer[A, R]) Cancel(res R, err error) {
	d.mu.Lock()
	waiters := d.drainLocked()
	d.mu.Unlock()

	for _, resolve := range waiters {
		resolve(res, err)
	}
}

// Stop cancels the scheduled batch and rejects all later calls.
func (d *debouncer[A, R]) Stop(res R, err error) {
	d.mu.Lock()
	d.stopped = true
	waiters := d.drainLocked()
	d.mu.Unlock()

	for _, resolve := range waiters {
		resolve(res, err)
	}
}

func (d *debouncer[A, R]) drainLocked() []func(R, error) {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	waiters := d.waiters
	var zero A
	d.arg = zero
	d.waiters = nil
	return waiters
}
