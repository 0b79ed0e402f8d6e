package async

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// NewFuture returns a pending Future and the function that completes it.
// Only the first resolve call has an effect.
func NewFuture[U any]() (*Future[U], func(U, error)) {
	f := &Future[U]{done: make(chan struct{})}
	return f, f.resolve
}

// Resolved returns a Future that is already complete.
func Resolved[U any](result U, err error) *Future[U] {
	f, resolve := NewFuture[U]()
	resolve(result, err)
	return f
}

func (f *Future[U]) resolve(result U, err error) {
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
	})
}

// Await waits for the Future to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for completion or until ctx is done, whichever comes first.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout waits for completion for at most timeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// Done returns a channel that is closed when the Future completes.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the Future has completed without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async executes fn in a new goroutine and returns a Future for its result.
// A pre-cancelled ctx completes the Future with ctx.Err() without calling fn.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f, resolve := NewFuture[U]()

	go func() {
		var zero U

		// Early exit prevents running work nobody waits for
		select {
		case <-ctx.Done():
			resolve(zero, ctx.Err())
			return
		default:
		}

		defer func() {
			if r := recover(); r != nil {
				resolve(zero, fmt.Errorf("%w: %v", ErrPanic, r))
			}
		}()

		res, err := fn(ctx, param)
		resolve(res, err)
	}()

	return f
}

// WaitAll waits for all futures and returns their results in order.
// It stops at the first error, returning the results gathered so far.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
