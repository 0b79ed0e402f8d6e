// Package async provides small generic helpers for values that become
// available later.
//
// Future represents the eventual result of an operation. It is obtained either
// from Async, which runs a function in its own goroutine, or from NewFuture,
// which returns the Future together with a resolve function so the producer can
// complete it from anywhere (timers, callbacks, fan-out to many waiters).
// Resolved returns an already completed Future.
//
// A Future is completed exactly once; later resolve calls are ignored. Waiters
// use Await, AwaitContext or AwaitWithTimeout, or poll with IsComplete.
// WaitAll collects the results of several futures in order.
//
// # Usage
//
//	f := async.Async(ctx, rule, func(ctx context.Context, r rule.Rule) (rule.Result, error) {
//	    return r.Run(ctx, value, control)
//	})
//	res, err := f.Await()
//
//	f, resolve := async.NewFuture[State]()
//	time.AfterFunc(d, func() { resolve(compute(), nil) })
//	st, err := f.AwaitContext(ctx)
//
// # Error Handling
//
// Errors returned by user functions are passed through unchanged. A panic
// inside an Async function completes the Future with an error wrapping
// ErrPanic instead of crashing the process. AwaitWithTimeout returns
// ErrTimeout and AwaitContext returns the context error when waiting stops
// early; neither affects the Future itself.
package async
