// Package observable provides a type-safe value container that notifies
// observers whenever the value changes.
//
// Value delivers changes synchronously: every mutation runs its observers
// before the mutating call returns, and mutations of the same Value never
// interleave. A new observer is called with the current value during Subscribe,
// before any later change can reach it.
//
// Basic usage:
//
//	v := observable.New(0)
//	unsubscribe := v.Subscribe(func(n int) { fmt.Println(n) }) // prints 0
//	defer unsubscribe()
//
//	v.Set(1)                                    // prints 1
//	v.Update(func(n int) int { return n + 1 }) // prints 2
//
// Consumers that prefer channels can use Watch, which returns a buffered feed.
// A feed never blocks the producer: when its buffer is full the oldest pending
// value is discarded so the consumer always catches up with the latest state.
// Feeds are closed when their context is cancelled or the Value is closed.
//
// Observers must not mutate or subscribe to the Value that is notifying them;
// doing so deadlocks. Reading it with Get is fine.
package observable
