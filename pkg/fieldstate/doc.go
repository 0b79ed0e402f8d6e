// Package fieldstate holds the observable state of a single form field.
//
// State is a plain value. Transitions are expressed as Change functions and
// applied with State.With, which always returns a fresh copy, so two code paths
// never share the same Errors slice.
//
// Store wraps a State in an observable container. Subscribers receive the
// current state synchronously on Subscribe and then every later change, in
// order. Destroy terminates all subscriptions and runs the owner's destroy
// hook; mutating a destroyed store is a no-op that reports false.
package fieldstate
