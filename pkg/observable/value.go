package observable

import (
	"context"
	"slices"
	"sync"
)

type observer[T any] struct {
	id uint64
	fn func(T)
}

// Value holds a T and notifies observers about changes.
// All methods are safe for concurrent use.
type Value[T any] struct {
	current    T
	observers  []observer[T]
	feeds      map[*feed[T]]struct{}
	done       chan struct{}
	nextID     uint64
	bufferSize int
	closed     bool
	mu         sync.RWMutex
	emitMu     sync.Mutex // serializes mutations together with their notifications
	cleanupWg  sync.WaitGroup
}

// Option configures a Value.
type Option func(*config)

type config struct {
	bufferSize int
}

// WithBufferSize sets the channel buffer size used by Watch feeds.
// A minimum of 1 is enforced.
func WithBufferSize(n int) Option {
	return func(c *config) {
		c.bufferSize = max(n, 1)
	}
}

// New creates a Value holding initial.
func New[T any](initial T, opts ...Option) *Value[T] {
	cfg := config{bufferSize: 16}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Value[T]{
		current:    initial,
		feeds:      make(map[*feed[T]]struct{}),
		done:       make(chan struct{}),
		bufferSize: cfg.bufferSize,
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set replaces the value and notifies observers.
// It reports false if the Value is closed.
func (v *Value[T]) Set(next T) bool {
	return v.Update(func(T) T { return next })
}

// Update replaces the value with fn(current) and notifies observers.
// fn runs outside the internal lock, so it may call Get.
// It reports false if the Value is closed.
func (v *Value[T]) Update(fn func(T) T) bool {
	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.RLock()
	if v.closed {
		v.mu.RUnlock()
		return false
	}
	cur := v.current
	v.mu.RUnlock()

	next := fn(cur)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return false
	}
	v.current = next
	observers := slices.Clone(v.observers)
	feeds := make([]*feed[T], 0, len(v.feeds))
	for f := range v.feeds {
		feeds = append(feeds, f)
	}
	v.mu.Unlock()

	for _, o := range observers {
		o.fn(next)
	}
	for _, f := range feeds {
		f.send(next)
	}
	return true
}

// Subscribe registers fn and immediately calls it with the current value.
// The returned function removes the observer; it is idempotent.
// Subscribing to a closed Value replays the last value and registers nothing.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	cur := v.current
	if v.closed {
		v.mu.Unlock()
		fn(cur)
		return func() {}
	}
	id := v.nextID
	v.nextID++
	v.observers = append(v.observers, observer[T]{id: id, fn: fn})
	v.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() { v.unsubscribe(id) })
	}
}

// Observers returns the number of registered observers.
func (v *Value[T]) Observers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.observers)
}

// Closed reports whether Close has been called.
func (v *Value[T]) Closed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.closed
}

// Close drops all observers and closes all feeds. Further mutations are
// ignored. Close is idempotent.
func (v *Value[T]) Close() {
	v.emitMu.Lock()
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		v.emitMu.Unlock()
		return
	}
	v.closed = true
	v.observers = nil
	for f := range v.feeds {
		f.close()
	}
	clear(v.feeds)
	close(v.done)
	v.mu.Unlock()
	v.emitMu.Unlock()

	// feed cleanup goroutines exit on done; wait so none outlive Close
	v.cleanupWg.Wait()
}

// Watch returns a channel that receives the current value followed by every
// later change. The channel is closed when ctx is cancelled or the Value is closed.
func (v *Value[T]) Watch(ctx context.Context) <-chan T {
	f := newFeed[T](v.bufferSize)

	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		f.close()
		return f.ch
	}

	f.send(v.current)
	v.feeds[f] = struct{}{}

	if ctx.Done() != nil {
		v.cleanupWg.Add(1)
		go func() {
			defer v.cleanupWg.Done()
			select {
			case <-ctx.Done():
				v.unwatch(f)
			case <-v.done:
			}
		}()
	}

	return f.ch
}

func (v *Value[T]) unsubscribe(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.observers = slices.DeleteFunc(v.observers, func(o observer[T]) bool {
		return o.id == id
	})
}

func (v *Value[T]) unwatch(f *feed[T]) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.feeds, f)
	f.close()
}
