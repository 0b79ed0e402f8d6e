package observable

import "sync"

type feed[T any] struct {
	ch     chan T
	closed bool
	mu     sync.Mutex
}

func newFeed[T any](bufferSize int) *feed[T] {
	return &feed[T]{ch: make(chan T, bufferSize)}
}

// send never blocks. With a full buffer the oldest queued value is dropped.
func (f *feed[T]) send(val T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	for {
		select {
		case f.ch <- val:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

func (f *feed[T]) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.closed {
		close(f.ch)
		f.closed = true
	}
}
