// Package completion bridges a callback-style asynchronous operation to a single
// awaiting caller. The network client reports results on its own goroutines and
// has been observed to invoke a completion callback more than once for one logical
// request, so the bridge guarantees that only the first resolution is observable
// and that resolutions arriving after the caller gave up are reduced to cleanup.
package completion

import (
	"context"
	"sync"
)

type state int

const (
	statePending state = iota
	stateResolved
	stateCancelled
)

// Bridge is a single-use result slot. Exactly one goroutine may call Await;
// Resolve may be called any number of times from any goroutine.
type Bridge[T any] struct {
	mu     sync.Mutex
	state  state
	result chan T
	orphan func(T)
}

// New allocates a pending Bridge.
func New[T any]() *Bridge[T] {
	return &Bridge[T]{result: make(chan T, 1)}
}

// OnOrphan registers a cleanup hook for results that arrive after the awaiting
// side is already gone. The hook must not assume any caller is listening.
func (b *Bridge[T]) OnOrphan(fn func(T)) {
	b.mu.Lock()
	b.orphan = fn
	b.mu.Unlock()
}

// Resolve delivers v to the awaiting caller. Only the first call on a pending
// bridge has any effect; it returns true. Calls after resolution are ignored.
// Calls after cancellation run the orphan hook with v and report false.
func (b *Bridge[T]) Resolve(v T) bool {
	b.mu.Lock()

	switch b.state {
	case statePending:
		b.state = stateResolved
		// Buffered to 1, so the send cannot block even if the caller is slow
		// to collect.
		b.result <- v
		b.mu.Unlock()
		return true

	case stateCancelled:
		fn := b.orphan
		b.mu.Unlock()
		if fn != nil {
			fn(v)
		}
		return false

	default:
		b.mu.Unlock()
		return false
	}
}

// Await blocks until the bridge resolves or ctx is done. On cancellation the
// bridge transitions to its terminal cancelled state: it keeps no reference to
// the caller, and later Resolve calls are reduced to the orphan hook.
func (b *Bridge[T]) Await(ctx context.Context) (T, error) {
	select {
	case v := <-b.result:
		return v, nil
	case <-ctx.Done():
	}

	// The context fired, but a resolution may have won the race. The send
	// happens under the mutex, so once we observe stateResolved the value is
	// guaranteed to be in the channel.
	b.mu.Lock()
	if b.state == stateResolved {
		b.mu.Unlock()
		return <-b.result, nil
	}
	b.state = stateCancelled
	b.mu.Unlock()

	var zero T
	return zero, ctx.Err()
}

// Pending reports whether the bridge still awaits its first resolution.
func (b *Bridge[T]) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == statePending
}
