// Package events provides a small synchronous publish/subscribe primitive.
//
// Emitters are the backbone of change propagation between the SCM registry,
// the decoration bridges, and the decoration service. Delivery is synchronous:
// Emit runs every current subscriber on the caller's goroutine, in
// subscription order, before returning.
package events

import "sync"

// Disposer removes a subscription. Calling it more than once is safe.
type Disposer func()

type subscriber[T any] struct {
	seq int
	fn  func(T)
}

// Emitter fans a value out to its subscribers. The zero value is not usable;
// create one with New.
type Emitter[T any] struct {
	mu   sync.Mutex
	next int
	subs []subscriber[T]
}

// New creates an empty emitter.
func New[T any]() *Emitter[T] {
	return &Emitter[T]{}
}

// Subscribe registers fn to run on every subsequent Emit. The returned
// disposer unregisters it; disposing twice is a no-op.
func (e *Emitter[T]) Subscribe(fn func(T)) Disposer {
	e.mu.Lock()
	defer e.mu.Unlock()

	seq := e.next
	e.next++
	e.subs = append(e.subs, subscriber[T]{seq: seq, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			for i, s := range e.subs {
				if s.seq == seq {
					e.subs = append(e.subs[:i], e.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Emit delivers v to every subscriber registered at the time of the call.
// Subscribers added or removed by a handler take effect for the next Emit.
func (e *Emitter[T]) Emit(v T) {
	e.mu.Lock()
	subs := make([]subscriber[T], len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Len reports the current number of subscribers.
func (e *Emitter[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}
