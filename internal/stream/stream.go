// Package stream is the reactive query primitive for the local cache:
// a subscriber receives the current value immediately and a fresh value
// after every mutation, until it cancels. Slow subscribers are
// conflated to the latest value, never blocked on.
package stream

import "sync"

// Var holds a current value and fans out updates to subscribers.
type Var[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[int]chan T
	next  int
}

func NewVar[T any](initial T) *Var[T] {
	return &Var[T]{value: initial, subs: map[int]chan T{}}
}

// Get returns the current value.
func (v *Var[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set stores a new value and emits it to every subscriber.
func (v *Var[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = val
	for _, ch := range v.subs {
		send(ch, val)
	}
}

// Subscribe returns a channel that yields the current value right away
// and every subsequent Set. The cancel func releases the subscription;
// it is safe to call more than once and does not affect other
// subscribers.
func (v *Var[T]) Subscribe() (<-chan T, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.next
	v.next++
	ch := make(chan T, 1)
	ch <- v.value
	v.subs[id] = ch

	cancel := func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, ok := v.subs[id]; ok {
			delete(v.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// send delivers val without blocking: if the subscriber has not
// consumed the previous value it is replaced by the newer one.
func send[T any](ch chan T, val T) {
	for {
		select {
		case ch <- val:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
