// Package reactive holds observable values shared between a single writer and
// any number of readers.
package reactive

import (
	"sort"
	"sync"

	"go.uber.org/atomic"
)

// Ref is a live reference to a value. Readers always observe the latest value
// written with Set or Update, and subscribers are notified after each write.
type Ref[T any] struct {
	mu          sync.RWMutex
	value       T
	version     atomic.Uint64
	nextID      atomic.Uint64
	subscribers map[uint64]func(T)
}

func NewRef[T any](value T) *Ref[T] {
	return &Ref[T]{
		value:       value,
		subscribers: make(map[uint64]func(T)),
	}
}

func (r *Ref[T]) Get() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Version increases by one on every write.
func (r *Ref[T]) Version() uint64 {
	return r.version.Load()
}

func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	r.value = value
	r.version.Inc()
	listeners := r.snapshotLocked()
	r.mu.Unlock()

	notify(listeners, value)
}

func (r *Ref[T]) Update(fn func(current T) T) {
	r.mu.Lock()
	r.value = fn(r.value)
	value := r.value
	r.version.Inc()
	listeners := r.snapshotLocked()
	r.mu.Unlock()

	notify(listeners, value)
}

// Subscribe registers fn for future writes. Listeners run on the writer's
// goroutine, outside the lock, in subscription order.
func (r *Ref[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}

	id := r.nextID.Inc()
	r.mu.Lock()
	r.subscribers[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subscribers, id)
			r.mu.Unlock()
		})
	}
}

func (r *Ref[T]) snapshotLocked() []func(T) {
	if len(r.subscribers) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(r.subscribers))
	for id := range r.subscribers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i int, j int) bool { return ids[i] < ids[j] })

	out := make([]func(T), 0, len(ids))
	for _, id := range ids {
		out = append(out, r.subscribers[id])
	}
	return out
}

func notify[T any](listeners []func(T), value T) {
	for _, listener := range listeners {
		listener(value)
	}
}
