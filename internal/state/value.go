package state

import "sync"

// ChangeFunc receives the new and the previous value of an observed Value.
type ChangeFunc[T comparable] func(current, previous T)

type listener[T comparable] struct {
	id int
	fn ChangeFunc[T]
}

// Value is an observable value shared between a single writer and its
// observers. Listeners are notified only on genuine transitions; setting the
// current value again is silent.
//
// The zero Value is ready to use and holds the zero value of T. A Value must
// not be copied after first use.
type Value[T comparable] struct {
	mu        sync.RWMutex
	value     T
	listeners []listener[T]
	nextID    int
}

// Bool is an observable boolean signal.
type Bool = Value[bool]

// Int is an observable integer setting.
type Int = Value[int]

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set stores value and notifies listeners when it differs from the current
// one. Listeners run on the caller's goroutine, after the lock is released,
// in subscription order.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	previous := v.value
	if previous == value {
		v.mu.Unlock()
		return
	}
	v.value = value
	listeners := make([]listener[T], len(v.listeners))
	copy(listeners, v.listeners)
	v.mu.Unlock()

	for _, l := range listeners {
		l.fn(value, previous)
	}
}

// OnChange registers fn and returns a function that removes it again. The
// returned function is idempotent.
func (v *Value[T]) OnChange(fn ChangeFunc[T]) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners = append(v.listeners, listener[T]{id: id, fn: fn})
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { v.remove(id) })
	}
}

// Listeners reports how many listeners are currently registered.
func (v *Value[T]) Listeners() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.listeners)
}

func (v *Value[T]) remove(id int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, l := range v.listeners {
		if l.id == id {
			v.listeners = append(v.listeners[:i:i], v.listeners[i+1:]...)
			return
		}
	}
}
