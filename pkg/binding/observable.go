// Package binding provides observable values and two-way bindings between them.
//
// Observables are not goroutine-safe; like the rest of the framework they are
// meant to be read and written from the UI thread only.
package binding

import "reflect"

type listener[T any] struct {
	id int
	fn func(T)
}

// Observable holds a value and notifies listeners when it changes.
type Observable[T any] struct {
	value          T
	equal          func(a, b T) bool
	listeners      []listener[T]
	nextListenerID int
}

// NewObservable creates an observable for a comparable type. Set is a no-op
// when the new value equals the current one.
func NewObservable[T comparable](initial T) *Observable[T] {
	return &Observable[T]{
		value: initial,
		equal: func(a, b T) bool { return a == b },
	}
}

// NewObservableFunc creates an observable that uses equal to detect changes.
// A nil equal treats every Set as a change.
func NewObservableFunc[T any](initial T, equal func(a, b T) bool) *Observable[T] {
	return &Observable[T]{value: initial, equal: equal}
}

// NewValue creates an observable for opaque values such as data contexts.
// Comparable dynamic values are compared with ==, anything else is treated
// as always changed.
func NewValue(initial any) *Observable[any] {
	return NewObservableFunc(initial, Same)
}

// Same reports whether a and b are the same opaque value. Pointers compare by
// identity. Values that cannot be compared with ==, including structs whose
// interface fields hold slices, maps or funcs, never compare equal.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	// Value.Comparable looks through interface fields, Type.Comparable does not.
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// Value returns the current value.
func (o *Observable[T]) Value() T {
	return o.value
}

// Set stores value and notifies listeners if it differs from the current one.
func (o *Observable[T]) Set(value T) {
	if o.equal != nil && o.equal(o.value, value) {
		return
	}
	o.value = value
	o.notify(value)
}

// Update applies a transformation to the current value.
func (o *Observable[T]) Update(transform func(T) T) {
	o.Set(transform(o.value))
}

// AddListener registers fn to be called with the new value after each change.
// Returns an unsubscribe function; calling it more than once is harmless.
func (o *Observable[T]) AddListener(fn func(T)) func() {
	id := o.nextListenerID
	o.nextListenerID++
	o.listeners = append(o.listeners, listener[T]{id: id, fn: fn})
	return func() {
		for i, l := range o.listeners {
			if l.id == id {
				o.listeners = append(o.listeners[:i:i], o.listeners[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (o *Observable[T]) ListenerCount() int {
	return len(o.listeners)
}

func (o *Observable[T]) notify(value T) {
	// Listeners may unsubscribe while being notified.
	snapshot := append([]listener[T](nil), o.listeners...)
	for _, l := range snapshot {
		if o.has(l.id) {
			l.fn(value)
		}
	}
}

func (o *Observable[T]) has(id int) bool {
	for _, l := range o.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}
