// Package opt carries values that may be absent. Absence is distinct from
// the zero value of T.
package opt

// Value holds either a T or nothing.
type Value[T any] struct {
	v  T
	ok bool
}

func Some[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

func None[T any]() Value[T] {
	return Value[T]{}
}

// From builds a Value from the usual (v, ok) lookup pair.
func From[T any](v T, ok bool) Value[T] {
	if !ok {
		return Value[T]{}
	}
	return Value[T]{v: v, ok: true}
}

func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

func (o Value[T]) Present() bool {
	return o.ok
}

// Or returns the held value, or fallback when absent.
func (o Value[T]) Or(fallback T) T {
	if !o.ok {
		return fallback
	}
	return o.v
}
