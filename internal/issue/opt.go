package issue

import "fmt"

// Opt is an explicitly optional value. The zero value is absent.
type Opt[T any] struct {
	v  T
	ok bool
}

// Some wraps a present value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{v: v, ok: true}
}

// None returns an absent value.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.v, o.ok
}

// IsSet reports whether the value is present.
func (o Opt[T]) IsSet() bool {
	return o.ok
}

// Or returns the value, or def when absent.
func (o Opt[T]) Or(def T) T {
	if !o.ok {
		return def
	}
	return o.v
}

func (o Opt[T]) String() string {
	if !o.ok {
		return "<none>"
	}
	return fmt.Sprint(o.v)
}
