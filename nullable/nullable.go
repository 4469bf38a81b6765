// Package nullable is the runtime support imported by generated code for
// fields that distinguish an absent value, an explicit null and a value.
package nullable

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Presence is the bit flag describing how a field appeared in the input.
type Presence uint8

const (
	PresenceSeen    Presence = 1 << iota // Field was set, either to null or to a value.
	PresenceWasNull                      // Field was set to null.
)

func (p Presence) Has(f Presence) bool { return p&f != 0 }

// Nullable holds a T that may be unset, explicitly null, or present. The zero
// value is unset.
type Nullable[T any] struct {
	value *T
	set   bool
}

// Set returns a Nullable holding v.
func Set[T any](v T) Nullable[T] { return Nullable[T]{value: &v, set: true} }

// Null returns a Nullable holding an explicit null.
func Null[T any]() Nullable[T] { return Nullable[T]{set: true} }

// FromPtr returns Null for a nil pointer and Set(*p) otherwise.
func FromPtr[T any](p *T) Nullable[T] {
	if p == nil {
		return Null[T]()
	}
	return Set(*p)
}

// Ptr returns a pointer to a copy of v, for optional fields.
func Ptr[T any](v T) *T { return &v }

// IsSet reports whether the field was given, as null or as a value.
func (n Nullable[T]) IsSet() bool { return n.set }

// IsNull reports whether the field was explicitly set to null.
func (n Nullable[T]) IsNull() bool { return n.set && n.value == nil }

// Get returns the value and whether one is present.
func (n Nullable[T]) Get() (T, bool) {
	if n.value == nil {
		var zero T
		return zero, false
	}
	return *n.value, true
}

// Value returns the value, or the zero T when unset or null.
func (n Nullable[T]) Value() T {
	v, _ := n.Get()
	return v
}

// Ptr returns a copy of the value, or nil when unset or null.
func (n Nullable[T]) Ptr() *T {
	if n.value == nil {
		return nil
	}
	v := *n.value
	return &v
}

func (n Nullable[T]) Presence() Presence {
	switch {
	case !n.set:
		return 0
	case n.value == nil:
		return PresenceSeen | PresenceWasNull
	}
	return PresenceSeen
}

func (n *Nullable[T]) SetValue(v T) { *n = Set(v) }

func (n *Nullable[T]) SetNull() { *n = Null[T]() }

// Unset resets n to the absent state.
func (n *Nullable[T]) Unset() { *n = Nullable[T]{} }

// MarshalJSON writes null for an unset or null field. Generated models omit
// unset fields before this is reached.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.value)
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.SetNull()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.SetValue(v)
	return nil
}
