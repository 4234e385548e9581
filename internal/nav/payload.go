package nav

// Key identifies a typed payload value. Keys with the same name but different
// type parameters are distinct.
type Key[T any] struct {
	name string
}

// NewKey returns a key for values of type T.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the key's label.
func (k Key[T]) Name() string {
	return k.name
}

// Entry is a single key/value pair used to build a Payload.
type Entry interface {
	apply(values map[any]any)
}

type entry[T any] struct {
	key   Key[T]
	value T
}

func (e entry[T]) apply(values map[any]any) {
	values[e.key] = e.value
}

// Set pairs a key with a value of the key's type.
func Set[T any](key Key[T], value T) Entry {
	return entry[T]{key: key, value: value}
}

// Payload carries values across a single navigation transition. The zero
// value is empty and ready to use.
type Payload struct {
	values map[any]any
}

// NewPayload builds a payload from the supplied entries.
func NewPayload(entries ...Entry) Payload {
	if len(entries) == 0 {
		return Payload{}
	}
	values := make(map[any]any, len(entries))
	for _, e := range entries {
		if e != nil {
			e.apply(values)
		}
	}
	return Payload{values: values}
}

// Len reports the number of values held.
func (p Payload) Len() int {
	return len(p.values)
}

// Empty reports whether the payload holds no values.
func (p Payload) Empty() bool {
	return len(p.values) == 0
}

// Lookup returns the value stored under key, typed.
func Lookup[T any](p Payload, key Key[T]) (T, bool) {
	var zero T
	if p.values == nil {
		return zero, false
	}
	raw, ok := p.values[key]
	if !ok {
		return zero, false
	}
	value, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return value, true
}
