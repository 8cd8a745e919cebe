package fixture

// Value is a sealed interface over the six value kinds the fixture JSON
// dialect supports. Only Null, Bool, Int, String, Array, and Object
// implement it. There is no float variant: fractional literals are a decode
// error, never a lossy conversion.
type Value interface {
	value() // sealed
}

// Null is the JSON null value.
type Null struct{}

func (Null) value() {}

// Bool is a JSON boolean.
type Bool bool

func (Bool) value() {}

// Int is a JSON integer. Always int64; the decoder rejects anything that
// does not fit.
type Int int64

func (Int) value() {}

// String is a JSON string.
type String string

func (String) value() {}

// Array is an ordered list of values.
type Array []Value

func (Array) value() {}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered list of members. Unlike a map, it preserves the
// authored key order and tolerates duplicate keys; Get returns the first
// match. Fixture files are hand-written, so both properties matter for
// faithful round-tripping.
type Object []Member

func (Object) value() {}

// Get returns the value for the first member with the given key, or
// (nil, false) when the key is absent.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// GetString returns the string value for key, or "" when the key is absent
// or not a string.
func (o Object) GetString(key string) string {
	if v, ok := o.Get(key); ok {
		if s, ok := v.(String); ok {
			return string(s)
		}
	}
	return ""
}

// GetArray returns the array value for key, or nil when the key is absent
// or not an array.
func (o Object) GetArray(key string) Array {
	if v, ok := o.Get(key); ok {
		if a, ok := v.(Array); ok {
			return a
		}
	}
	return nil
}
