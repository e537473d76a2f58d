package jfr

import "math"

// Accessor reads a decoded JFR value by field name. Pooled references
// (threads, stack traces, methods, classes, symbols) are followed
// transparently, so a field of a constant-pool type looks like a nested
// record.
type Accessor interface {
	// Field returns the named field; ok is false when the value has no such
	// field.
	Field(name string) (Accessor, bool)
	// Value returns the primitive payload (an integer, bool or string), or
	// nil for records, arrays and null references.
	Value() any
	// Null reports a null constant-pool reference or null string.
	Null() bool
	// Elements returns the members of an array value.
	Elements() ([]Accessor, bool)
}

// Event is one decoded event with its declared JFR class name.
type Event struct {
	Class string
	Accessor
}

// Primitive is a leaf value. The zero Primitive is null.
type Primitive struct {
	V any
}

func (p Primitive) Field(string) (Accessor, bool) { return nil, false }
func (p Primitive) Value() any { return p.V }
func (p Primitive) Null() bool { return p.V == nil }
func (p Primitive) Elements() ([]Accessor, bool) { return nil, false }

// Array is an array value.
type Array []Accessor

func (a Array) Field(string) (Accessor, bool) { return nil, false }
func (a Array) Value() any { return nil }
func (a Array) Null() bool { return false }
func (a Array) Elements() ([]Accessor, bool) { return a, true }

// Record is an in-memory record keyed by field name. Values may be
// Accessors, []Record, plain Go primitives, or nil for null references.
type Record map[string]any

func (r Record) Field(name string) (Accessor, bool) {
	v, ok := r[name]
	if !ok {
		return nil, false
	}
	switch v := v.(type) {
	case Accessor:
		return v, true
	case []Record:
		arr := make(Array, len(v))
		for i := range v {
			arr[i] = v[i]
		}
		return arr, true
	case []Accessor:
		return Array(v), true
	default:
		return Primitive{V: v}, true
	}
}

func (r Record) Value() any { return nil }
func (r Record) Null() bool { return false }
func (r Record) Elements() ([]Accessor, bool) { return nil, false }

// Child returns the named field or a FieldMissingError.
func Child(a Accessor, name string) (Accessor, error) {
	v, ok := a.Field(name)
	if !ok {
		return nil, &FieldMissingError{Field: name}
	}
	return v, nil
}

func Int(a Accessor, name string) (int64, error) {
	v, err := Child(a, name)
	if err != nil {
		return 0, err
	}
	n, ok := toInt64(v.Value())
	if !ok {
		return 0, &TypeMismatchError{Field: name, Expected: "integer"}
	}
	return n, nil
}

func Int32(a Accessor, name string) (int32, error) {
	n, err := Int(a, name)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, &TypeMismatchError{Field: name, Expected: "int32"}
	}
	return int32(n), nil
}

func Bool(a Accessor, name string) (bool, error) {
	v, err := Child(a, name)
	if err != nil {
		return false, err
	}
	b, ok := v.Value().(bool)
	if !ok {
		return false, &TypeMismatchError{Field: name, Expected: "boolean"}
	}
	return b, nil
}

func String(a Accessor, name string) (string, error) {
	s, ok, err := NullableString(a, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return s, nil
}

// NullableString returns ok == false for a null string.
func NullableString(a Accessor, name string) (string, bool, error) {
	v, err := Child(a, name)
	if err != nil {
		return "", false, err
	}
	if v.Null() {
		return "", false, nil
	}
	s, ok := v.Value().(string)
	if !ok {
		return "", false, &TypeMismatchError{Field: name, Expected: "string"}
	}
	return s, true, nil
}

// Symbol reads a field of type jdk.types.Symbol, whose text lives in the
// nested "string" field. A reader that already resolved the symbol to a plain
// string is accepted as well.
func Symbol(a Accessor, name string) (string, error) {
	v, err := Child(a, name)
	if err != nil {
		return "", err
	}
	if s, ok := v.Value().(string); ok {
		return s, nil
	}
	if v.Null() {
		return "", &TypeMismatchError{Field: name, Expected: "symbol"}
	}
	return String(v, "string")
}

func Elements(a Accessor, name string) ([]Accessor, error) {
	v, err := Child(a, name)
	if err != nil {
		return nil, err
	}
	elems, ok := v.Elements()
	if !ok {
		return nil, &TypeMismatchError{Field: name, Expected: "array"}
	}
	return elems, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}
