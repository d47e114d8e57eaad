package interp

import (
	"sort"
	"strconv"
	"strings"
)

// ValueKind names a Value variant.
type ValueKind string

const (
	NullKind   ValueKind = "Null"
	BoolKind   ValueKind = "Bool"
	IntKind    ValueKind = "Int"
	FloatKind  ValueKind = "Float"
	StringKind ValueKind = "String"
	ArrayKind  ValueKind = "Array"
	MapKind    ValueKind = "Map"
)

// Value is the dynamic type carried across every builtin call, as argument
// and as result. The variant set is closed: Null, Bool, Int, Float, String,
// Array and Map below are the only implementations.
type Value interface {
	Kind() ValueKind
	String() string
}

type Null struct{}

func (Null) Kind() ValueKind { return NullKind }
func (Null) String() string  { return "null" }

type Bool struct{ Value bool }

func (b Bool) Kind() ValueKind { return BoolKind }
func (b Bool) String() string  { return strconv.FormatBool(b.Value) }

type Int struct{ Value int64 }

func (i Int) Kind() ValueKind { return IntKind }
func (i Int) String() string  { return strconv.FormatInt(i.Value, 10) }

type Float struct{ Value float64 }

func (f Float) Kind() ValueKind { return FloatKind }
func (f Float) String() string  { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

type String struct{ Value string }

func (s String) Kind() ValueKind { return StringKind }
func (s String) String() string  { return s.Value }

type Array struct{ Elements []Value }

func (a Array) Kind() ValueKind { return ArrayKind }
func (a Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type Map struct{ Entries map[string]Value }

func (m Map) Kind() ValueKind { return MapKind }

// String renders entries in sorted key order so the output is stable.
func (m Map) String() string {
	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + m.Entries[k].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// AsInt coerces v to an int64. Floats truncate toward zero, strings parse
// as base-10 integers.
func AsInt(v Value) (int64, error) {
	switch t := v.(type) {
	case Int:
		return t.Value, nil
	case Float:
		return int64(t.Value), nil
	case String:
		n, err := strconv.ParseInt(t.Value, 10, 64)
		if err != nil {
			return 0, typeErrorf("cannot convert string '%s' to integer", t.Value)
		}
		return n, nil
	default:
		return 0, typeErrorf("cannot convert %s to integer", v.Kind())
	}
}

// AsFloat coerces v to a float64.
func AsFloat(v Value) (float64, error) {
	switch t := v.(type) {
	case Int:
		return float64(t.Value), nil
	case Float:
		return t.Value, nil
	case String:
		f, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return 0, typeErrorf("cannot convert string '%s' to float", t.Value)
		}
		return f, nil
	default:
		return 0, typeErrorf("cannot convert %s to float", v.Kind())
	}
}

// AsBool coerces v to a bool. Numbers are truthy iff nonzero; strings match
// true/yes/1 and false/no/0 case-insensitively.
func AsBool(v Value) (bool, error) {
	switch t := v.(type) {
	case Bool:
		return t.Value, nil
	case Int:
		return t.Value != 0, nil
	case Float:
		return t.Value != 0, nil
	case String:
		switch strings.ToLower(t.Value) {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0":
			return false, nil
		}
		return false, typeErrorf("cannot convert string '%s' to boolean", t.Value)
	default:
		return false, typeErrorf("cannot convert %s to boolean", v.Kind())
	}
}

// AsString renders v as a string. Never fails: non-string variants use the
// canonical rendering.
func AsString(v Value) string { return v.String() }

// AsArray returns the element slice of an Array, failing for every other
// variant.
func AsArray(v Value) ([]Value, error) {
	if a, ok := v.(Array); ok {
		return a.Elements, nil
	}
	return nil, typeErrorf("cannot convert %s to array", v.Kind())
}

// AsMap returns the entry map of a Map, failing for every other variant.
func AsMap(v Value) (map[string]Value, error) {
	if m, ok := v.(Map); ok {
		return m.Entries, nil
	}
	return nil, typeErrorf("cannot convert %s to map", v.Kind())
}

// Equal is structural equality with one cross-variant rule: Int and Float
// compare numerically, so Int(3) equals Float(3.0).
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x.Value == y.Value
	case Int:
		switch y := b.(type) {
		case Int:
			return x.Value == y.Value
		case Float:
			return float64(x.Value) == y.Value
		}
		return false
	case Float:
		switch y := b.(type) {
		case Int:
			return x.Value == float64(y.Value)
		case Float:
			return x.Value == y.Value
		}
		return false
	case String:
		y, ok := b.(String)
		return ok && x.Value == y.Value
	case Array:
		y, ok := b.(Array)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equal(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case Map:
		y, ok := b.(Map)
		if !ok || len(x.Entries) != len(y.Entries) {
			return false
		}
		for k, v := range x.Entries {
			w, present := y.Entries[k]
			if !present || !Equal(v, w) {
				return false
			}
		}
		return true
	}
	return false
}
