// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package record provides the typed settings tree that providers store and that the redact package
// transforms. A Record maps field names to Values; a Value is either a primitive or a nested Record.
package record

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies which member of the Value union is set.
type Kind int

const (
	NullKind Kind = iota
	StringKind
	NumberKind
	BoolKind
	ObjectKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case StringKind:
		return "string"
	case NumberKind:
		return "number"
	case BoolKind:
		return "bool"
	case ObjectKind:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

var (
	_ json.Marshaler   = Value{}
	_ json.Unmarshaler = &Value{}
	_ json.Unmarshaler = &Record{}
)

// Value is a single settings value. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	obj  Record
}

// Record is a settings object keyed by field name.
type Record map[string]Value

func Null() Value { return Value{} }

func String(s string) Value { return Value{kind: StringKind, str: s} }

func Number(f float64) Value { return Value{kind: NumberKind, num: f} }

func Bool(b bool) Value { return Value{kind: BoolKind, b: b} }

// Object wraps r as a Value. A nil r is stored as an empty Record so that an Object Value is never null.
func Object(r Record) Value {
	if r == nil {
		r = Record{}
	}
	return Value{kind: ObjectKind, obj: r}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == NullKind }

// Str returns the string held by v, and whether v is a string at all.
func (v Value) Str() (string, bool) { return v.str, v.kind == StringKind }

func (v Value) Num() (float64, bool) { return v.num, v.kind == NumberKind }

func (v Value) Boolean() (bool, bool) { return v.b, v.kind == BoolKind }

// Obj returns the nested Record held by v. The Record is shared with v, not copied.
func (v Value) Obj() (Record, bool) { return v.obj, v.kind == ObjectKind }

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v.kind == ObjectKind {
		return Object(v.obj.Clone())
	}
	return v
}

// Equal reports whether v and o are structurally identical.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case NullKind:
		return true
	case StringKind:
		return v.str == o.str
	case NumberKind:
		return v.num == o.num
	case BoolKind:
		return v.b == o.b
	case ObjectKind:
		return v.obj.Equal(o.obj)
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case StringKind:
		return v.str
	case NumberKind:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case BoolKind:
		return strconv.FormatBool(v.b)
	case ObjectKind:
		return fmt.Sprintf("%v", map[string]Value(v.obj))
	default:
		return "null"
	}
}

// Clone returns a deep copy of r. Nested Records in the copy share no memory with r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v.Clone()
	}
	return out
}

// Equal reports whether r and o hold the same keys with structurally equal values. A nil Record equals
// an empty one.
func (r Record) Equal(o Record) bool {
	if len(r) != len(o) {
		return false
	}
	for k, v := range r {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Keys returns the keys of r in lexical order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case StringKind:
		return json.Marshal(v.str)
	case NumberKind:
		return json.Marshal(v.num)
	case BoolKind:
		return json.Marshal(v.b)
	case ObjectKind:
		return json.Marshal(map[string]Value(v.obj))
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var iface interface{}
	if err := json.Unmarshal(data, &iface); err != nil {
		return err
	}
	val, err := fromInterface(iface, "")
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if m == nil {
		*r = nil
		return nil
	}
	rec, err := fromMap(m, "")
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// FromMap converts a decoded JSON object into a Record. Arrays are not part of the settings model and
// are rejected with an error naming the offending key path.
func FromMap(m map[string]interface{}) (Record, error) {
	return fromMap(m, "")
}

func fromMap(m map[string]interface{}, path string) (Record, error) {
	out := make(Record, len(m))
	for k, iface := range m {
		v, err := fromInterface(iface, join(path, k))
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func fromInterface(iface interface{}, path string) (Value, error) {
	switch t := iface.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case int:
		return Number(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number at %q: %w", path, err)
		}
		return Number(f), nil
	case map[string]interface{}:
		rec, err := fromMap(t, path)
		if err != nil {
			return Value{}, err
		}
		return Object(rec), nil
	default:
		return Value{}, fmt.Errorf("unsupported value of type %T at %q", iface, path)
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
