package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// Value is a structured value used for execution parameters and results.
// Only the types in this file implement it.
type Value interface {
	isValue()
}

type (
	Null   struct{}
	Bool   bool
	Int    int64
	Float  float64
	String string
	List   []Value
	Map    map[string]Value
)

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (String) isValue() {}
func (List) isValue()   {}
func (Map) isValue()    {}

// FromAny converts decoded JSON or plain Go values into a Value.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		return Float(f), nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			item, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = item
		}
		return list, nil
	case map[string]any:
		return MapFromAny(val)
	default:
		return fromReflect(reflect.ValueOf(v))
	}
}

// MapFromAny converts a decoded JSON object into a Map. A nil input yields an empty Map.
func MapFromAny(m map[string]any) (Map, error) {
	out := make(Map, len(m))
	for k, elem := range m {
		item, err := FromAny(elem)
		if err != nil {
			return nil, fmt.Errorf("[%q]: %w", k, err)
		}
		out[k] = item
	}
	return out, nil
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Float(float64(u)), nil
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		list := make(List, rv.Len())
		for i := range list {
			item, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = item
		}
		return list, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type: %s", rv.Type().Key())
		}
		out := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			item, err := FromAny(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", iter.Key().String(), err)
			}
			out[iter.Key().String()] = item
		}
		return out, nil
	default:
		if !rv.IsValid() {
			return Null{}, nil
		}
		return nil, fmt.Errorf("unsupported value type: %s", rv.Type())
	}
}

// ToAny converts a Value back into plain Go values suitable for encoding/json.
func ToAny(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case String:
		return string(val)
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToAny(elem)
		}
		return out
	case Map:
		return val.ToAny()
	default:
		return nil
	}
}

func (m Map) ToAny() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = ToAny(v)
	}
	return out
}

// ParseJSON decodes a JSON document into a Value, keeping integers exact.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return FromAny(raw)
}

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (l List) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(l)
}

func (m Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return MarshalCanonical(m)
}

func (m *Map) UnmarshalJSON(data []byte) error {
	v, err := ParseJSON(data)
	if err != nil {
		return err
	}
	switch val := v.(type) {
	case Map:
		*m = val
	case Null:
		*m = Map{}
	default:
		return fmt.Errorf("expected JSON object, got %T", v)
	}
	return nil
}

// Scan implements sql.Scanner for jsonb columns.
func (m *Map) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Map{}
		return nil
	case []byte:
		return m.UnmarshalJSON(v)
	case string:
		return m.UnmarshalJSON([]byte(v))
	case map[string]any:
		out, err := MapFromAny(v)
		if err != nil {
			return err
		}
		*m = out
		return nil
	default:
		return fmt.Errorf("cannot scan %T into core.Map", src)
	}
}
