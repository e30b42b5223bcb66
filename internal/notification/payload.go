package notification

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// ErrNonFiniteNumber is returned for NaN and infinities, which JSON cannot represent.
var ErrNonFiniteNumber = errors.New("payload number must be finite")

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a semi-structured JSON document used as a notification payload.
// The zero value is null.
type Value struct {
	kind Kind
	str  string
	num  json.Number
	b    bool
	arr  []Value
	obj  map[string]Value
}

func Null() Value {
	return Value{}
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number builds a number value. A NaN or infinite f yields a value that fails
// to marshal; use NumberOf to catch that up front.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatFloat(f, 'f', -1, 64))}
}

func NumberOf(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, ErrNonFiniteNumber
	}
	return Number(f), nil
}

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func Array(items ...Value) Value {
	return Value{kind: KindArray, arr: items}
}

// Object builds an object value. The map is copied.
func Object(fields map[string]Value) Value {
	obj := make(map[string]Value, len(fields))
	for k, v := range fields {
		obj[k] = v
	}
	return Value{kind: KindObject, obj: obj}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsObject() bool {
	return v.kind == KindObject
}

// Field returns the member named key when v is an object.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	field, ok := v.obj[key]
	return field, ok
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	return f, err == nil
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) Items() []Value {
	return v.arr
}

// MergeResult reports what Merge did with the receiver.
type MergeResult uint8

const (
	Merged MergeResult = iota
	NotAnObject
)

// Merge returns a copy of v with fields set on it when v is an object.
// Any other kind is returned untouched together with NotAnObject.
func (v Value) Merge(fields map[string]Value) (Value, MergeResult) {
	if v.kind != KindObject {
		return v, NotAnObject
	}

	obj := make(map[string]Value, len(v.obj)+len(fields))
	for k, field := range v.obj {
		obj[k] = field
	}
	for k, field := range fields {
		obj[k] = field
	}

	return Value{kind: KindObject, obj: obj}, Merged
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if !json.Valid([]byte(v.num)) {
			return nil, fmt.Errorf("invalid payload number %q: %w", string(v.num), ErrNonFiniteNumber)
		}
		return []byte(v.num), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	case KindObject:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.obj)
	default:
		return nil, fmt.Errorf("unknown payload kind %d", v.kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParsePayload(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParsePayload decodes a JSON document. Numbers keep their textual form.
// An empty input decodes to null.
func ParsePayload(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Null(), nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return Value{}, errors.New("failed to decode payload: unexpected data after top-level value")
	}

	return fromRaw(raw)
}

func fromRaw(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case json.Number:
		return Value{kind: KindNumber, num: t}, nil
	case bool:
		return Bool(t), nil
	case []interface{}:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			v, err := fromRaw(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: KindArray, arr: items}, nil
	case map[string]interface{}:
		obj := make(map[string]Value, len(t))
		for k, item := range t {
			v, err := fromRaw(item)
			if err != nil {
				return Value{}, err
			}
			obj[k] = v
		}
		return Value{kind: KindObject, obj: obj}, nil
	default:
		return Value{}, fmt.Errorf("unsupported payload value of type %T", raw)
	}
}
