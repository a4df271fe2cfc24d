package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

type RawMessage = json.RawMessage
type Object map[string]RawMessage
type Array []RawMessage

var ErrNotObject = errors.New("json: value is not an object")

func Compact(dst *bytes.Buffer, src []byte) error {
	return json.Compact(dst, src)
}

// Normalize validates in and returns it without insignificant whitespace.
func Normalize(in []byte) (RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func MarshalIndent(v any, prefix string, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}

func Valid(data []byte) bool {
	return json.Valid(data)
}

func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Kind is the type of a JSON value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// KindOf inspects the first byte of a value to determine its kind. It does not
// validate the remainder of the value.
func KindOf(in RawMessage) Kind {
	in = bytes.TrimLeft(in, " \t\r\n")
	if len(in) == 0 {
		return KindInvalid
	}

	switch c := in[0]; {
	case c == 'n':
		return KindNull
	case c == 't' || c == 'f':
		return KindBool
	case c == '"':
		return KindString
	case c == '[':
		return KindArray
	case c == '{':
		return KindObject
	case c == '-' || (c >= '0' && c <= '9'):
		return KindNumber
	default:
		return KindInvalid
	}
}

var null = RawMessage(`null`)

func IsNull(in RawMessage) bool {
	return bytes.Equal(in, null)
}

func IsArray(in RawMessage) bool {
	return KindOf(in) == KindArray
}

func IsEmptyArray(in RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(in), []byte(`[]`))
}

func IsMap(in RawMessage) bool {
	return KindOf(in) == KindObject
}

func IsString(in RawMessage) bool {
	return KindOf(in) == KindString
}

func IsScalar(in RawMessage) bool {
	switch KindOf(in) {
	case KindBool, KindNumber, KindString:
		return true
	default:
		return false
	}
}

// String decodes in if it holds a JSON string.
func String(in RawMessage) (string, bool) {
	if !IsString(in) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(in, &s); err != nil {
		return "", false
	}
	return s, true
}

// Bool decodes in if it holds a JSON boolean.
func Bool(in RawMessage) (bool, bool) {
	if KindOf(in) != KindBool {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(in, &b); err != nil {
		return false, false
	}
	return b, true
}

// Elements returns the elements of an array. Any other value is returned as the
// only element of the result.
func Elements(in RawMessage) ([]RawMessage, error) {
	if !IsArray(in) {
		return []RawMessage{in}, nil
	}
	var res []RawMessage
	if err := json.Unmarshal(in, &res); err != nil {
		return nil, err
	}
	if res == nil {
		res = []RawMessage{}
	}
	return res, nil
}

// Strings decodes a string or an array of strings.
func Strings(in RawMessage) ([]string, bool) {
	elems, err := Elements(in)
	if err != nil {
		return nil, false
	}
	res := make([]string, 0, len(elems))
	for _, el := range elems {
		s, ok := String(el)
		if !ok {
			return nil, false
		}
		res = append(res, s)
	}
	return res, true
}

func MakeArray(in RawMessage) RawMessage {
	if len(in) == 0 {
		return json.RawMessage(`[]`)
	}

	if IsArray(in) {
		return in
	}

	return bytes.Join([][]byte{
		[]byte(`[`),
		in,
		[]byte(`]`),
	}, nil)
}

// Member is a single key and value of an object.
type Member struct {
	Key   string
	Value RawMessage
}

// Members decodes an object keeping the order of its keys as they appear in
// the source. When a key occurs more than once, the last value wins but the
// position of the first occurrence is kept.
func Members(in RawMessage) ([]Member, error) {
	dec := json.NewDecoder(bytes.NewReader(in))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	var res []Member
	seen := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, ErrNotObject
		}

		var val RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}

		if idx, ok := seen[key]; ok {
			res[idx].Value = val
			continue
		}
		seen[key] = len(res)
		res = append(res, Member{Key: key, Value: val})
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}

	return res, nil
}

// ObjectOf turns members into an Object for lookups.
func ObjectOf(members []Member) Object {
	res := make(Object, len(members))
	for _, m := range members {
		res[m.Key] = m.Value
	}
	return res
}
