package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AttrKind identifies the shape of an AttrValue.
type AttrKind int

const (
	KindNull AttrKind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// AttrValue is a tagged union over the value shapes a marketplace attribute
// can take on the wire: string, number, bool, list or map. Unknown attributes
// are carried as AttrValues so no decode path has to guess at interface{}.
type AttrValue struct {
	Kind AttrKind
	Str  string
	Num  float64
	B    bool
	List []AttrValue
	Map  map[string]AttrValue
}

// StringAttr creates a string-valued attribute.
func StringAttr(s string) AttrValue { return AttrValue{Kind: KindString, Str: s} }

// NumberAttr creates a number-valued attribute.
func NumberAttr(n float64) AttrValue { return AttrValue{Kind: KindNumber, Num: n} }

// BoolAttr creates a bool-valued attribute.
func BoolAttr(b bool) AttrValue { return AttrValue{Kind: KindBool, B: b} }

// ListAttr creates a list-valued attribute.
func ListAttr(items []AttrValue) AttrValue { return AttrValue{Kind: KindList, List: items} }

// MapAttr creates a map-valued attribute.
func MapAttr(m map[string]AttrValue) AttrValue { return AttrValue{Kind: KindMap, Map: m} }

// IsZero reports whether the value is null.
func (v AttrValue) IsZero() bool { return v.Kind == KindNull }

// String returns the value as a string. Numbers and bools are formatted;
// lists and maps are JSON-encoded.
func (v AttrValue) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindList, KindMap:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// Float64 returns the value as a float64. String values are parsed leniently,
// so a quantity arriving as "5" coerces the same as 5.
func (v AttrValue) Float64() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int returns the value as an int with the same leniency as Float64.
func (v AttrValue) Int() (int, bool) {
	f, ok := v.Float64()
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Bool returns the value as a bool. Strings "true"/"false"/"1"/"0" coerce;
// numbers coerce on non-zero.
func (v AttrValue) Bool() (bool, bool) {
	switch v.Kind {
	case KindBool:
		return v.B, true
	case KindString:
		b, err := strconv.ParseBool(strings.TrimSpace(v.Str))
		if err != nil {
			return false, false
		}
		return b, true
	case KindNumber:
		return v.Num != 0, true
	default:
		return false, false
	}
}

// StringList returns the value as a list of strings. A string value holding a
// JSON-encoded array is decoded first; decode failure yields nil.
func (v AttrValue) StringList() []string {
	list := v.List
	if v.Kind == KindString {
		var decoded AttrValue
		if err := json.Unmarshal([]byte(v.Str), &decoded); err != nil || decoded.Kind != KindList {
			return nil
		}
		list = decoded.List
	} else if v.Kind != KindList {
		return nil
	}

	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, item.String())
	}
	return out
}

// StringMap returns the value as a map of strings, decoding a JSON-encoded
// string the same way StringList does. Decode failure yields nil.
func (v AttrValue) StringMap() map[string]string {
	m := v.Map
	if v.Kind == KindString {
		var decoded AttrValue
		if err := json.Unmarshal([]byte(v.Str), &decoded); err != nil || decoded.Kind != KindMap {
			return nil
		}
		m = decoded.Map
	} else if v.Kind != KindMap {
		return nil
	}

	out := make(map[string]string, len(m))
	for k, item := range m {
		out[k] = item.String()
	}
	return out
}

// MarshalJSON encodes the value in its wire shape.
func (v AttrValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.B)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case KindMap:
		if v.Map == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Map)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any JSON value into its tagged shape.
func (v *AttrValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = AttrValue{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringAttr(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolAttr(b)
	case '[':
		var list []AttrValue
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = ListAttr(list)
	case '{':
		var m map[string]AttrValue
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*v = MapAttr(m)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = NumberAttr(n)
	}
	return nil
}
