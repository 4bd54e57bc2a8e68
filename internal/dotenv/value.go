package dotenv

import (
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind identifies which scalar a Value holds.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindInt
	KindBool
)

// Value is a scalar config value. The zero Value is absent.
type Value struct {
	kind Kind
	s    string
	n    int64
	b    bool
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer Value.
func Int(n int64) Value { return Value{kind: KindInt, n: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Absent returns the empty Value.
func Absent() Value { return Value{} }

// Kind reports which scalar v holds.
func (v Value) Kind() Kind { return v.kind }

// String renders v the way it is written to a file.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.n, 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// IsEmpty reports whether v is absent or the empty string.
// "0" and false are present values.
func (v Value) IsEmpty() bool {
	return v.kind == KindAbsent || (v.kind == KindString && v.s == "")
}

// Equal compares the rendered form of two values.
func (v Value) Equal(o Value) bool {
	return v.String() == o.String()
}

func (v Value) natural() interface{} {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.n
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// MarshalJSON encodes v as its natural JSON scalar, null when absent.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.natural())
}

// MarshalYAML encodes v as its natural YAML scalar.
func (v Value) MarshalYAML() (interface{}, error) {
	if v.kind == KindString {
		// Keep strings like "true" or "42" quoted as strings.
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}, nil
	}
	return v.natural(), nil
}

// ParseValue interprets s as a typed scalar: integers and booleans become
// KindInt/KindBool, the empty string becomes absent, anything else a string.
func ParseValue(s string) Value {
	if s == "" {
		return Absent()
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return Int(n)
	}
	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return String(s)
}
