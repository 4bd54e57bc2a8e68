// Package dotenv models a .env file as an ordered sequence of entries.
//
// Each line of the file becomes one Entry: either a KEY=VALUE pair or a
// separator (a blank line, or any line without an "="). Separators split
// the file into numbered groups. Every entry remembers its original line
// position in Index, and serialization always orders by Index, so a
// collection can be filtered, appended to and reordered freely without
// disturbing the layout of the file.
package dotenv

import (
	"encoding/json"
	"strings"
)

// Entry is one line of a .env file.
type Entry struct {
	key       string
	value     Value
	group     int
	index     int
	separator bool
}

// NewEntry creates a KEY=VALUE entry.
func NewEntry(key string, value Value, group, index int) *Entry {
	return &Entry{key: key, value: value, group: group, index: index}
}

// NewSeparator creates a blank-line entry closing group.
func NewSeparator(group, index int) *Entry {
	return &Entry{group: group, index: index, separator: true}
}

// ParseLine converts a single line into an Entry. The line is split on the
// first "=" only, so values may themselves contain "=". A line without any
// "=" becomes a separator.
func ParseLine(line string, group, index int) *Entry {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return NewSeparator(group, index)
	}
	return NewEntry(key, String(value), group, index)
}

func (e *Entry) Key() string       { return e.key }
func (e *Entry) Group() int        { return e.group }
func (e *Entry) Index() int        { return e.index }
func (e *Entry) IsSeparator() bool { return e.separator }

// Value returns the stored value as is.
func (e *Entry) Value() Value { return e.value }

// ValueOr returns the stored value, or def when the stored value is empty.
func (e *Entry) ValueOr(def Value) Value {
	if e.value.IsEmpty() {
		return def
	}
	return e.value
}

// SetValue replaces the value in place.
func (e *Entry) SetValue(v Value) {
	e.value = v
}

// Line renders the entry as a file line.
func (e *Entry) Line() string {
	if e.separator {
		return ""
	}
	return e.key + "=" + e.value.String()
}

// withIndex returns a copy of e at a different position.
func (e *Entry) withIndex(index int) *Entry {
	c := *e
	c.index = index
	return &c
}

type entryJSON struct {
	Key         string `json:"key" yaml:"key"`
	Value       Value  `json:"value" yaml:"value"`
	Group       int    `json:"group" yaml:"group"`
	Index       int    `json:"index" yaml:"index"`
	IsSeparator bool   `json:"isSeparator" yaml:"isSeparator"`
}

func (e *Entry) view() entryJSON {
	return entryJSON{
		Key:         e.key,
		Value:       e.value,
		Group:       e.group,
		Index:       e.index,
		IsSeparator: e.separator,
	}
}

// MarshalJSON encodes the entry with all of its fields.
func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.view())
}

// MarshalYAML encodes the entry with all of its fields.
func (e *Entry) MarshalYAML() (interface{}, error) {
	return e.view(), nil
}
