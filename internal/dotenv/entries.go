package dotenv

import (
	"fmt"
	"sort"
)

// Entries is an ordered collection of file lines.
type Entries []*Entry

// byIndex orders entries by their original line position.
func byIndex(es Entries) func(i, j int) bool {
	return func(i, j int) bool { return es[i].Index() < es[j].Index() }
}

// Sorted returns a copy of es ordered by index.
func (es Entries) Sorted() Entries {
	out := make(Entries, len(es))
	copy(out, es)
	sort.SliceStable(out, byIndex(out))
	return out
}

// Lookup returns the first entry for key in index order.
func (es Entries) Lookup(key string) (*Entry, bool) {
	pos := es.position(key)
	if pos < 0 {
		return nil, false
	}
	return es[pos], true
}

// position returns the slice position of the first entry for key in index
// order, or -1.
func (es Entries) position(key string) int {
	found := -1
	for i, e := range es {
		if e.IsSeparator() || e.Key() != key {
			continue
		}
		if found < 0 || e.Index() < es[found].Index() {
			found = i
		}
	}
	return found
}

// Has reports whether key is present.
func (es Entries) Has(key string) bool {
	return es.position(key) >= 0
}

// Get returns the value for key, or def when the key is missing or empty.
func (es Entries) Get(key string, def Value) Value {
	e, ok := es.Lookup(key)
	if !ok {
		return def
	}
	return e.ValueOr(def)
}

// NextIndex returns the index following the highest one in use.
func (es Entries) NextIndex() int {
	next := 0
	for _, e := range es {
		if e.Index() >= next {
			next = e.Index() + 1
		}
	}
	return next
}

// LastGroup returns the highest group number, or 0 if es is empty.
func (es Entries) LastGroup() int {
	last := 0
	for _, e := range es {
		if e.Group() > last {
			last = e.Group()
		}
	}
	return last
}

// Last returns the entry with the highest index.
func (es Entries) Last() (*Entry, bool) {
	if len(es) == 0 {
		return nil, false
	}
	last := es[0]
	for _, e := range es[1:] {
		if e.Index() > last.Index() {
			last = e
		}
	}
	return last, true
}

// Add appends key at the end of the file, in the group of the current last
// line. It fails with ErrKeyAlreadyExists if key is present.
func (es *Entries) Add(key string, v Value) (*Entry, error) {
	if es.Has(key) {
		return nil, fmt.Errorf("key %q: %w", key, ErrKeyAlreadyExists)
	}
	group := 1
	if last, ok := es.Last(); ok {
		group = last.Group()
		if last.IsSeparator() {
			group++
		}
	}
	e := NewEntry(key, v, group, es.NextIndex())
	*es = append(*es, e)
	return e, nil
}

// Edit sets the value of the first entry for key.
func (es Entries) Edit(key string, v Value) error {
	e, ok := es.Lookup(key)
	if !ok {
		return fmt.Errorf("key %q: %w", key, ErrKeyNotFound)
	}
	e.SetValue(v)
	return nil
}

// Delete removes the first entry for key. Remaining indices are left as
// they are.
func (es *Entries) Delete(key string) error {
	pos := es.position(key)
	if pos < 0 {
		return fmt.Errorf("key %q: %w", key, ErrKeyNotFound)
	}
	*es = append((*es)[:pos:pos], (*es)[pos+1:]...)
	return nil
}

// InsertAfter places e directly after the line at index after. Entries
// behind it are replaced with copies shifted down by one; e takes index
// after+1.
func (es *Entries) InsertAfter(after int, e *Entry) *Entry {
	out := make(Entries, 0, len(*es)+1)
	for _, cur := range *es {
		if cur.Index() > after {
			cur = cur.withIndex(cur.Index() + 1)
		}
		out = append(out, cur)
	}
	placed := e.withIndex(after + 1)
	*es = append(out, placed)
	return placed
}

// Keys returns the keys of all non-separator entries in index order.
// Duplicates are reported once.
func (es Entries) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, e := range es.Sorted() {
		if e.IsSeparator() || seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		keys = append(keys, e.Key())
	}
	return keys
}

// Map returns key/value pairs, first occurrence wins.
func (es Entries) Map() map[string]string {
	m := make(map[string]string)
	for _, e := range es.Sorted() {
		if e.IsSeparator() {
			continue
		}
		if _, ok := m[e.Key()]; !ok {
			m[e.Key()] = e.Value().String()
		}
	}
	return m
}

// Groups partitions es by group number, in index order.
func (es Entries) Groups() []Entries {
	var groups []Entries
	current := -1
	for _, e := range es.Sorted() {
		if len(groups) == 0 || e.Group() != current {
			groups = append(groups, nil)
			current = e.Group()
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], e)
	}
	return groups
}

// GroupEnd returns the index after which a new key joins group: the last
// key line of the group, or the line before the group's first line when
// it holds only separators. The separator closing a group stays its
// boundary.
func (es Entries) GroupEnd(group int) (int, bool) {
	start, end := -1, -1
	for _, e := range es {
		if e.Group() != group {
			continue
		}
		if start < 0 || e.Index() < start {
			start = e.Index()
		}
		if !e.IsSeparator() && e.Index() > end {
			end = e.Index()
		}
	}
	if start < 0 {
		return 0, false
	}
	if end < 0 {
		return start - 1, true
	}
	return end, true
}
