package dotenv

import "sort"

// ChangeKind describes how a key differs between two versions of a file.
type ChangeKind string

const (
	Added   ChangeKind = "added"
	Removed ChangeKind = "removed"
	Changed ChangeKind = "changed"
)

// Change is a single key difference.
type Change struct {
	Kind ChangeKind `json:"kind" yaml:"kind"`
	Key  string     `json:"key" yaml:"key"`
	Old  string     `json:"old,omitempty" yaml:"old,omitempty"`
	New  string     `json:"new,omitempty" yaml:"new,omitempty"`
}

// Diff compares the authoritative (first) value of every key in old and
// new. Layout changes that leave keys and values alone produce no changes.
// The result is sorted by key.
func Diff(old, new Entries) []Change {
	before, after := old.Map(), new.Map()

	var changes []Change
	for k, v := range before {
		nv, ok := after[k]
		switch {
		case !ok:
			changes = append(changes, Change{Kind: Removed, Key: k, Old: v})
		case nv != v:
			changes = append(changes, Change{Kind: Changed, Key: k, Old: v, New: nv})
		}
	}
	for k, v := range after {
		if _, ok := before[k]; !ok {
			changes = append(changes, Change{Kind: Added, Key: k, New: v})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })
	return changes
}
