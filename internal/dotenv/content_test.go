package dotenv

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func lines(ls ...string) string {
	return strings.Join(ls, LineEnding)
}

func TestParse_Groups(t *testing.T) {
	es := Parse("A=1\n\nB=2\n\nC=3")

	wantGroups := []int{1, 1, 2, 2, 3}
	wantLines := []string{"A=1", "", "B=2", "", "C=3"}
	if len(es) != len(wantGroups) {
		t.Fatalf("got %d entries, want %d", len(es), len(wantGroups))
	}
	for i, e := range es {
		if e.Group() != wantGroups[i] {
			t.Errorf("line %d group = %d, want %d", i, e.Group(), wantGroups[i])
		}
		if e.Index() != i {
			t.Errorf("line %d index = %d", i, e.Index())
		}
		if e.Line() != wantLines[i] {
			t.Errorf("line %d = %q, want %q", i, e.Line(), wantLines[i])
		}
	}
}

func TestParse_LineEndings(t *testing.T) {
	for _, raw := range []string{"A=1\nB=2", "A=1\r\nB=2", "A=1\rB=2"} {
		es := Parse(raw)
		if len(es) != 2 {
			t.Fatalf("Parse(%q): got %d entries, want 2", raw, len(es))
		}
		if es[0].Line() != "A=1" || es[1].Line() != "B=2" {
			t.Errorf("Parse(%q) = %q, %q", raw, es[0].Line(), es[1].Line())
		}
	}

	es := Parse("A=1\r\n\r\nB=2")
	if len(es) != 3 || !es[1].IsSeparator() {
		t.Errorf("CRLF blank line not parsed as separator")
	}
}

func TestParse_Malformed(t *testing.T) {
	es := Parse("justtext")
	if len(es) != 1 {
		t.Fatalf("got %d entries, want 1", len(es))
	}
	if !es[0].IsSeparator() || es[0].Key() != "" || es[0].Line() != "" {
		t.Errorf("malformed line = %+v, want separator", es[0].view())
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"A=1",
		lines("A=1", "B=2"),
		lines("A=1", "", "B=2", "", "", "C=3"),
		lines("APP_NAME=demo", "APP_KEY=", "", "DB_URL=mysql://root@x/db?a=b", ""),
		lines("", "", "A=1"),
	}
	for _, in := range inputs {
		if got := Serialize(Parse(in)); got != in {
			t.Errorf("Serialize(Parse(%q)) = %q", in, got)
		}
	}
}

func TestRoundTrip_NormalizesLineEndings(t *testing.T) {
	got := Serialize(Parse("A=1\r\n\r\nB=2\rC=3"))
	if want := lines("A=1", "", "B=2", "C=3"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

type keyLine struct {
	Key   string
	Value string
	Group int
	Sep   bool
}

func shape(es Entries) []keyLine {
	var out []keyLine
	for _, e := range es.Sorted() {
		out = append(out, keyLine{e.Key(), e.Value().String(), e.Group(), e.IsSeparator()})
	}
	return out
}

func TestParse_Idempotent(t *testing.T) {
	in := "A=1\r\n\nB=x=y\nnot a pair\nC=\n"
	first := Parse(in)
	second := Parse(Serialize(first))
	if !reflect.DeepEqual(shape(first), shape(second)) {
		t.Errorf("reparse differs:\n first  %+v\n second %+v", shape(first), shape(second))
	}
}

func TestSerialize_SortsByIndex(t *testing.T) {
	es := Entries{
		NewEntry("C", String("3"), 1, 9),
		NewEntry("A", String("1"), 1, 0),
		NewSeparator(1, 4),
		NewEntry("B", String("2"), 2, 5),
	}
	if got, want := Serialize(es), lines("A=1", "", "B=2", "C=3"); got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
	// The input collection is not reordered.
	if es[0].Key() != "C" {
		t.Errorf("Serialize reordered its input")
	}
}

func TestAddThenLookup(t *testing.T) {
	var es Entries
	if _, err := es.Add("FOO", String("bar")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := es.Get("FOO", Absent()).String(); got != "bar" {
		t.Errorf("Get(FOO) = %q, want bar", got)
	}
	if e, _ := es.Lookup("FOO"); e.Index() != 0 || e.Group() != 1 {
		t.Errorf("first entry index/group = %d/%d, want 0/1", e.Index(), e.Group())
	}

	_, err := es.Add("FOO", String("baz"))
	if !errors.Is(err, ErrKeyAlreadyExists) {
		t.Errorf("second Add error = %v, want ErrKeyAlreadyExists", err)
	}
	if len(es) != 1 {
		t.Errorf("failed Add changed collection: %d entries", len(es))
	}
}

func TestAdd_AppendsAfterMaxIndex(t *testing.T) {
	es := Parse(lines("A=1", "", "B=2"))
	if err := es.Delete("A"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	e, err := es.Add("C", String("3"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if e.Index() != 3 {
		t.Errorf("new index = %d, want 3", e.Index())
	}
	if e.Group() != 2 {
		t.Errorf("new group = %d, want 2", e.Group())
	}
	if got, want := Serialize(es), lines("", "B=2", "C=3"); got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

func TestEdit_Missing(t *testing.T) {
	es := Parse(lines("A=1", "B=2"))
	before := Serialize(es)

	err := es.Edit("MISSING", String("x"))
	if !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("Edit error = %v, want ErrKeyNotFound", err)
	}
	if Serialize(es) != before {
		t.Errorf("failed Edit changed collection")
	}
}

func TestEdit_FirstDuplicateWins(t *testing.T) {
	es := Parse(lines("A=1", "B=2", "A=3"))
	if err := es.Edit("A", String("9")); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got, want := Serialize(es), lines("A=9", "B=2", "A=3"); got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
	if got := es.Get("A", Absent()).String(); got != "9" {
		t.Errorf("Get(A) = %q, want 9", got)
	}
}

func TestLookup_FirstInIndexOrder(t *testing.T) {
	es := Entries{
		NewEntry("A", String("late"), 1, 5),
		NewEntry("A", String("early"), 1, 1),
	}
	e, ok := es.Lookup("A")
	if !ok || e.Value().String() != "early" {
		t.Errorf("Lookup(A) = %v, want early", e.Value())
	}
}

func TestLookup_IgnoresSeparators(t *testing.T) {
	es := Parse(lines("", "A=1"))
	if es.Has("") {
		t.Errorf("Has(\"\") matched a separator")
	}
}

func TestDeleteThenSerialize(t *testing.T) {
	es := Parse("A=1\nB=2\nC=3")
	if err := es.Delete("B"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, want := Serialize(es), lines("A=1", "C=3"); got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
	if e, _ := es.Lookup("C"); e.Index() != 2 {
		t.Errorf("C index = %d, want 2 (no renumbering)", e.Index())
	}
}

func TestDelete_Missing(t *testing.T) {
	es := Parse("A=1")
	if err := es.Delete("B"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Delete error = %v, want ErrKeyNotFound", err)
	}
	if len(es) != 1 {
		t.Errorf("failed Delete changed collection")
	}
}

func TestDelete_OnlyFirstDuplicate(t *testing.T) {
	es := Parse(lines("A=1", "A=2"))
	if err := es.Delete("A"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := Serialize(es); got != "A=2" {
		t.Errorf("Serialize = %q, want A=2", got)
	}
}

func TestMutationsKeepIndexOrder(t *testing.T) {
	es := Parse(lines("A=1", "", "B=2", "C=3"))
	if _, err := es.Add("D", String("4")); err != nil {
		t.Fatal(err)
	}
	if err := es.Delete("B"); err != nil {
		t.Fatal(err)
	}
	if err := es.Edit("A", Int(10)); err != nil {
		t.Fatal(err)
	}
	// Shuffle the backing slice; serialization must not care.
	for i, j := 0, len(es)-1; i < j; i, j = i+1, j-1 {
		es[i], es[j] = es[j], es[i]
	}

	if got, want := Serialize(es), lines("A=10", "", "C=3", "D=4"); got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

func TestInsertAfter(t *testing.T) {
	es := Parse(lines("A=1", "B=2", "", "C=3"))
	e := es.InsertAfter(1, NewEntry("NEW", String("x"), 1, 0))
	if e.Index() != 2 || e.Group() != 1 {
		t.Errorf("inserted index/group = %d/%d, want 2/1", e.Index(), e.Group())
	}
	if got, want := Serialize(es), lines("A=1", "B=2", "NEW=x", "", "C=3"); got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

func TestInsertAfter_DoesNotMutateOriginals(t *testing.T) {
	es := Parse(lines("A=1", "B=2"))
	b, _ := es.Lookup("B")
	es.InsertAfter(0, NewEntry("X", String("x"), 1, 0))
	if b.Index() != 1 {
		t.Errorf("original entry index changed to %d", b.Index())
	}
}

func TestGroupEnd(t *testing.T) {
	es := Parse(lines("A=1", "B=2", "", "", "C=3"))
	tests := []struct {
		group int
		want  int
		ok    bool
	}{
		{1, 1, true},
		{2, 2, true},
		{3, 4, true},
		{9, 0, false},
	}
	for _, tt := range tests {
		got, ok := es.GroupEnd(tt.group)
		if got != tt.want || ok != tt.ok {
			t.Errorf("GroupEnd(%d) = %d, %v; want %d, %v", tt.group, got, ok, tt.want, tt.ok)
		}
	}
}

func TestKeysAndMap(t *testing.T) {
	es := Parse(lines("B=2", "", "A=1", "B=3"))
	if got, want := es.Keys(), []string{"B", "A"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if got := es.Map()["B"]; got != "2" {
		t.Errorf("Map()[B] = %q, want 2", got)
	}
}

func TestGroups(t *testing.T) {
	groups := Parse("A=1\n\nB=2\nC=3").Groups()
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if len(groups[0]) != 2 || len(groups[1]) != 2 {
		t.Errorf("group sizes = %d, %d; want 2, 2", len(groups[0]), len(groups[1]))
	}
}
