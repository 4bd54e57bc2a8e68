package dotenv

import (
	"reflect"
	"strings"
	"testing"

	"envedit/testutil"
)

func TestRoundTrip_Generated(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		gen := testutil.NewEnvGenerator(seed)
		content := strings.ReplaceAll(gen.GenerateRandom(40), "\n", LineEnding)

		es := Parse(content)
		if got := Serialize(es); got != content {
			t.Fatalf("seed %d: round trip changed content:\n%q\nwant\n%q", seed, got, content)
		}
		if got := es.Keys(); !reflect.DeepEqual(got, gen.Keys()) && len(gen.Keys()) > 0 {
			t.Errorf("seed %d: Keys() = %v, want %v", seed, got, gen.Keys())
		}
	}
}

func TestGroups_Generated(t *testing.T) {
	gen := testutil.NewEnvGenerator(5)
	es := Parse(gen.GenerateGroups(4, 3))

	if got := es.LastGroup(); got != 4 {
		t.Errorf("LastGroup() = %d, want 4", got)
	}
	for i, g := range es.Groups() {
		var keys int
		for _, e := range g {
			if !e.IsSeparator() {
				keys++
			}
		}
		if keys != 3 {
			t.Errorf("group %d has %d keys, want 3", i+1, keys)
		}
	}
}

func TestAdd_Generated(t *testing.T) {
	gen := testutil.NewEnvGenerator(9)
	content := strings.ReplaceAll(gen.GenerateGroups(2, 2), "\n", LineEnding)
	es := Parse(content)

	if _, err := es.Add("ZZZ_NEW", String("x")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	want := content + LineEnding + "ZZZ_NEW=x"
	if got := Serialize(es); got != want {
		t.Errorf("Serialize after Add =\n%q\nwant\n%q", got, want)
	}
}
