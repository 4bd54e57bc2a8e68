// Package testutil provides test utilities for envedit file handling.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
)

// EnvGenerator builds .env file content with various layouts. Every key
// it writes is unique.
type EnvGenerator struct {
	rnd  *rand.Rand
	keys []string
}

// NewEnvGenerator creates a generator with a fixed seed so failures can
// be reproduced.
func NewEnvGenerator(seed int64) *EnvGenerator {
	return &EnvGenerator{
		rnd:  rand.New(rand.NewSource(seed)),
		keys: make([]string, 0),
	}
}

// Keys returns all keys written by this generator, in order.
func (g *EnvGenerator) Keys() []string {
	return g.keys
}

func (g *EnvGenerator) nextKey(prefix string) string {
	key := fmt.Sprintf("%s_%d", prefix, len(g.keys))
	g.keys = append(g.keys, key)
	return key
}

// values covers each scalar kind ParseValue recognizes, plus text that
// must survive untouched.
var values = []string{
	"", "0", "42", "-7", "true", "false", "localhost",
	"postgres://user:pa=ss@db:5432/app", "with spaces", "007", "1.5", "TRUE",
}

func (g *EnvGenerator) value() string {
	return values[g.rnd.Intn(len(values))]
}

// GenerateGroups returns content with the given number of groups, each
// holding perGroup keys, separated by single blank lines.
func (g *EnvGenerator) GenerateGroups(groups, perGroup int) string {
	var lines []string
	for i := 0; i < groups; i++ {
		if i > 0 {
			lines = append(lines, "")
		}
		prefix := fmt.Sprintf("GROUP%d", i+1)
		for j := 0; j < perGroup; j++ {
			lines = append(lines, g.nextKey(prefix)+"="+g.value())
		}
	}
	return strings.Join(lines, "\n")
}

// GenerateRandom returns n lines where roughly one in four is blank,
// including runs of blank lines and leading or trailing ones.
func (g *EnvGenerator) GenerateRandom(n int) string {
	lines := make([]string, n)
	for i := range lines {
		if g.rnd.Intn(4) == 0 {
			continue
		}
		lines[i] = g.nextKey("KEY") + "=" + g.value()
	}
	return strings.Join(lines, "\n")
}
