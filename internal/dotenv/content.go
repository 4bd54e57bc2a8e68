package dotenv

import (
	"runtime"
	"strings"
)

// LineEnding terminates every line written by Serialize.
var LineEnding = "\n"

func init() {
	if runtime.GOOS == "windows" {
		LineEnding = "\r\n"
	}
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Parse splits raw on any line ending style and converts each line into an
// Entry. Line i gets index i. Groups start at 1 and advance after every
// separator, so a separator belongs to the group it closes.
// Any input is accepted.
func Parse(raw string) Entries {
	lines := strings.Split(newlines.Replace(raw), "\n")

	es := make(Entries, 0, len(lines))
	group := 1
	for i, line := range lines {
		e := ParseLine(line, group, i)
		es = append(es, e)
		if e.IsSeparator() {
			group++
		}
	}
	return es.Sorted()
}

// Serialize renders es as file content, ordered by index and joined with
// LineEnding. Insertion order of es is ignored.
func Serialize(es Entries) string {
	sorted := es.Sorted()
	lines := make([]string, len(sorted))
	for i, e := range sorted {
		lines[i] = e.Line()
	}
	return strings.Join(lines, LineEnding)
}
