package parser

import (
	"strings"
)

// suppressMarker introduces an inline suppression comment:
//
//	df.fillna(0, inplace=True)  # framelint: disable=FS02
//	risky_line()                # framelint: disable
//
// A bare marker suppresses every rule on that line.
const suppressMarker = "# framelint: disable"

// Suppressions maps source lines to the rule IDs suppressed there. An
// empty ID set on a present line suppresses all rules.
type Suppressions map[int]map[string]bool

// ScanSuppressions extracts inline suppression markers from source text.
// The surface syntax is a host policy; the engine only sees the resulting
// query function.
func ScanSuppressions(src []byte) Suppressions {
	sup := make(Suppressions)
	for i, line := range strings.Split(string(src), "\n") {
		idx := strings.Index(line, suppressMarker)
		if idx < 0 {
			continue
		}
		lineNo := i + 1
		rest := strings.TrimPrefix(line[idx+len(suppressMarker):], "=")
		ids := make(map[string]bool)
		for _, id := range strings.Split(rest, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				ids[id] = true
			}
		}
		sup[lineNo] = ids
	}
	return sup
}

// Suppresses reports whether the given line suppresses the given rule.
// It satisfies lint.SuppressionQuery.
func (s Suppressions) Suppresses(line int, ruleID string) bool {
	ids, ok := s[line]
	if !ok {
		return false
	}
	return len(ids) == 0 || ids[ruleID]
}
