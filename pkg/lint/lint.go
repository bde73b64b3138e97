// Package lint provides the rule-based analysis core: an immutable rule
// catalog, a single-traversal match engine driving the dataflow tracker,
// and deterministic diagnostic ordering with suppression filtering.
//
// The engine is a pure function from (AST, catalog, config, suppression
// query) to a diagnostic sequence. It performs no I/O; independent files
// may be analyzed concurrently, each run owning its own state.
package lint

import (
	"errors"

	"github.com/framelint/framelint/pkg/token"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError Severity = iota
	// SeverityWarning indicates a potential issue that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a suggestion for improvement.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity parses a severity name. The second result is false for
// unrecognized names.
func ParseSeverity(name string) (Severity, bool) {
	switch name {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return SeverityWarning, false
	}
}

// Diagnostic represents one lint finding.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Message  string
	Span     token.Span
	Fix      string // optional suggested replacement text
}

// SuppressionQuery answers whether the given source line carries a
// suppression for the given rule. The surface syntax is owned by the
// host; the engine only consults the result.
type SuppressionQuery func(line int, ruleID string) bool

// ErrIncomplete reports an analysis abandoned before finishing, e.g.
// when a host-imposed wall-clock bound fired. It is distinct from an
// empty diagnostic set.
var ErrIncomplete = errors.New("analysis incomplete")
