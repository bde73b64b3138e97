// Package dataflow tracks which variables hold frames, where those
// frames came from, and whether their schema has been pinned. It is a
// deliberately lightweight, branch-sensitive tracker: no fact is kept
// unless it holds on every path, and anything it cannot classify reads
// as Unknown so rules stay on the side of precision.
package dataflow

// Origin describes how a frame binding was produced.
type Origin int

const (
	// OriginUnknown marks a binding the tracker could not classify.
	// Rules never fire on Unknown bindings.
	OriginUnknown Origin = iota
	// OriginRead marks a frame loaded from a data source.
	OriginRead
	// OriginConstruct marks a frame built from in-memory records.
	OriginConstruct
	// OriginMerge marks the result of a merge/join call.
	OriginMerge
	// OriginSelection marks the result of an explicit column selection.
	OriginSelection
	// OriginParameter marks a frame received as a function parameter.
	OriginParameter
)

// String returns the lowercase name of the origin.
func (o Origin) String() string {
	switch o {
	case OriginRead:
		return "read"
	case OriginConstruct:
		return "construct"
	case OriginMerge:
		return "merge"
	case OriginSelection:
		return "selection"
	case OriginParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Binding records the latest frame fact for one variable. Bindings are
// value types: reassignment replaces the whole binding, never mutates it.
type Binding struct {
	Name   string
	Origin Origin
	Pinned bool
}

// IsFrame reports whether the binding carries a usable frame fact.
func (b Binding) IsFrame() bool {
	return b.Origin != OriginUnknown
}

// Scope maps variable names to their latest binding, with a parent link
// forming a lexical-scope tree. Lookup walks up the chain.
type Scope struct {
	parent   *Scope
	bindings map[string]Binding
}

// NewScope creates a root scope.
func NewScope() *Scope {
	return &Scope{bindings: make(map[string]Binding)}
}

// Child creates a nested scope.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, bindings: make(map[string]Binding)}
}

// Set records a binding in this scope, shadowing any outer binding.
func (s *Scope) Set(b Binding) {
	s.bindings[b.Name] = b
}

// Lookup walks up the scope chain for the given name.
func (s *Scope) Lookup(name string) (Binding, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if b, ok := scope.bindings[name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// names collects the variable names written directly in this scope.
func (s *Scope) names() []string {
	out := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		out = append(out, name)
	}
	return out
}
