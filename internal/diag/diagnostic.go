package diag

import "fmt"

// Diagnostic is a single compiler message with an optional source position.
// Line and Col are 1-based; zero means the position is absent. The struct is
// comparable on purpose: equality and map-key hashing are the set semantics
// the matching engine relies on.
type Diagnostic struct {
	Message string
	Line    uint32
	Col     uint32
}

// New returns an unpositioned diagnostic.
func New(msg string) Diagnostic {
	return Diagnostic{Message: msg}
}

// NewAt returns a diagnostic positioned at line:col.
func NewAt(msg string, line, col uint32) Diagnostic {
	return Diagnostic{Message: msg, Line: line, Col: col}
}

// Positioned reports whether the diagnostic carries a source position.
// Both coordinates must be present; a lone line without a column is not a
// position the compiler ever prints.
func (d Diagnostic) Positioned() bool {
	return d.Line != 0 && d.Col != 0
}

// String renders the diagnostic in the compiler's own line format, so the
// report shows expectations and actual output in identical shape.
func (d Diagnostic) String() string {
	if d.Positioned() {
		return fmt.Sprintf("Error in line %d:%d: %s", d.Line, d.Col, d.Message)
	}
	return "Error: " + d.Message
}
