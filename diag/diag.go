// Package diag implements the diagnostic accumulator and source-snippet
// renderer used by every compiler phase. Diagnostics are collected, never
// thrown as control flow: each phase keeps running after recording an
// error so the driver can report everything wrong with a file set at once.
package diag

import (
	"fmt"

	"duskc/token"
)

// Kind classifies a Diagnostic by the taxonomy in the error handling design:
// lexical, syntactic, name resolution, type, structural, or I/O.
type Kind string

const (
	Lexical        Kind = "lexical"
	Syntactic      Kind = "syntactic"
	NameResolution Kind = "name"
	Type           Kind = "type"
	Structural     Kind = "structural"
	IO             Kind = "io"
)

// Severity distinguishes hard errors (which abort compilation for a file
// set) from warnings (which are reported but never block a pass).
type Severity int

const (
	Error Severity = iota
	Warning
)

// Diagnostic is a single accumulated error or warning with source location.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Code     string // machine-readable identifier, e.g. "UnresolvedCall"
	Message  string
	Pos      token.Pos
	EndPos   token.Pos
}

func (d Diagnostic) Error() string {
	return d.Pos.String() + ": " + d.Message
}

// List accumulates diagnostics across a phase or an entire compilation.
// It is never used to unwind control flow; every phase runs to completion
// and appends to the same list.
type List struct {
	items []Diagnostic
}

// Add appends a diagnostic to the list.
func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

// Errorf records an error-severity diagnostic spanning [pos, end).
func (l *List) Errorf(kind Kind, code string, pos, end token.Pos, format string, args ...any) {
	l.Add(Diagnostic{
		Severity: Error,
		Kind:     kind,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		EndPos:   end,
	})
}

// Warnf records a warning-severity diagnostic spanning [pos, end).
func (l *List) Warnf(kind Kind, code string, pos, end token.Pos, format string, args ...any) {
	l.Add(Diagnostic{
		Severity: Warning,
		Kind:     kind,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		EndPos:   end,
	})
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of accumulated diagnostics.
func (l *List) Len() int { return len(l.items) }

// Diagnostics returns the accumulated diagnostics in recording order.
func (l *List) Diagnostics() []Diagnostic { return l.items }

// Merge appends other's diagnostics onto l, preserving order.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.items = append(l.items, other.items...)
}
