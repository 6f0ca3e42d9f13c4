// Package ast defines the tagged tree produced by the parser: one Go type
// per node kind from the language grammar, a shared Visitor interface, and
// Accept methods that dispatch to it. Every node owns its children
// exclusively; there are no back-edges from child to parent. Callers that
// need an ancestor walk the explicit stack the visitor framework maintains.
package ast

import "duskc/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Pos
	End() token.Pos
	Accept(v Visitor)
	Kind() Kind

	// SetEmit / Emit control whether codegen emits this node as a statement
	// of a Block: codegen skips block statements whose flag is off. Nodes are
	// emitted by default; a pass may turn emission off (e.g. a declaration
	// whose value was constant-folded away).
	SetEmit(bool)
	Emit() bool

	// Attach appends an attribute recorded for this node by the parser.
	Attach(a *Attribute)
	Attributes() []*Attribute
}

// base is embedded by every concrete node to provide the common Node
// bookkeeping (position, emit flag, attributes) without repeating it.
type base struct {
	pos, end token.Pos
	emit     bool
	attrs    []*Attribute
}

func newBase(pos, end token.Pos) base { return base{pos: pos, end: end, emit: true} }

func (b *base) Pos() token.Pos            { return b.pos }
func (b *base) End() token.Pos            { return b.end }
func (b *base) SetEmit(v bool)            { b.emit = v }
func (b *base) Emit() bool                { return b.emit }
func (b *base) Attach(a *Attribute)       { b.attrs = append(b.attrs, a) }
func (b *base) Attributes() []*Attribute  { return b.attrs }

// Expr, Stmt and Decl are Node sub-interfaces used to constrain grammar
// positions; concrete nodes embed base, so every one of them satisfies all
// three.
type (
	Expr interface{ Node }
	Stmt interface{ Node }
	Decl interface{ Node }
)

// File is the parsed root of a single source file: an ordered sequence of
// top-level declarations.
type File struct {
	Name  string
	Decls []Decl
}

// Walk visits every top-level declaration with v.
func (f *File) Walk(v Visitor) {
	for _, d := range f.Decls {
		d.Accept(v)
	}
}
