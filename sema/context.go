// Package sema implements the two top-down visitor families that run
// between parsing and codegen: semantic generation (populate scopes) and
// semantic analysis (validate, resolve overloads, rewrite operator
// expressions to affix calls). Both share the pass-driven walker in
// walk.go; handlers are registered in a fixed (pass, node kind) table
// built once by NewGenerator/NewAnalyzer, never a mutable global list.
package sema

import (
	"duskc/ast"
	"duskc/diag"
	"duskc/scope"
)

// Context is threaded through every handler call. It carries the shared
// scope stack (preserved across the whole queued file set per §3.3
// invariant d), the diagnostic sink, and bookkeeping local to the
// function currently being walked.
type Context struct {
	Scope *scope.ScopeContext
	Diag  *diag.List

	// Files indexes every queued file's top-level Namespace declarations
	// by name, so Use can resolve cross-file namespace imports.
	Files map[string]*ast.File

	// usedNamespaces records the namespaces the current file has
	// imported via `use`. Only bare symbol resolution (the analyzer's
	// symbol handler) consults it, by looking up `ns::name`; no generation
	// handler declares symbols under that qualified form, so namespace-level
	// variables are not found through it. Function calls do not consult it.
	usedNamespaces map[string]bool

	// curFn tracks the enclosing function for return-type unification;
	// nil at file scope.
	curFn *ast.Fn

	// curNamespace is the mangling prefix declarations under the
	// innermost open Namespace pick up.
	curNamespace string

	// curSelfType is the impl_type mangling prefix while walking an
	// Impl block's members; empty outside one.
	curSelfType string

	// suppressFnDecl is true while walking the members of a Namespace,
	// Extern, or Impl block. Those members' own syntactic scope (the
	// namespace/impl's Block, or the extern's own scope) is popped once
	// that block finishes walking, so genNamespace/genExtern/genImpl
	// declare their Fn/Affix members directly into the global scope up
	// front; this flag stops genFn/genAffix's generic per-node
	// declaration from also inserting a second, immediately-discarded
	// copy into that transient scope.
	suppressFnDecl bool
}

// NewContext creates a Context sharing sc and diagnostics d across every
// file in files (keyed by namespace name where present).
func NewContext(sc *scope.ScopeContext, d *diag.List) *Context {
	return &Context{
		Scope:          sc,
		Diag:           d,
		Files:          map[string]*ast.File{},
		usedNamespaces: map[string]bool{},
	}
}

// BeginFile resets per-file state (used namespaces, current namespace)
// before walking a new file; the scope stack itself is not reset.
func (c *Context) BeginFile() {
	c.usedNamespaces = map[string]bool{}
	c.curNamespace = ""
}

func (c *Context) errorf(kind diag.Kind, code string, n ast.Node, format string, args ...any) {
	c.Diag.Errorf(kind, code, n.Pos(), n.End(), format, args...)
}
