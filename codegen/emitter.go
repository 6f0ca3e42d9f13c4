package codegen

import (
	"fmt"

	"github.com/pkg/errors"

	"duskc/ast"
	"duskc/sema"
)

// Emitter implements ast.Visitor and lowers one function body at a time
// into IL bytes, mirroring the accept-dispatch pattern ast.DebugPrinter
// uses: each VisitX method both emits this node's code and
// controls exactly when (or whether) it recurses into children, since
// operand evaluation order and prologue/epilogue placement matter here in
// a way a generic framework-owned walk cannot express.
type Emitter struct {
	ast.BaseVisitor

	types   *sema.Types
	funcIDs map[string]uint32
	extern  map[string]bool

	buf        *buffer
	frames     *frameStack
	loopLabels []loopLabel
	labelN     int
}

// loopLabel names the break/continue targets of one enclosing Loop, so
// nested loops resolve unlabeled break/continue to the innermost one and
// labeled ones to the matching ancestor.
type loopLabel struct {
	name     string
	top, end string
}

// NewEmitter builds an Emitter with a dense, declaration-order function id
// table computed once across every queued file, per §4.7 / the IL format's
// "declaration-order function ids across the whole queued file set"
// requirement.
func NewEmitter(files []*ast.File, types *sema.Types) *Emitter {
	e := &Emitter{
		types:   types,
		funcIDs: map[string]uint32{},
		extern:  map[string]bool{},
	}

	var next uint32
	for _, f := range files {
		next = e.assignFuncIDs(declsToNodes(f.Decls), next)
	}

	return e
}

// declsToNodes widens a []ast.Decl (a File's top-level declarations) to
// []ast.Node so it shares assignFuncIDs/collectFns with a Namespace's
// Block.Stmts ([]ast.Stmt): Decl and Stmt are distinct named interface
// types with identical method sets, so Go won't convert the slice itself,
// only the elements.
func declsToNodes(decls []ast.Decl) []ast.Node {
	out := make([]ast.Node, len(decls))
	for i, d := range decls {
		out[i] = d
	}
	return out
}

func stmtsToNodes(stmts []ast.Stmt) []ast.Node {
	out := make([]ast.Node, len(stmts))
	for i, s := range stmts {
		out[i] = s
	}
	return out
}

// assignFuncIDs walks one sequence of top-level declarations (a file's own
// Decls, or a Namespace's Block.Stmts) and assigns the next dense id to
// every Fn/Affix it finds, descending into Impl members and nested
// Namespace bodies. It returns the next free id so callers can chain
// multiple sequences (successive files, or a namespace nested in another)
// into one continuous declaration-order numbering.
func (e *Emitter) assignFuncIDs(decls []ast.Node, next uint32) uint32 {
	for _, d := range decls {
		switch v := d.(type) {
		case *ast.Fn:
			e.funcIDs[v.MangledName] = next
			next++
		case *ast.Affix:
			e.funcIDs[v.MangledName] = next
			next++
		case *ast.Extern:
			for _, fn := range v.Decls {
				e.funcIDs[fn.MangledName] = next
				e.extern[fn.MangledName] = true
				next++
			}
		case *ast.Impl:
			for _, member := range v.Members.Stmts {
				switch m := member.(type) {
				case *ast.Fn:
					e.funcIDs[m.MangledName] = next
					next++
				case *ast.Affix:
					e.funcIDs[m.MangledName] = next
					next++
				}
			}
		case *ast.Namespace:
			if v.Block != nil {
				next = e.assignFuncIDs(stmtsToNodes(v.Block.Stmts), next)
			}
		}
	}
	return next
}

// EmitModule lowers every function across files into a single IL byte
// stream, functions concatenated in declaration-id order.
func (e *Emitter) EmitModule(files []*ast.File) ([]byte, error) {
	fns := make([]*ast.Fn, len(e.funcIDs))
	found := make([]bool, len(e.funcIDs))

	var collect func(d ast.Node)
	collectFn := func(fn *ast.Fn) {
		id, ok := e.funcIDs[fn.MangledName]
		if !ok || e.extern[fn.MangledName] {
			return
		}
		fns[id] = fn
		found[id] = true
	}
	collect = func(d ast.Node) {
		switch v := d.(type) {
		case *ast.Fn:
			collectFn(v)
		case *ast.Affix:
			collectFn(fnFromAffix(v))
		case *ast.Impl:
			for _, member := range v.Members.Stmts {
				switch m := member.(type) {
				case *ast.Fn:
					collectFn(m)
				case *ast.Affix:
					collectFn(fnFromAffix(m))
				}
			}
		case *ast.Namespace:
			if v.Block != nil {
				for _, s := range v.Block.Stmts {
					collect(s)
				}
			}
		}
	}

	for _, f := range files {
		for _, d := range f.Decls {
			collect(d)
		}
	}

	var out []byte
	for id, fn := range fns {
		if !found[id] {
			continue // extern slot: no body to emit
		}
		body, err := e.emitFn(fn)
		if err != nil {
			return nil, errors.Wrapf(err, "emitting function %q", fn.MangledName)
		}
		out = append(out, body...)
	}

	if len(out) == 0 {
		// A module with no declarations still compiles to an implicit empty
		// main: one OpReturn, not zero bytes.
		out = append(out, byte(OpReturn))
	}

	return out, nil
}

// fnFromAffix views an Affix as the Fn shape codegen needs; Affix and Fn
// share every field EmitModule/emitFn touch.
func fnFromAffix(a *ast.Affix) *ast.Fn {
	fn := ast.NewFn(a.Pos(), a.End(), a.UnmangledName)
	fn.MangledName = a.MangledName
	fn.Namespace = a.Namespace
	fn.Params = a.Params
	fn.ReturnType = a.ReturnType
	fn.Body = a.Body
	return fn
}

func (e *Emitter) emitFn(fn *ast.Fn) ([]byte, error) {
	e.buf = newBuffer()
	e.frames = newFrameStack()
	e.labelN = 0
	e.loopLabels = nil

	for _, p := range fn.Params {
		e.frames.declare(p.Name)
	}

	if fn.Body != nil {
		fn.Body.Accept(e)
	}

	// Per spec.md §4.7, the implicit trailing return is only for a function
	// with no declared return type falling off the end of its body. A
	// function with a return type whose body doesn't end in Return has a
	// real missing-return bug upstream in analysis, not something codegen
	// should paper over by inserting one anyway.
	last := lastStmt(fn.Body)
	_, endsInReturn := last.(*ast.Return)
	if fn.ReturnType == nil && !endsInReturn {
		e.buf.writeByte(byte(OpReturn))
	}

	e.buf.resolve()
	return e.buf.bytes, nil
}

func lastStmt(b *ast.Block) ast.Stmt {
	if b == nil || len(b.Stmts) == 0 {
		return nil
	}
	return b.Stmts[len(b.Stmts)-1]
}

func (e *Emitter) newLabel(prefix string) string {
	e.labelN++
	return fmt.Sprintf("%s%d", prefix, e.labelN)
}
