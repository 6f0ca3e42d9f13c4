package sema

import "duskc/ast"

// HandlerFunc is one visitor family's response to a single node kind at a
// single pass. It may mutate the node (fill in mangled names, resolved
// types, rewritten expressions) and the Context (declare/resolve, record
// diagnostics).
type HandlerFunc func(ctx *Context, n ast.Node)

// Table maps pass number to node kind to handler. Built once by
// NewGenerator/NewAnalyzer; never mutated by a handler while walking.
type Table map[int]map[ast.Kind]HandlerFunc

// scopeIntroducing is the fixed set of node kinds the framework wraps with
// Enter/Leave before/after recursing into children, per §4.4.
var scopeIntroducing = map[ast.Kind]bool{
	ast.KindIf:     true,
	ast.KindFn:     true,
	ast.KindLoop:   true,
	ast.KindImpl:   true,
	ast.KindAffix:  true,
	ast.KindExtern: true,
	ast.KindBlock:  true,
}

// Walker drives a Table over a set of files across passes 0..MaxPass. The
// pass loop is the sole owner of the pass cursor; handlers never see or
// mutate it directly.
//
// PostOrder selects when a pass's handler runs relative to a node's
// children. Semantic generation runs pre-order (a Fn must be declared
// before its body is walked, so a recursive call inside it resolves).
// Semantic analysis runs post-order: expression type inference is
// bottom-up, so a BinaryExpr's handler needs its operands' types already
// recorded by the time it runs.
type Walker struct {
	Table     Table
	MaxPass   int
	PostOrder bool
}

// Run walks every file once per pass, in queue order within a pass,
// matching the deterministic single-threaded walk §5 requires.
func (w *Walker) Run(ctx *Context, files []*ast.File) {
	for pass := 0; pass <= w.MaxPass; pass++ {
		for _, f := range files {
			ctx.BeginFile()
			for _, d := range f.Decls {
				w.walk(ctx, pass, d)
			}
		}
	}
}

func (w *Walker) walk(ctx *Context, pass int, n ast.Node) {
	if n == nil {
		return
	}

	handler, hasHandler := w.Table[pass][n.Kind()]
	call := func() {
		if hasHandler {
			handler(ctx, n)
		}
	}

	if !w.PostOrder {
		call()
	}

	restore := pushContextFrame(ctx, n)
	introducesScope := scopeIntroducing[n.Kind()]
	if introducesScope {
		ctx.Scope.Enter(n, n.Kind().String())
		postEnterHook(ctx, n)
	}

	for _, child := range children(n) {
		w.walk(ctx, pass, child)
	}

	if w.PostOrder {
		call()
	}

	if introducesScope {
		ctx.Scope.Leave()
	}
	restore()
}

// postEnterHook declares bindings that only exist inside the scope a node
// just introduced, such as a foreach loop's iteration variable — which
// must live in the Loop's own scope, not the one it was written in.
func postEnterHook(ctx *Context, n ast.Node) {
	loop, ok := n.(*ast.Loop)
	if !ok || !loop.IsForeach {
		return
	}
	iterVar := ast.NewDec(loop.Pos(), loop.Pos(), loop.IterName, true)
	ctx.Scope.DeclareSymbol(loop.IterName, iterVar)
}

// pushContextFrame installs the ambient bookkeeping some node kinds carry
// for their descendants (the current namespace prefix, the current impl
// self-type, the enclosing function for return-type unification), and
// returns a closure that restores the previous values. This is framework
// state, not something individual handlers manage, so it lives here next
// to the scope Enter/Leave it mirrors.
func pushContextFrame(ctx *Context, n ast.Node) func() {
	switch v := n.(type) {
	case *ast.Namespace:
		// genNamespace (pass 0) already declared this namespace's direct
		// Fn/Affix members into global; suppress genFn/genAffix's generic
		// per-node decl for the rest of this subtree so it doesn't also
		// insert a second copy into the namespace Block's transient scope.
		oldNS, oldSuppress := ctx.curNamespace, ctx.suppressFnDecl
		ctx.curNamespace = v.Name
		ctx.suppressFnDecl = true
		return func() { ctx.curNamespace, ctx.suppressFnDecl = oldNS, oldSuppress }
	case *ast.Impl:
		oldSelf, oldSuppress := ctx.curSelfType, ctx.suppressFnDecl
		ctx.curSelfType = v.TargetType
		ctx.suppressFnDecl = true
		return func() { ctx.curSelfType, ctx.suppressFnDecl = oldSelf, oldSuppress }
	case *ast.Extern:
		old := ctx.suppressFnDecl
		ctx.suppressFnDecl = true
		return func() { ctx.suppressFnDecl = old }
	case *ast.Fn:
		old := ctx.curFn
		ctx.curFn = v
		return func() { ctx.curFn = old }
	case *ast.Affix:
		// An affix body is a function body too: give `return` an Fn view of
		// the affix and copy back a return type fixed by its first return.
		old := ctx.curFn
		view := ast.NewFn(v.Pos(), v.End(), v.UnmangledName)
		view.ReturnType = v.ReturnType
		ctx.curFn = view
		return func() { v.ReturnType = view.ReturnType; ctx.curFn = old }
	}
	return func() {}
}

// children returns n's direct AST children in evaluation order. This is
// framework-owned traversal knowledge, not something individual node types
// or handlers implement, per the Redesign Flags' dispatch-table design.
func children(n ast.Node) []ast.Node {
	switch v := n.(type) {
	case *ast.Block:
		out := make([]ast.Node, len(v.Stmts))
		for i, s := range v.Stmts {
			out[i] = s
		}
		return out
	case *ast.Array:
		out := make([]ast.Node, len(v.Elements))
		for i, e := range v.Elements {
			out[i] = e
		}
		return out
	case *ast.Dec:
		return nonNil(declType(v), v.Initializer)
	case *ast.If:
		return nonNil(v.Condition, v.TrueBlock, v.FalseBlock)
	case *ast.Fn:
		out := make([]ast.Node, 0, len(v.Params)+2)
		for _, p := range v.Params {
			out = append(out, p)
		}
		if v.ReturnType != nil {
			out = append(out, v.ReturnType)
		}
		if v.Body != nil {
			out = append(out, v.Body)
		}
		return out
	case *ast.FnCall:
		out := make([]ast.Node, len(v.Args))
		for i, a := range v.Args {
			out[i] = a
		}
		return out
	case *ast.Loop:
		return nonNil(v.Expr, v.Body)
	case *ast.Struct:
		return nonNil(v.Fields)
	case *ast.Impl:
		return nonNil(v.Members)
	case *ast.Attribute:
		out := make([]ast.Node, len(v.Args))
		for i, a := range v.Args {
			out[i] = a
		}
		return out
	case *ast.Affix:
		out := make([]ast.Node, 0, len(v.Params)+2)
		for _, p := range v.Params {
			out = append(out, p)
		}
		if v.ReturnType != nil {
			out = append(out, v.ReturnType)
		}
		if v.Body != nil {
			out = append(out, v.Body)
		}
		return out
	case *ast.UnaryExpr:
		return nonNil(v.Operand)
	case *ast.BinaryExpr:
		return nonNil(v.Lhs, v.Rhs)
	case *ast.Index:
		return nonNil(v.Array, v.IndexExpr)
	case *ast.Return:
		return nonNil(v.Value)
	case *ast.Extern:
		out := make([]ast.Node, len(v.Decls))
		for i, fn := range v.Decls {
			out[i] = fn
		}
		return out
	case *ast.Namespace:
		return nonNil(v.Block)
	case *ast.ExprStmt:
		return nonNil(v.X)
	}
	return nil
}

func declType(d *ast.Dec) ast.Node {
	if d.DeclaredType == nil {
		return nil
	}
	return d.DeclaredType
}

func nonNil(nodes ...ast.Node) []ast.Node {
	out := make([]ast.Node, 0, len(nodes))
	for _, n := range nodes {
		if isNilNode(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// isNilNode reports whether n is a nil interface or a nil concrete pointer
// stored in a non-nil interface value (the classic Go gotcha when a typed
// nil, e.g. a nil *ast.Block, is passed as the ast.Node interface).
func isNilNode(n ast.Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *ast.Block:
		return v == nil
	case *ast.Type:
		return v == nil
	}
	return false
}
