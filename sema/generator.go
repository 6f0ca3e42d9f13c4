package sema

import (
	"duskc/ast"
	"duskc/diag"
	"duskc/scope"
)

// NewGenerator builds the semantic-generation family's handler table: pass
// 0 populates the scope tables (types, functions, affixes, block-local
// declarations) that pass to semantic analysis. Handlers are registered
// once here, never accreted by side-effecting constructors elsewhere.
func NewGenerator() *Walker {
	return &Walker{
		MaxPass: 0,
		Table: Table{
			0: {
				ast.KindStruct:    genStruct,
				ast.KindFn:        genFn,
				ast.KindAffix:     genAffix,
				ast.KindDec:       genDec,
				ast.KindUse:       genUse,
				ast.KindExtern:    genExtern,
				ast.KindImpl:      genImpl,
				ast.KindNamespace: genNamespace,
			},
		},
	}
}

func genStruct(ctx *Context, n ast.Node) {
	s := n.(*ast.Struct)
	if err := ctx.Scope.DeclareType(s.Name, &scope.TypeDesc{Name: s.Name}); err != nil {
		ctx.errorf(diag.NameResolution, "Redeclaration", s, "%s", err)
	}
}

func genFn(ctx *Context, n ast.Node) {
	fn := n.(*ast.Fn)
	fn.Namespace = ctx.curNamespace
	fn.SelfType = ctx.curSelfType

	if ctx.suppressFnDecl {
		// Already declared into the global scope by genExtern/genImpl;
		// this node's own transient block scope would just be discarded.
		return
	}

	params := paramTypes(fn.Params)
	if err := ctx.Scope.DeclareFn(fn, params); err != nil {
		ctx.errorf(diag.NameResolution, "Redeclaration", fn, "%s", err)
	}
}

func genAffix(ctx *Context, n ast.Node) {
	affix := n.(*ast.Affix)
	affix.Namespace = ctx.curNamespace

	if ctx.suppressFnDecl {
		return
	}

	params := paramTypes(affix.Params)
	if err := ctx.Scope.DeclareAffix(affix, params); err != nil {
		ctx.errorf(diag.NameResolution, "Redeclaration", affix, "%s", err)
	}
}

// genExtern declares every extern function directly into the global scope.
// Extern is scope-introducing per §4.4's fixed set, so by the time its Fn
// children are walked as ordinary Fn nodes, the framework has already
// pushed the extern block's own scope on top; declaring there would be
// invisible to any call site once that scope is popped on Leave.
func genExtern(ctx *Context, n ast.Node) {
	ext := n.(*ast.Extern)
	for _, fn := range ext.Decls {
		fn.Namespace = ctx.curNamespace
		if err := ctx.Scope.DeclareFnGlobal(fn, paramTypes(fn.Params)); err != nil {
			ctx.errorf(diag.NameResolution, "Redeclaration", fn, "%s", err)
		}
	}
}

// genImpl declares an impl block's Fn and Affix members directly into the
// global scope, mangled with the impl's target type as SelfType, for the
// same reason genExtern does: impl.Members is a Block, itself
// scope-introducing, and its scope is popped before any call site outside
// the impl could see a declaration made only there.
func genImpl(ctx *Context, n ast.Node) {
	impl := n.(*ast.Impl)
	if impl.Members == nil {
		return
	}
	for _, member := range impl.Members.Stmts {
		switch m := member.(type) {
		case *ast.Fn:
			m.Namespace = ctx.curNamespace
			m.SelfType = impl.TargetType
			if err := ctx.Scope.DeclareFnGlobal(m, paramTypes(m.Params)); err != nil {
				ctx.errorf(diag.NameResolution, "Redeclaration", m, "%s", err)
			}
		case *ast.Affix:
			m.Namespace = ctx.curNamespace
			if err := ctx.Scope.DeclareAffixGlobal(m, paramTypes(m.Params)); err != nil {
				ctx.errorf(diag.NameResolution, "Redeclaration", m, "%s", err)
			}
		}
	}
}

// genNamespace declares a namespace's direct Fn and Affix members into the
// global scope under the namespace's mangling prefix, for the same reason
// genExtern/genImpl do: Namespace's Block child is scope-introducing, and
// that scope is popped before any call site outside the namespace could see
// a declaration made only there. Nested Impl, Extern, and Namespace members
// declare themselves through their own handlers when the framework walks
// into them as ordinary children; this loop only handles the namespace's
// direct declarations.
func genNamespace(ctx *Context, n ast.Node) {
	ns := n.(*ast.Namespace)
	if ns.Block == nil {
		return
	}
	for _, member := range ns.Block.Stmts {
		switch m := member.(type) {
		case *ast.Fn:
			m.Namespace = ns.Name
			if err := ctx.Scope.DeclareFnGlobal(m, paramTypes(m.Params)); err != nil {
				ctx.errorf(diag.NameResolution, "Redeclaration", m, "%s", err)
			}
		case *ast.Affix:
			m.Namespace = ns.Name
			if err := ctx.Scope.DeclareAffixGlobal(m, paramTypes(m.Params)); err != nil {
				ctx.errorf(diag.NameResolution, "Redeclaration", m, "%s", err)
			}
		}
	}
}

func genDec(ctx *Context, n ast.Node) {
	d := n.(*ast.Dec)
	if err := ctx.Scope.DeclareSymbol(d.Name, d); err != nil {
		ctx.errorf(diag.NameResolution, "Redeclaration", d, "%s", err)
	}
}

func genUse(ctx *Context, n ast.Node) {
	u := n.(*ast.Use)
	if _, ok := ctx.Files[u.Namespace]; !ok {
		ctx.errorf(diag.NameResolution, "UnknownNamespace", u, "unknown namespace %q", u.Namespace)
		return
	}
	ctx.usedNamespaces[u.Namespace] = true
}

func paramTypes(params []*ast.Dec) []*scope.TypeDesc {
	out := make([]*scope.TypeDesc, len(params))
	for i, p := range params {
		out[i] = scope.FromAST(p.DeclaredType)
	}
	return out
}
