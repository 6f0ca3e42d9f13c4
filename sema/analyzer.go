package sema

import (
	"strconv"

	"duskc/ast"
	"duskc/diag"
	"duskc/scope"
)

// exprType records inferred types for expression nodes keyed by pointer
// identity, populated by the analyzer and consumed by codegen. A side
// table (rather than a field on every Expr type) keeps type-checking
// concerns out of the AST itself.
type exprType map[ast.Node]*scope.TypeDesc

// Types is the per-compilation state shared between the analyzer and
// codegen: exported so the driver can hand it to codegen
// after analysis finishes. A fresh Analyzer should be built per
// compilation to avoid leaking types across unrelated runs.
type Types struct {
	types exprType
}

func newTypes() *Types { return &Types{types: exprType{}} }

// Of returns the inferred type of an expression analyzed earlier, or nil
// if none was recorded (e.g. a node from a rejected parse).
func (t *Types) Of(n ast.Node) *scope.TypeDesc { return t.types[n] }

func (t *Types) set(n ast.Node, ty *scope.TypeDesc) { t.types[n] = ty }

// NewAnalyzer builds the semantic-analysis family's handler table (pass 0)
// together with the Types side table codegen will read from.
func NewAnalyzer() (*Walker, *Types) {
	types := newTypes()
	a := &analyzerHandlers{types: types}
	return &Walker{
		MaxPass:   0,
		PostOrder: true,
		Table: Table{
			0: {
				ast.KindDec:        a.dec,
				ast.KindIf:         a.ifStmt,
				ast.KindLoop:       a.loop,
				ast.KindReturn:     a.ret,
				ast.KindBreak:      a.breakStmt,
				ast.KindContinue:   a.continueStmt,
				ast.KindIndex:      a.index,
				ast.KindExtern:     a.extern,
				ast.KindBinaryExpr: a.binary,
				ast.KindUnaryExpr:  a.unary,
				ast.KindFnCall:     a.call,
				ast.KindSymbol:     a.symbol,
				ast.KindNumber:     a.number,
				ast.KindString:     a.string,
				ast.KindBoolean:    a.boolean,
				ast.KindArray:      a.array,
			},
		},
	}, types
}

type analyzerHandlers struct {
	types *Types
}

// dec both type-checks a Dec and (re-)declares it into the current scope.
// Redeclaration was already validated during generation; analysis walks a
// fresh set of scope objects (function bodies are re-entered independently
// per family), so locals and parameters must be re-declared here, now
// carrying their resolved type, for sibling statements to resolve against.
func (a *analyzerHandlers) dec(ctx *Context, n ast.Node) {
	d := n.(*ast.Dec)

	if d.DeclaredType == nil && d.Initializer == nil {
		ctx.errorf(diag.Type, "UninferredDec", d, "declaration %q has no type and no initializer", d.Name)
		return
	}

	declared := scope.FromAST(d.DeclaredType)
	if d.Initializer != nil {
		initType := a.types.Of(d.Initializer)
		if declared == nil {
			declared = initType
			d.DeclaredType = astTypeOf(initType)
		} else if initType != nil {
			initType = a.coerceUntyped(d.Initializer, initType, declared)
			if !declared.Equal(initType) {
				ctx.errorf(diag.Type, "TypeMismatch", d, "cannot initialize %q of type %s with %s", d.Name, declared, initType)
			}
		}
	}
	a.types.set(d, declared)
	ctx.Scope.DeclareSymbol(d.Name, d)
}

func (a *analyzerHandlers) ifStmt(ctx *Context, n ast.Node) {
	iff := n.(*ast.If)
	condType := a.types.Of(iff.Condition)
	if condType != nil && !condType.Equal(scope.Bool) {
		ctx.errorf(diag.Type, "NonBooleanCondition", iff.Condition, "if condition must be bool, got %s", condType)
	}
}

func (a *analyzerHandlers) loop(ctx *Context, n ast.Node) {
	l := n.(*ast.Loop)
	if !l.IsForeach {
		condType := a.types.Of(l.Expr)
		if condType != nil && !condType.Equal(scope.Bool) {
			ctx.errorf(diag.Type, "NonBooleanCondition", l.Expr, "loop condition must be bool, got %s", condType)
		}
		return
	}

	iterType := a.types.Of(l.Expr)
	if iterType == nil {
		return
	}
	if !iterType.IsArray {
		if _, ok := ctx.Scope.ResolveType(iterType.Name + ".Iterator"); !ok {
			ctx.errorf(diag.Type, "NotIterable", l.Expr, "%s is not iterable: expected an array or a type implementing Iterator", iterType)
			return
		}
	}
	analyzeForeachIterable(ctx, l)
}

// analyzeForeachIterable rejects foreach over anything but a literal array.
// The IL this compiler targets has no array-length or iterator-next opcode,
// so codegen can only bound the loop with a compile-time-known element
// count; a dynamically-sized iterable would need a runtime length query the
// wire format doesn't provide.
func analyzeForeachIterable(ctx *Context, l *ast.Loop) {
	if _, ok := l.Expr.(*ast.Array); ok {
		return
	}
	ctx.errorf(diag.Type, "DynamicForeachUnsupported", l.Expr,
		"foreach over %q requires a literal array with a compile-time-known length", l.IterName)
}

func (a *analyzerHandlers) ret(ctx *Context, n ast.Node) {
	r := n.(*ast.Return)
	if ctx.curFn == nil {
		ctx.errorf(diag.Structural, "ReturnOutsideFn", r, "return outside a function")
		return
	}

	var retType *scope.TypeDesc
	if r.Value != nil {
		retType = a.types.Of(r.Value)
	} else {
		retType = scope.Void
	}

	declared := scope.FromAST(ctx.curFn.ReturnType)
	if declared == nil {
		ctx.curFn.ReturnType = astTypeOf(retType)
		return
	}
	if r.Value != nil {
		retType = a.coerceUntyped(r.Value, retType, declared)
	}
	if retType != nil && !declared.Equal(retType) {
		ctx.errorf(diag.Type, "ReturnTypeMismatch", r, "return type %s does not match function's declared return type %s", retType, declared)
	}
}

// coerceUntyped widens an untyped numeric literal (one written without a
// suffix) to match an expected type, the way `fn f() -> i64 { return 42; }`
// or `var x: i64 = 1;` needs the literal's default i32/f64 to unify with
// the wider declared type instead of being rejected outright. Suffixed
// literals and non-literal expressions are returned unchanged.
func (a *analyzerHandlers) coerceUntyped(expr ast.Expr, exprType, target *scope.TypeDesc) *scope.TypeDesc {
	num, ok := expr.(*ast.Number)
	if !ok || !num.IsUntyped || target == nil {
		return exprType
	}
	if num.IsFloat {
		if !isFloatType(target) {
			return exprType
		}
	} else if !isIntType(target) {
		return exprType
	}

	num.IsFloat = isFloatType(target)
	num.IsSigned = len(target.Name) > 0 && target.Name[0] != 'u'
	if w, err := strconv.Atoi(target.Name[1:]); err == nil {
		num.BitWidth = ast.NumberBitWidth(w)
	}
	a.types.set(num, target)
	return target
}

func (a *analyzerHandlers) breakStmt(ctx *Context, n ast.Node) {
	if !ctx.Scope.InLoop() {
		ctx.errorf(diag.Structural, "BreakOutsideLoop", n, "break outside a loop")
	}
}

func (a *analyzerHandlers) continueStmt(ctx *Context, n ast.Node) {
	if !ctx.Scope.InLoop() {
		ctx.errorf(diag.Structural, "ContinueOutsideLoop", n, "continue outside a loop")
	}
}

func (a *analyzerHandlers) index(ctx *Context, n ast.Node) {
	idx := n.(*ast.Index)
	arrType := a.types.Of(idx.Array)
	idxType := a.types.Of(idx.IndexExpr)

	if arrType != nil && !arrType.IsArray {
		ctx.errorf(diag.Type, "NotIndexable", idx.Array, "cannot index non-array type %s", arrType)
	}
	if idxType != nil && !isIntType(idxType) {
		ctx.errorf(diag.Type, "NonIntegerIndex", idx.IndexExpr, "index must be an integer, got %s", idxType)
	}

	if arrType != nil && arrType.IsArray {
		a.types.set(idx, arrType.Elem)
	}
}

// extern only validates during analysis; the declarations themselves were
// already made into the persistent global scope by genExtern during
// generation, and the global scope (unlike a function body's locals) is
// shared by both passes, so there is nothing to re-declare here.
func (a *analyzerHandlers) extern(ctx *Context, n ast.Node) {
	ext := n.(*ast.Extern)
	for _, fn := range ext.Decls {
		if fn.Body != nil && len(fn.Body.Stmts) > 0 {
			ctx.errorf(diag.Structural, "ExternHasBody", fn, "extern function %q may not have a body", fn.UnmangledName)
		}
	}
}

// binary implements §4.5's overload resolution for BinaryExpr: built-in
// scalar operators first, then a matching user-defined infix affix. When
// an affix matches, the node is marked Mangled and its Operator replaced
// by the affix's mangled name, which codegen lowers to a call.
func (a *analyzerHandlers) binary(ctx *Context, n ast.Node) {
	b := n.(*ast.BinaryExpr)
	lhs := a.types.Of(b.Lhs)
	rhs := a.types.Of(b.Rhs)

	if b.Operator == "=" {
		checkAssignmentTarget(ctx, b.Lhs)
	}

	if isBuiltinBinaryOp(b.Operator, lhs, rhs) {
		a.types.set(b, resultTypeOfBinary(b.Operator, lhs, rhs))
		return
	}

	if lhs == nil || rhs == nil {
		return
	}

	if affix, ok := ctx.Scope.ResolveAffix(ast.Infix, b.Operator, []*scope.TypeDesc{lhs, rhs}); ok {
		b.Mangled = true
		b.Operator = affix.MangledName
		a.types.set(b, scope.FromAST(affix.ReturnType))
		return
	}

	ctx.errorf(diag.NameResolution, "UnresolvedCall", b, "no operator %q for operand types %s, %s", b.Operator, lhs, rhs)
}

func (a *analyzerHandlers) unary(ctx *Context, n ast.Node) {
	u := n.(*ast.UnaryExpr)
	operand := a.types.Of(u.Operand)

	if isBuiltinUnaryOp(u.Operator, operand) {
		a.types.set(u, operand)
		return
	}

	if operand == nil {
		return
	}

	kind := ast.Prefix
	if u.Suffix {
		kind = ast.Suffix
	}
	if affix, ok := ctx.Scope.ResolveAffix(kind, u.Operator, []*scope.TypeDesc{operand}); ok {
		u.Operator = affix.MangledName
		a.types.set(u, scope.FromAST(affix.ReturnType))
		return
	}

	ctx.errorf(diag.NameResolution, "UnresolvedCall", u, "no operator %q for operand type %s", u.Operator, operand)
}

// call implements the four-step overload resolution of §4.5 for explicit
// FnCall nodes.
func (a *analyzerHandlers) call(ctx *Context, n ast.Node) {
	c := n.(*ast.FnCall)

	if c.Mangled {
		if fn, ok := ctx.Scope.ResolveFnMangled(c.Name); ok {
			a.types.set(c, scope.FromAST(fn.ReturnType))
		} else {
			ctx.errorf(diag.NameResolution, "UnresolvedCall", c, "no function with mangled name %q", c.Name)
		}
		return
	}

	argTypes := make([]*scope.TypeDesc, len(c.Args))
	for i, arg := range c.Args {
		argTypes[i] = a.types.Of(arg)
	}

	fn, status := ctx.Scope.ResolveFn(c.Name, argTypes)
	switch status {
	case scope.Resolved:
		c.Name = fn.MangledName
		c.Mangled = true
		a.types.set(c, scope.FromAST(fn.ReturnType))
	case scope.Ambiguous:
		ctx.errorf(diag.NameResolution, "UnresolvedCall", c, "call to %q is ambiguous for argument types %v", c.Name, argTypes)
	case scope.NotFound:
		ctx.errorf(diag.NameResolution, "UnresolvedCall", c, "no function %q for argument types %v", c.Name, argTypes)
	}
}

func (a *analyzerHandlers) symbol(ctx *Context, n ast.Node) {
	s := n.(*ast.Symbol)
	if d, ok := ctx.Scope.ResolveSymbol(s.Name); ok {
		a.types.set(s, scope.FromAST(d.DeclaredType))
		return
	}
	for ns := range ctx.usedNamespaces {
		if d, ok := ctx.Scope.ResolveSymbol(ns + "::" + s.Name); ok {
			a.types.set(s, scope.FromAST(d.DeclaredType))
			return
		}
	}
	ctx.errorf(diag.NameResolution, "UnresolvedSymbol", s, "undefined symbol %q", s.Name)
}

func (a *analyzerHandlers) number(ctx *Context, n ast.Node) {
	num := n.(*ast.Number)
	if num.IsFloat {
		a.types.set(num, &scope.TypeDesc{Name: "f" + strconv.Itoa(int(num.BitWidth))})
		return
	}
	prefix := "i"
	if !num.IsSigned {
		prefix = "u"
	}
	a.types.set(num, &scope.TypeDesc{Name: prefix + strconv.Itoa(int(num.BitWidth))})
}

func (a *analyzerHandlers) string(ctx *Context, n ast.Node)  { a.types.set(n, scope.Str) }
func (a *analyzerHandlers) boolean(ctx *Context, n ast.Node) { a.types.set(n, scope.Bool) }

func (a *analyzerHandlers) array(ctx *Context, n ast.Node) {
	arr := n.(*ast.Array)
	var elem *scope.TypeDesc
	for _, e := range arr.Elements {
		t := a.types.Of(e)
		if t == nil {
			continue
		}
		if elem == nil {
			elem = t
		} else if !elem.Equal(t) {
			ctx.errorf(diag.Type, "TypeMismatch", e, "array element type %s does not match earlier element type %s", t, elem)
		}
	}
	arr.ElemType = astTypeOf(elem)
	a.types.set(arr, scope.Array(elem))
}

// checkAssignmentTarget rejects assignment to a `let` binding. It resolves
// Lhs in the current scope; an Lhs that does not resolve was already
// reported by a.symbol's post-order visit, so it is skipped here.
func checkAssignmentTarget(ctx *Context, lhs ast.Expr) {
	sym, ok := lhs.(*ast.Symbol)
	if !ok {
		return
	}
	dec, ok := ctx.Scope.ResolveSymbol(sym.Name)
	if !ok || !dec.Immutable {
		return
	}
	ctx.errorf(diag.Type, "AssignToImmutable", sym, "cannot assign to %q: declared with let", sym.Name)
}

func isBuiltinBinaryOp(op string, lhs, rhs *scope.TypeDesc) bool {
	if lhs == nil || rhs == nil {
		return false
	}
	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return true
	case "+", "-", "*", "/", "%", "&", "|", "=", "+=", "-=", "*=", "/=":
		return isNumericType(lhs) && isNumericType(rhs) || (op == "+" && lhs.Equal(scope.Str) && rhs.Equal(scope.Str)) || op == "="
	}
	return false
}

func resultTypeOfBinary(op string, lhs, rhs *scope.TypeDesc) *scope.TypeDesc {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return scope.Bool
	default:
		return lhs
	}
}

func isBuiltinUnaryOp(op string, operand *scope.TypeDesc) bool {
	if operand == nil {
		return false
	}
	switch op {
	case "-":
		return isNumericType(operand)
	case "!":
		return operand.Equal(scope.Bool)
	case "&":
		return true
	}
	return false
}

func isNumericType(t *scope.TypeDesc) bool { return isIntType(t) || isFloatType(t) }

func isIntType(t *scope.TypeDesc) bool {
	if t == nil || t.IsArray {
		return false
	}
	switch t.Name {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64":
		return true
	}
	return false
}

func isFloatType(t *scope.TypeDesc) bool {
	if t == nil || t.IsArray {
		return false
	}
	return t.Name == "f32" || t.Name == "f64"
}

// astTypeOf converts a resolved TypeDesc back into an *ast.Type so it can
// be stored on nodes whose ReturnType/ElemType fields are AST-shaped
// (filled in during analysis for Array, or fixed on first
// return per §4.6 for Fn).
func astTypeOf(t *scope.TypeDesc) *ast.Type {
	if t == nil {
		return nil
	}
	var zero ast.Type
	if t.IsArray {
		return ast.NewArrayType(zero.Pos(), zero.End(), astTypeOf(t.Elem))
	}
	return ast.NewType(zero.Pos(), zero.End(), t.Name)
}
