package sema

import (
	"testing"

	"duskc/ast"
	"duskc/diag"
	"duskc/lexer"
	"duskc/parser"
	"duskc/scope"
	"duskc/token"
)

// compile runs generation then analysis over a single source string and
// returns the file, the accumulated diagnostics, and the resolved types,
// enough for most sema-level assertions without going through codegen.
func compile(t *testing.T, src string) (*ast.File, *diag.List, *Types) {
	t.Helper()
	f := token.NewFile("test.dusk", []byte(src))
	toks, lexDiags := lexer.Lex(f)
	if lexDiags.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", lexDiags.Diagnostics())
	}
	file, parseDiags := parser.Parse(f, toks)
	if parseDiags.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", parseDiags.Diagnostics())
	}

	d := &diag.List{}
	ctx := NewContext(scope.NewContext(), d)
	files := []*ast.File{file}

	NewGenerator().Run(ctx, files)
	analyzer, types := NewAnalyzer()
	analyzer.Run(ctx, files)

	return file, d, types
}

func TestGenerateThenAnalyzeCleanFunction(t *testing.T) {
	_, d, _ := compile(t, "fn add(a: i32, b: i32) -> i32 { return a + b; }")
	if d.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", d.Diagnostics())
	}
}

func TestUnsuffixedLiteralCoercesToDeclaredReturnType(t *testing.T) {
	f, d, types := compile(t, "fn main() -> i64 { return 42; }")
	if d.HasErrors() {
		t.Fatalf("expected an unsuffixed literal to coerce to the declared return type, got %v", d.Diagnostics())
	}

	fn := f.Decls[0].(*ast.Fn)
	ret := fn.Body.Stmts[0].(*ast.Return)
	num := ret.Value.(*ast.Number)
	if got := types.Of(num); got == nil || got.Name != "i64" {
		t.Errorf("expected the literal's inferred type to widen to i64, got %v", got)
	}
}

func TestUnsuffixedLiteralCoercesToDeclaredVarType(t *testing.T) {
	_, d, _ := compile(t, "fn f() { var x: i64 = 1; }")
	if d.HasErrors() {
		t.Fatalf("expected an unsuffixed literal to coerce to the declared var type, got %v", d.Diagnostics())
	}
}

func TestAnalyzeCatchesUnresolvedSymbol(t *testing.T) {
	_, d, _ := compile(t, "fn f() -> i32 { return y; }")
	if !d.HasErrors() {
		t.Fatal("expected an unresolved-symbol diagnostic")
	}
}

func TestAnalyzeCatchesUnresolvedCall(t *testing.T) {
	_, d, _ := compile(t, "fn f() { g(1, 2); }")
	if !d.HasErrors() {
		t.Fatal("expected an unresolved-call diagnostic")
	}
}

func TestCallResolvesAndRewritesToMangledName(t *testing.T) {
	f, d, _ := compile(t, "fn sq(x: i32) -> i32 { return x; }\nfn f() -> i32 { return sq(1); }")
	if d.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", d.Diagnostics())
	}

	var call *ast.FnCall
	fn2 := f.Decls[1].(*ast.Fn)
	ret := fn2.Body.Stmts[0].(*ast.Return)
	call = ret.Value.(*ast.FnCall)

	if !call.Mangled {
		t.Fatal("expected the call to be rewritten to its mangled form")
	}
	if call.Name != scope.Mangle("", "", "sq", []*scope.TypeDesc{{Name: "i32"}}) {
		t.Errorf("unexpected mangled call name %q", call.Name)
	}
}

func TestOverloadResolutionPicksMatchingParamTypes(t *testing.T) {
	src := "fn f(x: i32) -> i32 { return x; }\n" +
		"fn f(x: str) -> str { return x; }\n" +
		"fn g() -> i32 { return f(1); }"
	_, d, _ := compile(t, src)
	if d.HasErrors() {
		t.Fatalf("expected overload resolution to succeed, got %v", d.Diagnostics())
	}
}

func TestLocalVariableVisibleAcrossGenerationAndAnalysisPasses(t *testing.T) {
	// A regression check for the two-pass scope-rebuild design: generation
	// and analysis each create their own nested Scope objects, so a
	// parameter declared during generation must be re-declared for
	// analysis to resolve references to it.
	_, d, _ := compile(t, "fn f(x: i32) -> i32 { let y = x; return y; }")
	if d.HasErrors() {
		t.Fatalf("expected locals declared in generation to resolve during analysis, got %v", d.Diagnostics())
	}
}

func TestAssignToLetBindingIsRejected(t *testing.T) {
	_, d, _ := compile(t, "fn f() { let x = 1; x = 2; }")
	if !d.HasErrors() {
		t.Fatal("expected reassigning a let binding to be rejected")
	}
}

func TestAssignToVarBindingIsAccepted(t *testing.T) {
	_, d, _ := compile(t, "fn f() { var x = 1; x = 2; }")
	if d.HasErrors() {
		t.Fatalf("expected reassigning a var binding to succeed, got %v", d.Diagnostics())
	}
}

func TestBreakOutsideLoopIsRejected(t *testing.T) {
	_, d, _ := compile(t, "fn f() { break; }")
	if !d.HasErrors() {
		t.Fatal("expected a break-outside-loop diagnostic")
	}
}

func TestForeachOverNonLiteralArrayIsRejected(t *testing.T) {
	_, d, _ := compile(t, "fn f() { let xs: i32[] = [1]; loop x in xs { } }")
	if !d.HasErrors() {
		t.Fatal("expected foreach over a non-literal array to be rejected")
	}
}

func TestForeachOverLiteralArrayIsAccepted(t *testing.T) {
	_, d, _ := compile(t, "fn f() { loop x in [1, 2, 3] { } }")
	if d.HasErrors() {
		t.Fatalf("expected foreach over a literal array to type-check, got %v", d.Diagnostics())
	}
}

func TestBreakInsideLoopIsAccepted(t *testing.T) {
	_, d, _ := compile(t, "fn f() { loop x in [1, 2, 3] { break; } }")
	if d.HasErrors() {
		t.Fatalf("expected break inside a loop to be accepted, got %v", d.Diagnostics())
	}
}

func TestContinueInsideLoopIsAccepted(t *testing.T) {
	_, d, _ := compile(t, "fn f() { loop x in [1, 2, 3] { continue; } }")
	if d.HasErrors() {
		t.Fatalf("expected continue inside a loop to be accepted, got %v", d.Diagnostics())
	}
}

func TestBreakInsideNestedIfInsideLoopIsAccepted(t *testing.T) {
	_, d, _ := compile(t, "fn f() { loop x in [1, 2, 3] { if x == 1 { break; } } }")
	if d.HasErrors() {
		t.Fatalf("expected break inside a nested if inside a loop to be accepted, got %v", d.Diagnostics())
	}
}

func TestExternFunctionIsCallableFromSiblingFunction(t *testing.T) {
	// Regression check for the extern-declaration transient-scope bug:
	// extern's own scope is popped before f is walked, so puts must have
	// been declared into the persistent global scope to resolve here.
	src := "extern { fn puts(s: str); }\n" +
		"fn f() { puts(\"hi\"); }"
	_, d, _ := compile(t, src)
	if d.HasErrors() {
		t.Fatalf("expected the extern function to resolve from a sibling function, got %v", d.Diagnostics())
	}
}

func TestImplMethodIsCallableByBareName(t *testing.T) {
	// Regression check for the impl-member transient-scope bug: Members is
	// itself a Block, whose own scope is popped before f is walked, so bar
	// must have been declared into the persistent global scope to resolve
	// here via the unmangled-name overload-resolution fallback.
	src := "struct Foo { }\n" +
		"impl Foo { fn bar() -> i32 { return 1; } }\n" +
		"fn f() -> i32 { return bar(); }"
	_, d, _ := compile(t, src)
	if d.HasErrors() {
		t.Fatalf("expected the impl method to resolve from outside the impl block, got %v", d.Diagnostics())
	}
}

func TestNamespacedFunctionIsCallableByBareName(t *testing.T) {
	// Regression check for the namespace-body transient-scope bug: a
	// Namespace's Block child is scope-introducing, so its members must be
	// declared into the persistent global scope to resolve outside it.
	src := "namespace math { fn square(x: i32) -> i32 { return x * x; } }\n" +
		"fn f() -> i32 { return square(2); }"
	f, d, _ := compile(t, src)
	if d.HasErrors() {
		t.Fatalf("expected the namespaced function to resolve from outside its namespace, got %v", d.Diagnostics())
	}

	ns := f.Decls[0].(*ast.Namespace)
	fn := ns.Block.Stmts[0].(*ast.Fn)
	if fn.Namespace != "math" {
		t.Errorf("expected the function's namespace prefix to be recorded, got %q", fn.Namespace)
	}
	if fn.MangledName == "" {
		t.Error("expected the namespaced function to have been mangled")
	}
}

func TestBinaryOperatorOverloadRewritesToAffixCall(t *testing.T) {
	src := "struct Vec { x: i32 }\n" +
		"infix op + (a: Vec, b: Vec) -> Vec { return a; }\n" +
		"fn f(a: Vec, b: Vec) -> Vec { return a + b; }"
	f, d, _ := compile(t, src)
	if d.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", d.Diagnostics())
	}

	fn := f.Decls[2].(*ast.Fn)
	ret := fn.Body.Stmts[0].(*ast.Return)
	bin := ret.Value.(*ast.BinaryExpr)
	if !bin.Mangled {
		t.Fatal("expected the '+' expression to be rewritten to an affix call")
	}
	if bin.Operator == "+" {
		t.Error("expected Operator to be rewritten to the affix's mangled name")
	}
}
