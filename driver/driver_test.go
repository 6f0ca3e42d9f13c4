package driver

import (
	"os"
	"path/filepath"
	"testing"
)

func compileSrc(t *testing.T, src string) *Result {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.dusk")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing test source: %v", err)
	}
	return Compile([]string{path}, Options{})
}

// TestEmptyProgramCompilesToSingleReturn covers the "empty program"
// scenario: no declarations, no diagnostics, and IL that is exactly one
// OpReturn byte (the implicit empty main).
func TestEmptyProgramCompilesToSingleReturn(t *testing.T) {
	res := compileSrc(t, "")
	if res.Code != ExitOK {
		t.Fatalf("expected ExitOK, got %v (diags: %v)", res.Code, res.Diags.Diagnostics())
	}
	if len(res.IL) != 1 || res.IL[0] != 0x22 {
		t.Errorf("expected a single OpReturn byte (0x22) for an empty program, got % x", res.IL)
	}
}

// TestHelloConstantCompiles covers a string-returning variant of the
// "hello constant" scenario: a function returning a string literal
// compiles cleanly to a push-str plus a return.
func TestHelloConstantCompiles(t *testing.T) {
	res := compileSrc(t, `fn hello() -> str { return "hello"; }`)
	if res.Code != ExitOK {
		t.Fatalf("expected ExitOK, got %v (diags: %v)", res.Code, res.Diags.Diagnostics())
	}
	if len(res.IL) == 0 {
		t.Error("expected non-empty IL for a function returning a string constant")
	}

	want := []byte{0x03, 5, 0, 0, 0, 'h', 'e', 'l', 'l', 'o', 0x22}
	if len(res.IL) != len(want) {
		t.Fatalf("expected %d bytes, got %d: % x", len(want), len(res.IL), res.IL)
	}
	for i := range want {
		if res.IL[i] != want[i] {
			t.Fatalf("byte %d: expected %#x, got %#x (% x)", i, want[i], res.IL[i], res.IL)
		}
	}
}

// TestUnsuffixedLiteralReturnCompilesToDeclaredWidth covers the "hello
// constant" scenario in its literal form: `fn main() -> i64 { return 42; }`
// must compile the unsuffixed `42` as an i64, not a spurious i32/i64
// mismatch, and emit exactly push-i64(42) followed by return.
func TestUnsuffixedLiteralReturnCompilesToDeclaredWidth(t *testing.T) {
	res := compileSrc(t, `fn main() -> i64 { return 42; }`)
	if res.Code != ExitOK {
		t.Fatalf("expected ExitOK, got %v (diags: %v)", res.Code, res.Diags.Diagnostics())
	}

	want := []byte{0x01, 0x2A, 0, 0, 0, 0, 0, 0, 0, 0x22}
	if len(res.IL) != len(want) {
		t.Fatalf("expected %d bytes, got %d: % x", len(want), len(res.IL), res.IL)
	}
	for i := range want {
		if res.IL[i] != want[i] {
			t.Fatalf("byte %d: expected %#x, got %#x (% x)", i, want[i], res.IL[i], res.IL)
		}
	}
}

// TestLetImmutabilityIsRejected covers the "let-immutability" scenario:
// reassigning a `let` binding is a semantic error, not a codegen concern,
// so the module never reaches codegen.
func TestLetImmutabilityIsRejected(t *testing.T) {
	res := compileSrc(t, `fn f() { let x = 1; x = 2; }`)
	if res.Code == ExitOK {
		t.Fatal("expected reassigning a let binding to be rejected")
	}
	if !res.Diags.HasErrors() {
		t.Fatal("expected a diagnostic for reassigning an immutable binding")
	}
}

// TestOperatorOverloadResolvesToAffixCall covers the "operator overload"
// scenario: a user-defined infix + must compile to a call rather than a
// built-in binop.
func TestOperatorOverloadResolvesToAffixCall(t *testing.T) {
	src := "struct Vec { x: i32 }\n" +
		"infix op + (a: Vec, b: Vec) -> Vec { return a; }\n" +
		"fn f(a: Vec, b: Vec) -> Vec { return a + b; }"
	res := compileSrc(t, src)
	if res.Code != ExitOK {
		t.Fatalf("expected ExitOK, got %v (diags: %v)", res.Code, res.Diags.Diagnostics())
	}

	// The affix (id 0) loads a and returns; f loads a and b, then calls
	// id 0 instead of emitting OpBinop.
	want := []byte{
		0x10, 0, 0, 0x22,
		0x10, 0, 0, 0x10, 1, 0, 0x20, 0, 0, 0, 0, 0x22,
	}
	if len(res.IL) != len(want) {
		t.Fatalf("expected %d bytes, got %d: % x", len(want), len(res.IL), res.IL)
	}
	for i := range want {
		if res.IL[i] != want[i] {
			t.Fatalf("byte %d: expected %#x, got %#x (% x)", i, want[i], res.IL[i], res.IL)
		}
	}
}

// TestUnresolvedCallIsDiagnosed covers the "unresolved call" scenario: a
// call to a function that was never declared is reported, never silently
// dropped or crashed on.
func TestUnresolvedCallIsDiagnosed(t *testing.T) {
	res := compileSrc(t, `fn f() { missing(1, 2); }`)
	if res.Code == ExitOK {
		t.Fatal("expected an unresolved call to fail compilation")
	}
	if !res.Diags.HasErrors() {
		t.Fatal("expected a diagnostic for the unresolved call")
	}
}

// TestForeachOverArrayCompiles covers the "foreach over array" scenario.
func TestForeachOverArrayCompiles(t *testing.T) {
	res := compileSrc(t, `fn f() -> i32 { var total = 0; loop x in [1, 2, 3] { total = total + x; } return total; }`)
	if res.Code != ExitOK {
		t.Fatalf("expected ExitOK, got %v (diags: %v)", res.Code, res.Diags.Diagnostics())
	}
	if len(res.IL) == 0 {
		t.Error("expected non-empty IL for a function iterating a literal array")
	}
}

// TestForeachOverArrayWithContinueCompiles covers the "foreach over array"
// scenario in its literal form: `loop i in [1,2,3] { continue; }` must
// type-check (continue is legal inside a loop) and produce IL.
func TestForeachOverArrayWithContinueCompiles(t *testing.T) {
	res := compileSrc(t, `fn f() { loop i in [1, 2, 3] { continue; } }`)
	if res.Code != ExitOK {
		t.Fatalf("expected ExitOK, got %v (diags: %v)", res.Code, res.Diags.Diagnostics())
	}
	if len(res.IL) == 0 {
		t.Error("expected non-empty IL for a foreach loop containing continue")
	}
}

// TestNamespacedFunctionCompilesAndIsCallable covers the Namespace/Use
// supplement end to end: a function declared inside `namespace math { ... }`
// must resolve from outside it and reach codegen, not just semantic
// analysis, since the two bugs (missing scope declaration and missing
// codegen descent) were independent.
func TestNamespacedFunctionCompilesAndIsCallable(t *testing.T) {
	src := "namespace math { fn square(x: i32) -> i32 { return x * x; } }\n" +
		"fn f() -> i32 { return square(4); }"
	res := compileSrc(t, src)
	if res.Code != ExitOK {
		t.Fatalf("expected ExitOK, got %v (diags: %v)", res.Code, res.Diags.Diagnostics())
	}
	if len(res.IL) == 0 {
		t.Error("expected non-empty IL for a namespaced function and its caller")
	}
}

// TestImplMethodAndExternFunctionCompile covers the impl-member and
// extern-member transient-scope bugs end to end: both must be declared
// visibly enough to compile a caller outside their block.
func TestImplMethodAndExternFunctionCompile(t *testing.T) {
	src := "extern { fn puts(s: str); }\n" +
		"struct Foo { }\n" +
		"impl Foo { fn bar() -> i32 { return 1; } }\n" +
		"fn f() -> i32 { puts(\"hi\"); return bar(); }"
	res := compileSrc(t, src)
	if res.Code != ExitOK {
		t.Fatalf("expected ExitOK, got %v (diags: %v)", res.Code, res.Diags.Diagnostics())
	}
	if len(res.IL) == 0 {
		t.Error("expected non-empty IL for a caller of an impl method and an extern function")
	}
}

func TestReadFailureReturnsIOExitCode(t *testing.T) {
	res := Compile([]string{"/nonexistent/path/does-not-exist.dusk"}, Options{})
	if res.Code != ExitIOFailure {
		t.Fatalf("expected ExitIOFailure, got %v", res.Code)
	}
}
