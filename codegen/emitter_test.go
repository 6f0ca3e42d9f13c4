package codegen

import (
	"encoding/binary"
	"testing"

	"duskc/ast"
	"duskc/diag"
	"duskc/lexer"
	"duskc/parser"
	"duskc/scope"
	"duskc/sema"
	"duskc/token"
)

func analyzeSrc(t *testing.T, src string) ([]*ast.File, *sema.Types) {
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
	ctx := sema.NewContext(scope.NewContext(), d)
	files := []*ast.File{file}

	sema.NewGenerator().Run(ctx, files)
	analyzer, types := sema.NewAnalyzer()
	analyzer.Run(ctx, files)
	if d.HasErrors() {
		t.Fatalf("unexpected sema diagnostics: %v", d.Diagnostics())
	}

	return files, types
}

func TestEmitModuleSimpleAdditionFunction(t *testing.T) {
	files, types := analyzeSrc(t, "fn add(a: i32, b: i32) -> i32 { return a + b; }")

	il, err := codegenModule(t, files, types)
	if err != nil {
		t.Fatalf("EmitModule failed: %v", err)
	}

	want := []byte{
		byte(OpLoadLocal), 0, 0,
		byte(OpLoadLocal), 1, 0,
		byte(OpBinop), byte(BinAdd),
		byte(OpReturn),
	}
	if len(il) != len(want) {
		t.Fatalf("expected %d bytes, got %d: % x", len(want), len(il), il)
	}
	for i := range want {
		if il[i] != want[i] {
			t.Fatalf("byte %d: expected %#x, got %#x (% x)", i, want[i], il[i], il)
		}
	}
}

func TestEmitModuleImplicitReturnAppendedWhenMissing(t *testing.T) {
	files, types := analyzeSrc(t, "fn f() { }")
	il, err := codegenModule(t, files, types)
	if err != nil {
		t.Fatalf("EmitModule failed: %v", err)
	}
	if len(il) != 1 || il[0] != byte(OpReturn) {
		t.Fatalf("expected a single implicit OpReturn, got % x", il)
	}
}

func TestEmitModuleCallEmitsFunctionID(t *testing.T) {
	files, types := analyzeSrc(t, "fn sq(x: i32) -> i32 { return x; }\nfn f() -> i32 { return sq(1); }")
	il, err := codegenModule(t, files, types)
	if err != nil {
		t.Fatalf("EmitModule failed: %v", err)
	}

	// sq's body: load_local 0, return -> 4 bytes.
	sqLen := 4
	callBody := il[sqLen:]
	if callBody[0] != byte(OpPushI64) {
		t.Fatalf("expected f's body to start by pushing the literal argument, got %x", callBody[0])
	}
	// push_i64 opcode + 8 byte immediate, then OpCall + u32 id.
	callOp := callBody[9]
	if callOp != byte(OpCall) {
		t.Fatalf("expected OpCall after pushing the argument, got %x", callOp)
	}
	id := binary.LittleEndian.Uint32(callBody[10:14])
	if id != 0 {
		t.Errorf("expected sq (declared first) to have function id 0, got %d", id)
	}
}

func TestEmitModuleForeachOverLiteralArrayIndexesEachElement(t *testing.T) {
	files, types := analyzeSrc(t, "fn f() { loop x in [1, 2, 3] { } }")
	il, err := codegenModule(t, files, types)
	if err != nil {
		t.Fatalf("EmitModule failed: %v", err)
	}

	var indexLoads, arrayNews int
	for _, b := range il {
		if Op(b) == OpIndexLoad {
			indexLoads++
		}
		if Op(b) == OpArrayNew {
			arrayNews++
		}
	}
	if indexLoads == 0 {
		t.Error("expected at least one OpIndexLoad for the foreach body")
	}
	if arrayNews == 0 {
		t.Error("expected the loop's literal array to be rebuilt with OpArrayNew each iteration")
	}
}

func codegenModule(t *testing.T, files []*ast.File, types *sema.Types) ([]byte, error) {
	t.Helper()
	e := NewEmitter(files, types)
	return e.EmitModule(files)
}
