package scope

import (
	"testing"

	"duskc/ast"
	"duskc/token"
)

var zeroPos token.Pos

func TestMangleScalarParams(t *testing.T) {
	got := Mangle("", "", "add", []*TypeDesc{{Name: "i32"}, {Name: "i32"}})
	want := "add$i32_i32"
	if got != want {
		t.Fatalf("Mangle() = %q, want %q", got, want)
	}
}

func TestMangleArrayParam(t *testing.T) {
	got := Mangle("", "", "sum", []*TypeDesc{Array(&TypeDesc{Name: "i32"})})
	want := "sum$Ai32"
	if got != want {
		t.Fatalf("Mangle() = %q, want %q", got, want)
	}
}

func TestMangleNamespaceAndImplType(t *testing.T) {
	got := Mangle("geometry", "Vector", "length", nil)
	want := "geometry::Vector.length$"
	if got != want {
		t.Fatalf("Mangle() = %q, want %q", got, want)
	}
}

func TestMangleIsDeterministic(t *testing.T) {
	params := []*TypeDesc{{Name: "f64"}, Array(&TypeDesc{Name: "str"})}
	a := Mangle("ns", "T", "f", params)
	b := Mangle("ns", "T", "f", params)
	if a != b {
		t.Fatalf("Mangle() not deterministic: %q != %q", a, b)
	}
}

func TestScopeContextBalance(t *testing.T) {
	c := NewContext()
	if c.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1 (global only)", c.Depth())
	}

	c.Enter(nil, "block")
	c.Enter(nil, "block")
	if c.Depth() != 3 {
		t.Fatalf("Depth() = %d, want 3", c.Depth())
	}

	c.Leave()
	c.Leave()
	if c.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1 after balanced leave", c.Depth())
	}
}

func TestScopeContextLeaveGlobalPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Leave() on the global scope to panic")
		}
	}()
	c := NewContext()
	c.Leave()
}

func TestDeclareSymbolRedeclarationError(t *testing.T) {
	c := NewContext()
	if err := c.DeclareSymbol("x", nil); err != nil {
		t.Fatalf("first DeclareSymbol failed: %v", err)
	}
	if err := c.DeclareSymbol("x", nil); err == nil {
		t.Fatal("expected redeclaration error")
	}
}

func TestResolveSymbolWalksParents(t *testing.T) {
	c := NewContext()
	c.DeclareSymbol("outer", nil)
	c.Enter(nil, "block")

	if _, ok := c.ResolveSymbol("outer"); !ok {
		t.Fatal("expected to resolve symbol declared in an ancestor scope")
	}
	if _, ok := c.ResolveSymbol("missing"); ok {
		t.Fatal("did not expect to resolve an undeclared symbol")
	}
}

func TestResolveFnUnmangledFallbackUnique(t *testing.T) {
	c := NewContext()

	fn := ast.NewFn(zeroPos, zeroPos, "add")
	c.DeclareFn(fn, []*TypeDesc{{Name: "i32"}, {Name: "i32"}})

	got, status := c.ResolveFn("add", []*TypeDesc{{Name: "f64"}, {Name: "f64"}})
	if status != Resolved {
		t.Fatalf("ResolveFn() status = %v, want Resolved via unique unmangled fallback", status)
	}
	if got != fn {
		t.Fatal("ResolveFn() did not return the declared function")
	}
}

func TestResolveFnAmbiguous(t *testing.T) {
	c := NewContext()
	a := ast.NewFn(zeroPos, zeroPos, "add")
	b := ast.NewFn(zeroPos, zeroPos, "add")
	c.DeclareFn(a, []*TypeDesc{{Name: "i32"}})
	c.DeclareFn(b, []*TypeDesc{{Name: "f64"}})

	_, status := c.ResolveFn("add", []*TypeDesc{{Name: "str"}})
	if status != Ambiguous {
		t.Fatalf("ResolveFn() status = %v, want Ambiguous", status)
	}
}

func TestResolveFnMangledExact(t *testing.T) {
	c := NewContext()
	fn := ast.NewFn(zeroPos, zeroPos, "add")
	c.DeclareFn(fn, []*TypeDesc{{Name: "i32"}, {Name: "i32"}})

	got, status := c.ResolveFn("add", []*TypeDesc{{Name: "i32"}, {Name: "i32"}})
	if status != Resolved || got != fn {
		t.Fatalf("ResolveFn() = (%v, %v), want exact mangled match", got, status)
	}
}
