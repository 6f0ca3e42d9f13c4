package ast

import (
	"fmt"
	"strings"
)

// DebugPrinter renders a File back to a readable approximation of its
// source, indented by nesting level. It is used by the driver's
// --dump-ast flag and by parser tests that assert on the printed shape of
// a parse instead of hand-building expected trees.
type DebugPrinter struct {
	sb     strings.Builder
	indent int
}

// NewDebugPrinter returns an empty DebugPrinter.
func NewDebugPrinter() *DebugPrinter { return &DebugPrinter{} }

// String returns everything written so far.
func (d *DebugPrinter) String() string { return d.sb.String() }

// Print writes f's declarations to the printer.
func (d *DebugPrinter) Print(f *File) {
	for _, decl := range f.Decls {
		decl.Accept(d)
	}
}

func (d *DebugPrinter) line(format string, args ...any) {
	d.sb.WriteString(strings.Repeat("  ", d.indent))
	fmt.Fprintf(&d.sb, format, args...)
	d.sb.WriteString("\n")
}

func (d *DebugPrinter) nested(n Node) {
	d.indent++
	n.Accept(d)
	d.indent--
}

func (d *DebugPrinter) VisitBlock(n *Block) {
	d.line("block:")
	for _, s := range n.Stmts {
		d.nested(s)
	}
}

func (d *DebugPrinter) VisitString(n *String)   { d.line("string: %q", n.Value) }
func (d *DebugPrinter) VisitNumber(n *Number) {
	if n.IsFloat {
		d.line("number: %v (f%d)", n.FloatValue, n.BitWidth)
	} else {
		d.line("number: %v (%s%d)", n.IntValue, signedness(n.IsSigned), n.BitWidth)
	}
}
func (d *DebugPrinter) VisitBoolean(n *Boolean) { d.line("boolean: %v", n.Value) }

func (d *DebugPrinter) VisitArray(n *Array) {
	d.line("array:")
	for _, e := range n.Elements {
		d.nested(e)
	}
}

func (d *DebugPrinter) VisitSymbol(n *Symbol) { d.line("symbol: %s", n.Name) }
func (d *DebugPrinter) VisitType(n *Type)     { d.line("type: %s", n.String()) }

func (d *DebugPrinter) VisitDec(n *Dec) {
	kw := "var"
	if n.Immutable {
		kw = "let"
	}
	d.line("%s: %s", kw, n.Name)
	if n.DeclaredType != nil {
		d.nested(n.DeclaredType)
	}
	if n.Initializer != nil {
		d.nested(n.Initializer)
	}
}

func (d *DebugPrinter) VisitIf(n *If) {
	d.line("if:")
	d.nested(n.Condition)
	d.nested(n.TrueBlock)
	if n.FalseBlock != nil {
		d.nested(n.FalseBlock)
	}
}

func (d *DebugPrinter) VisitFn(n *Fn) {
	d.line("fn: %s", n.UnmangledName)
	for _, p := range n.Params {
		d.nested(p)
	}
	if n.Body != nil {
		d.nested(n.Body)
	}
}

func (d *DebugPrinter) VisitFnCall(n *FnCall) {
	d.line("call: %s", n.Name)
	for _, a := range n.Args {
		d.nested(a)
	}
}

func (d *DebugPrinter) VisitLoop(n *Loop) {
	if n.IsForeach {
		d.line("loop: %s in", n.IterName)
	} else {
		d.line("loop:")
	}
	d.nested(n.Expr)
	d.nested(n.Body)
}

func (d *DebugPrinter) VisitContinue(n *Continue) { d.line("continue") }
func (d *DebugPrinter) VisitBreak(n *Break)       { d.line("break") }

func (d *DebugPrinter) VisitStruct(n *Struct) {
	d.line("struct: %s", n.Name)
	d.nested(n.Fields)
}

func (d *DebugPrinter) VisitImpl(n *Impl) {
	d.line("impl: %s", n.TargetType)
	d.nested(n.Members)
}

func (d *DebugPrinter) VisitAttribute(n *Attribute) {
	d.line("attribute: %s", n.Name)
	for _, a := range n.Args {
		d.nested(a)
	}
}

func (d *DebugPrinter) VisitAffix(n *Affix) {
	d.line("affix(%d): %s", n.FixKind, n.Operator)
	for _, p := range n.Params {
		d.nested(p)
	}
	if n.Body != nil {
		d.nested(n.Body)
	}
}

func (d *DebugPrinter) VisitUnaryExpr(n *UnaryExpr) {
	d.line("unary: %s", n.Operator)
	d.nested(n.Operand)
}

func (d *DebugPrinter) VisitBinaryExpr(n *BinaryExpr) {
	d.line("binary: %s", n.Operator)
	d.nested(n.Lhs)
	d.nested(n.Rhs)
}

func (d *DebugPrinter) VisitIndex(n *Index) {
	d.line("index:")
	d.nested(n.Array)
	d.nested(n.IndexExpr)
}

func (d *DebugPrinter) VisitReturn(n *Return) {
	d.line("return:")
	if n.Value != nil {
		d.nested(n.Value)
	}
}

func (d *DebugPrinter) VisitExtern(n *Extern) {
	d.line("extern:")
	for _, fn := range n.Decls {
		d.nested(fn)
	}
}

func (d *DebugPrinter) VisitUse(n *Use)       { d.line("use: %s", n.Namespace) }
func (d *DebugPrinter) VisitNamespace(n *Namespace) {
	d.line("namespace: %s", n.Name)
	d.nested(n.Block)
}

func (d *DebugPrinter) VisitExprStmt(n *ExprStmt) { d.nested(n.X) }

func signedness(signed bool) string {
	if signed {
		return "i"
	}
	return "u"
}
