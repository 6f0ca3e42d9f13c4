package ast

// Visitor is implemented by codegen's Emitter and by DebugPrinter; the
// semantic passes in package sema use (pass, kind) handler tables instead.
// Accept methods only forward to the matching Visit call, they never
// recurse themselves — that responsibility belongs to whichever Visitor is
// walking the tree.
type Visitor interface {
	VisitBlock(n *Block)
	VisitString(n *String)
	VisitNumber(n *Number)
	VisitBoolean(n *Boolean)
	VisitArray(n *Array)
	VisitSymbol(n *Symbol)
	VisitType(n *Type)
	VisitDec(n *Dec)
	VisitIf(n *If)
	VisitFn(n *Fn)
	VisitFnCall(n *FnCall)
	VisitLoop(n *Loop)
	VisitContinue(n *Continue)
	VisitBreak(n *Break)
	VisitStruct(n *Struct)
	VisitImpl(n *Impl)
	VisitAttribute(n *Attribute)
	VisitAffix(n *Affix)
	VisitUnaryExpr(n *UnaryExpr)
	VisitBinaryExpr(n *BinaryExpr)
	VisitIndex(n *Index)
	VisitReturn(n *Return)
	VisitExtern(n *Extern)
	VisitUse(n *Use)
	VisitNamespace(n *Namespace)
	VisitExprStmt(n *ExprStmt)
}

func (n *Block) Accept(v Visitor)      { v.VisitBlock(n) }
func (n *String) Accept(v Visitor)     { v.VisitString(n) }
func (n *Number) Accept(v Visitor)     { v.VisitNumber(n) }
func (n *Boolean) Accept(v Visitor)    { v.VisitBoolean(n) }
func (n *Array) Accept(v Visitor)      { v.VisitArray(n) }
func (n *Symbol) Accept(v Visitor)     { v.VisitSymbol(n) }
func (n *Type) Accept(v Visitor)       { v.VisitType(n) }
func (n *Dec) Accept(v Visitor)        { v.VisitDec(n) }
func (n *If) Accept(v Visitor)         { v.VisitIf(n) }
func (n *Fn) Accept(v Visitor)         { v.VisitFn(n) }
func (n *FnCall) Accept(v Visitor)     { v.VisitFnCall(n) }
func (n *Loop) Accept(v Visitor)       { v.VisitLoop(n) }
func (n *Continue) Accept(v Visitor)   { v.VisitContinue(n) }
func (n *Break) Accept(v Visitor)      { v.VisitBreak(n) }
func (n *Struct) Accept(v Visitor)     { v.VisitStruct(n) }
func (n *Impl) Accept(v Visitor)       { v.VisitImpl(n) }
func (n *Attribute) Accept(v Visitor)  { v.VisitAttribute(n) }
func (n *Affix) Accept(v Visitor)      { v.VisitAffix(n) }
func (n *UnaryExpr) Accept(v Visitor)  { v.VisitUnaryExpr(n) }
func (n *BinaryExpr) Accept(v Visitor) { v.VisitBinaryExpr(n) }
func (n *Index) Accept(v Visitor)      { v.VisitIndex(n) }
func (n *Return) Accept(v Visitor)     { v.VisitReturn(n) }
func (n *Extern) Accept(v Visitor)     { v.VisitExtern(n) }
func (n *Use) Accept(v Visitor)        { v.VisitUse(n) }
func (n *Namespace) Accept(v Visitor)  { v.VisitNamespace(n) }
func (n *ExprStmt) Accept(v Visitor)   { v.VisitExprStmt(n) }

// BaseVisitor implements Visitor with no-op methods so a pass only needs to
// override the node kinds it cares about; it is embedded by codegen's
// Emitter.
type BaseVisitor struct{}

func (BaseVisitor) VisitBlock(n *Block)           {}
func (BaseVisitor) VisitString(n *String)         {}
func (BaseVisitor) VisitNumber(n *Number)         {}
func (BaseVisitor) VisitBoolean(n *Boolean)       {}
func (BaseVisitor) VisitArray(n *Array)           {}
func (BaseVisitor) VisitSymbol(n *Symbol)         {}
func (BaseVisitor) VisitType(n *Type)             {}
func (BaseVisitor) VisitDec(n *Dec)               {}
func (BaseVisitor) VisitIf(n *If)                 {}
func (BaseVisitor) VisitFn(n *Fn)                 {}
func (BaseVisitor) VisitFnCall(n *FnCall)         {}
func (BaseVisitor) VisitLoop(n *Loop)             {}
func (BaseVisitor) VisitContinue(n *Continue)     {}
func (BaseVisitor) VisitBreak(n *Break)           {}
func (BaseVisitor) VisitStruct(n *Struct)         {}
func (BaseVisitor) VisitImpl(n *Impl)             {}
func (BaseVisitor) VisitAttribute(n *Attribute)   {}
func (BaseVisitor) VisitAffix(n *Affix)           {}
func (BaseVisitor) VisitUnaryExpr(n *UnaryExpr)   {}
func (BaseVisitor) VisitBinaryExpr(n *BinaryExpr) {}
func (BaseVisitor) VisitIndex(n *Index)           {}
func (BaseVisitor) VisitReturn(n *Return)         {}
func (BaseVisitor) VisitExtern(n *Extern)         {}
func (BaseVisitor) VisitUse(n *Use)               {}
func (BaseVisitor) VisitNamespace(n *Namespace)   {}
func (BaseVisitor) VisitExprStmt(n *ExprStmt)     {}
