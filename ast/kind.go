package ast

// Kind identifies a node's variant without a type switch, so the pass
// framework in package sema can key its
// (pass, kind) → handler tables on a plain comparable value.
type Kind int

const (
	KindBlock Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindArray
	KindSymbol
	KindType
	KindDec
	KindIf
	KindFn
	KindFnCall
	KindLoop
	KindContinue
	KindBreak
	KindStruct
	KindImpl
	KindAttribute
	KindAffix
	KindUnaryExpr
	KindBinaryExpr
	KindIndex
	KindReturn
	KindExtern
	KindUse
	KindNamespace
	KindExprStmt
)

func (k Kind) String() string {
	names := [...]string{
		"Block", "String", "Number", "Boolean", "Array", "Symbol", "Type",
		"Dec", "If", "Fn", "FnCall", "Loop", "Continue", "Break", "Struct",
		"Impl", "Attribute", "Affix", "UnaryExpr", "BinaryExpr", "Index",
		"Return", "Extern", "Use", "Namespace", "ExprStmt",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// Kinder is implemented by every AST node so the framework can look up
// handlers without a type switch.
type Kinder interface{ Kind() Kind }

func (*Block) Kind() Kind      { return KindBlock }
func (*String) Kind() Kind     { return KindString }
func (*Number) Kind() Kind     { return KindNumber }
func (*Boolean) Kind() Kind    { return KindBoolean }
func (*Array) Kind() Kind      { return KindArray }
func (*Symbol) Kind() Kind     { return KindSymbol }
func (*Type) Kind() Kind       { return KindType }
func (*Dec) Kind() Kind        { return KindDec }
func (*If) Kind() Kind         { return KindIf }
func (*Fn) Kind() Kind         { return KindFn }
func (*FnCall) Kind() Kind     { return KindFnCall }
func (*Loop) Kind() Kind       { return KindLoop }
func (*Continue) Kind() Kind   { return KindContinue }
func (*Break) Kind() Kind      { return KindBreak }
func (*Struct) Kind() Kind     { return KindStruct }
func (*Impl) Kind() Kind       { return KindImpl }
func (*Attribute) Kind() Kind  { return KindAttribute }
func (*Affix) Kind() Kind      { return KindAffix }
func (*UnaryExpr) Kind() Kind  { return KindUnaryExpr }
func (*BinaryExpr) Kind() Kind { return KindBinaryExpr }
func (*Index) Kind() Kind      { return KindIndex }
func (*Return) Kind() Kind     { return KindReturn }
func (*Extern) Kind() Kind     { return KindExtern }
func (*Use) Kind() Kind        { return KindUse }
func (*Namespace) Kind() Kind  { return KindNamespace }
func (*ExprStmt) Kind() Kind   { return KindExprStmt }
