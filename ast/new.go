package ast

import "duskc/token"

// The New* constructors set each node's position span via base and leave
// the emit flag at its default (true). The parser fills in the remaining
// fields directly since Go has no named-constructor overloading; keeping
// position plumbing in one place avoids copy-pasting newBase everywhere.

func NewBlock(pos, end token.Pos, stmts []Stmt) *Block {
	return &Block{base: newBase(pos, end), Stmts: stmts}
}

func NewString(pos, end token.Pos, value string) *String {
	return &String{base: newBase(pos, end), Value: value}
}

func NewNumber(pos, end token.Pos) *Number {
	return &Number{base: newBase(pos, end)}
}

func NewBoolean(pos, end token.Pos, value bool) *Boolean {
	return &Boolean{base: newBase(pos, end), Value: value}
}

func NewArray(pos, end token.Pos, elems []Expr) *Array {
	return &Array{base: newBase(pos, end), Elements: elems}
}

func NewSymbol(pos, end token.Pos, name string) *Symbol {
	return &Symbol{base: newBase(pos, end), Name: name}
}

func NewType(pos, end token.Pos, name string) *Type {
	return &Type{base: newBase(pos, end), Name: name}
}

func NewArrayType(pos, end token.Pos, subtype *Type) *Type {
	return &Type{base: newBase(pos, end), IsArray: true, Subtype: subtype}
}

func NewDec(pos, end token.Pos, name string, immutable bool) *Dec {
	return &Dec{base: newBase(pos, end), Name: name, Immutable: immutable}
}

func NewIf(pos, end token.Pos, cond Expr, trueBlock, falseBlock *Block) *If {
	return &If{base: newBase(pos, end), Condition: cond, TrueBlock: trueBlock, FalseBlock: falseBlock}
}

func NewFn(pos, end token.Pos, name string) *Fn {
	return &Fn{base: newBase(pos, end), UnmangledName: name}
}

func NewFnCall(pos, end token.Pos, name string, args []Expr) *FnCall {
	return &FnCall{base: newBase(pos, end), Name: name, Args: args}
}

func NewLoop(pos, end token.Pos) *Loop {
	return &Loop{base: newBase(pos, end)}
}

func NewContinue(pos, end token.Pos, label string) *Continue {
	return &Continue{base: newBase(pos, end), Label: label}
}

func NewBreak(pos, end token.Pos, label string) *Break {
	return &Break{base: newBase(pos, end), Label: label}
}

func NewStruct(pos, end token.Pos, name string, fields *Block) *Struct {
	return &Struct{base: newBase(pos, end), Name: name, Fields: fields}
}

func NewImpl(pos, end token.Pos, target string, members *Block) *Impl {
	return &Impl{base: newBase(pos, end), TargetType: target, Members: members}
}

func NewAttribute(pos, end token.Pos, name string, args []Expr) *Attribute {
	return &Attribute{base: newBase(pos, end), Name: name, Args: args}
}

func NewAffix(pos, end token.Pos, kind AffixKind, operator string) *Affix {
	return &Affix{base: newBase(pos, end), FixKind: kind, Operator: operator, UnmangledName: operator}
}

func NewUnaryExpr(pos, end token.Pos, op string, operand Expr, suffix bool) *UnaryExpr {
	return &UnaryExpr{base: newBase(pos, end), Operator: op, Operand: operand, Suffix: suffix}
}

func NewBinaryExpr(pos, end token.Pos, op string, lhs, rhs Expr) *BinaryExpr {
	return &BinaryExpr{base: newBase(pos, end), Operator: op, Lhs: lhs, Rhs: rhs}
}

func NewIndex(pos, end token.Pos, arr, idx Expr) *Index {
	return &Index{base: newBase(pos, end), Array: arr, IndexExpr: idx}
}

func NewReturn(pos, end token.Pos, value Expr) *Return {
	return &Return{base: newBase(pos, end), Value: value}
}

func NewExtern(pos, end token.Pos, decls []*Fn) *Extern {
	return &Extern{base: newBase(pos, end), Decls: decls}
}

func NewUse(pos, end token.Pos, namespace string) *Use {
	return &Use{base: newBase(pos, end), Namespace: namespace}
}

func NewNamespace(pos, end token.Pos, name string, block *Block) *Namespace {
	return &Namespace{base: newBase(pos, end), Name: name, Block: block}
}

func NewExprStmt(pos, end token.Pos, x Expr) *ExprStmt {
	return &ExprStmt{base: newBase(pos, end), X: x}
}
