// Package codegen lowers an analyzed AST into the IL byte stream: a flat,
// little-endian sequence of typed opcodes with labels resolved to relative
// byte offsets before the stream is written out.
package codegen

// Op is one IL opcode byte, per the wire table this package implements
// byte-for-byte.
type Op byte

const (
	OpPushI64 Op = 0x01
	OpPushF64 Op = 0x02
	OpPushStr Op = 0x03

	OpLoadLocal  Op = 0x10
	OpStoreLocal Op = 0x11

	OpCall       Op = 0x20
	OpExternCall Op = 0x21
	OpReturn     Op = 0x22

	OpBranch        Op = 0x30
	OpBranchIfFalse Op = 0x31

	OpBinop Op = 0x40
	OpUnop  Op = 0x41

	OpArrayNew   Op = 0x50
	OpIndexLoad  Op = 0x51
	OpIndexStore Op = 0x52
)

// BinKind is the operator byte that follows OpBinop, keyed by (operator,
// operand scalar type) collapsed to the operator alone: the VM's binop
// handler dispatches further on the operand types pushed on the stack.
type BinKind byte

const (
	BinAdd BinKind = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinAnd
	BinOr
	BinEq
	BinNeq
	BinLt
	BinGt
	BinLte
	BinGte
	BinLogicalAnd
	BinLogicalOr
	BinAssign
)

var binKindByOp = map[string]BinKind{
	"+": BinAdd, "-": BinSub, "*": BinMul, "/": BinDiv, "%": BinMod,
	"&": BinAnd, "|": BinOr,
	"==": BinEq, "!=": BinNeq, "<": BinLt, ">": BinGt, "<=": BinLte, ">=": BinGte,
	"&&": BinLogicalAnd, "||": BinLogicalOr,
	"=": BinAssign,
}

// UnKind is the operator byte that follows OpUnop.
type UnKind byte

const (
	UnNeg UnKind = iota
	UnNot
	UnAddr
)

var unKindByOp = map[string]UnKind{
	"-": UnNeg, "!": UnNot, "&": UnAddr,
}
