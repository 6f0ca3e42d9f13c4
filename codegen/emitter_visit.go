package codegen

import "duskc/ast"

func (e *Emitter) VisitBlock(n *ast.Block) {
	e.frames.push()
	for _, s := range n.Stmts {
		if !s.Emit() {
			continue
		}
		s.Accept(e)
	}
	e.frames.pop()
}

func (e *Emitter) VisitString(n *ast.String) {
	e.buf.writeByte(byte(OpPushStr))
	e.buf.writeStr(n.Value)
}

func (e *Emitter) VisitNumber(n *ast.Number) {
	if n.IsFloat {
		e.buf.writeByte(byte(OpPushF64))
		e.buf.writeF64(n.FloatValue)
		return
	}
	e.buf.writeByte(byte(OpPushI64))
	e.buf.writeI64(int64(n.IntValue))
}

func (e *Emitter) VisitBoolean(n *ast.Boolean) {
	e.buf.writeByte(byte(OpPushI64))
	if n.Value {
		e.buf.writeI64(1)
	} else {
		e.buf.writeI64(0)
	}
}

func (e *Emitter) VisitArray(n *ast.Array) {
	for _, elem := range n.Elements {
		elem.Accept(e)
	}
	e.buf.writeByte(byte(OpArrayNew))
	e.buf.writeU32(uint32(len(n.Elements)))
}

func (e *Emitter) VisitSymbol(n *ast.Symbol) {
	slot, ok := e.frames.resolve(n.Name)
	if !ok {
		// Unresolved after analysis means an earlier diagnostic already
		// fired; emit a stable placeholder so the byte stream stays well
		// formed for whatever wants to inspect it.
		slot = 0
	}
	e.buf.writeByte(byte(OpLoadLocal))
	e.buf.writeU16(slot)
}

func (e *Emitter) VisitDec(n *ast.Dec) {
	slot := e.frames.declare(n.Name)
	if n.Initializer != nil {
		n.Initializer.Accept(e)
	} else {
		e.buf.writeByte(byte(OpPushI64))
		e.buf.writeI64(0)
	}
	e.buf.writeByte(byte(OpStoreLocal))
	e.buf.writeU16(slot)
}

func (e *Emitter) VisitIf(n *ast.If) {
	elseLabel := e.newLabel("else")
	endLabel := e.newLabel("endif")

	n.Condition.Accept(e)
	e.buf.writeBranch(OpBranchIfFalse, elseLabel)
	n.TrueBlock.Accept(e)
	e.buf.writeBranch(OpBranch, endLabel)
	e.buf.defineLabel(elseLabel)
	if n.FalseBlock != nil {
		n.FalseBlock.Accept(e)
	}
	e.buf.defineLabel(endLabel)
}

func (e *Emitter) VisitLoop(n *ast.Loop) {
	if n.IsForeach {
		e.emitForeach(n)
		return
	}

	topLabel := e.newLabel("looptop")
	endLabel := e.newLabel("loopend")
	e.loopLabels = append(e.loopLabels, loopLabel{name: n.Label, top: topLabel, end: endLabel})
	defer func() { e.loopLabels = e.loopLabels[:len(e.loopLabels)-1] }()

	e.buf.defineLabel(topLabel)
	n.Expr.Accept(e)
	e.buf.writeBranch(OpBranchIfFalse, endLabel)
	n.Body.Accept(e)
	e.buf.writeBranch(OpBranch, topLabel)
	e.buf.defineLabel(endLabel)
}

// emitForeach lowers `loop x in expr { }` into an index-counted loop over
// a literal array's known element count. The IL opcode set this package
// targets has no array-length or iterator-next primitive, so a foreach
// whose iterable isn't a literal array is rejected earlier during analysis
// (see analyzeForeachIterable) rather than emitted as bytecode that would
// silently do the wrong thing.
func (e *Emitter) emitForeach(n *ast.Loop) {
	arr, ok := n.Expr.(*ast.Array)
	if !ok {
		return
	}

	topLabel := e.newLabel("looptop")
	endLabel := e.newLabel("loopend")
	e.loopLabels = append(e.loopLabels, loopLabel{name: n.Label, top: topLabel, end: endLabel})
	defer func() { e.loopLabels = e.loopLabels[:len(e.loopLabels)-1] }()

	e.frames.push()
	idxSlot := e.frames.declare("$idx")
	iterSlot := e.frames.declare(n.IterName)

	e.buf.writeByte(byte(OpPushI64))
	e.buf.writeI64(0)
	e.buf.writeByte(byte(OpStoreLocal))
	e.buf.writeU16(idxSlot)

	e.buf.defineLabel(topLabel)
	e.buf.writeByte(byte(OpLoadLocal))
	e.buf.writeU16(idxSlot)
	e.buf.writeByte(byte(OpPushI64))
	e.buf.writeI64(int64(len(arr.Elements)))
	e.buf.writeByte(byte(OpBinop))
	e.buf.writeByte(byte(BinLt))
	e.buf.writeBranch(OpBranchIfFalse, endLabel)

	arr.Accept(e)
	e.buf.writeByte(byte(OpLoadLocal))
	e.buf.writeU16(idxSlot)
	e.buf.writeByte(byte(OpIndexLoad))
	e.buf.writeByte(byte(OpStoreLocal))
	e.buf.writeU16(iterSlot)

	n.Body.Accept(e)

	e.buf.writeByte(byte(OpLoadLocal))
	e.buf.writeU16(idxSlot)
	e.buf.writeByte(byte(OpPushI64))
	e.buf.writeI64(1)
	e.buf.writeByte(byte(OpBinop))
	e.buf.writeByte(byte(BinAdd))
	e.buf.writeByte(byte(OpStoreLocal))
	e.buf.writeU16(idxSlot)
	e.buf.writeBranch(OpBranch, topLabel)
	e.buf.defineLabel(endLabel)
	e.frames.pop()
}

func (e *Emitter) VisitContinue(n *ast.Continue) {
	target := e.resolveLoopLabel(n.Label)
	if target != nil {
		e.buf.writeBranch(OpBranch, target.top)
	}
}

func (e *Emitter) VisitBreak(n *ast.Break) {
	target := e.resolveLoopLabel(n.Label)
	if target != nil {
		e.buf.writeBranch(OpBranch, target.end)
	}
}

func (e *Emitter) resolveLoopLabel(label string) *loopLabel {
	if label == "" {
		if len(e.loopLabels) == 0 {
			return nil
		}
		return &e.loopLabels[len(e.loopLabels)-1]
	}
	for i := len(e.loopLabels) - 1; i >= 0; i-- {
		if e.loopLabels[i].name == label {
			return &e.loopLabels[i]
		}
	}
	return nil
}

func (e *Emitter) VisitUnaryExpr(n *ast.UnaryExpr) {
	n.Operand.Accept(e)
	if kind, ok := unKindByOp[n.Operator]; ok {
		e.buf.writeByte(byte(OpUnop))
		e.buf.writeByte(byte(kind))
		return
	}
	// No built-in match: analysis already rewrote Operator to the
	// resolved affix's mangled name.
	e.emitCallByName(n.Operator, 1)
}

func (e *Emitter) VisitBinaryExpr(n *ast.BinaryExpr) {
	if n.Mangled {
		n.Lhs.Accept(e)
		n.Rhs.Accept(e)
		e.emitCallByName(n.Operator, 2)
		return
	}

	if n.Operator == "=" {
		e.emitAssign(n)
		return
	}

	n.Lhs.Accept(e)
	n.Rhs.Accept(e)
	kind := binKindByOp[n.Operator]
	e.buf.writeByte(byte(OpBinop))
	e.buf.writeByte(byte(kind))
}

func (e *Emitter) emitAssign(n *ast.BinaryExpr) {
	sym, ok := n.Lhs.(*ast.Symbol)
	if !ok {
		n.Rhs.Accept(e)
		return
	}
	n.Rhs.Accept(e)
	slot, _ := e.frames.resolve(sym.Name)
	e.buf.writeByte(byte(OpStoreLocal))
	e.buf.writeU16(slot)
}

func (e *Emitter) VisitIndex(n *ast.Index) {
	n.Array.Accept(e)
	n.IndexExpr.Accept(e)
	e.buf.writeByte(byte(OpIndexLoad))
}

func (e *Emitter) VisitReturn(n *ast.Return) {
	if n.Value != nil {
		n.Value.Accept(e)
	}
	e.buf.writeByte(byte(OpReturn))
}

func (e *Emitter) VisitFnCall(n *ast.FnCall) {
	for _, arg := range n.Args {
		arg.Accept(e)
	}
	e.emitCallByName(n.Name, len(n.Args))
}

func (e *Emitter) emitCallByName(mangledName string, _ int) {
	id, ok := e.funcIDs[mangledName]
	if !ok {
		return // unresolved call: a prior analysis diagnostic already fired
	}
	if e.extern[mangledName] {
		e.buf.writeByte(byte(OpExternCall))
	} else {
		e.buf.writeByte(byte(OpCall))
	}
	e.buf.writeU32(id)
}

func (e *Emitter) VisitExprStmt(n *ast.ExprStmt) { n.X.Accept(e) }
