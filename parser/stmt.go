package parser

import (
	"duskc/ast"
	"duskc/token"
)

func (p *Parser) parseBlock() *ast.Block {
	lbrace := p.expect(token.LBRACE)
	var stmts []ast.Stmt

	for !p.checkAny(token.RBRACE, token.EOF) {
		s := p.parseStmt()
		if s != nil {
			stmts = append(stmts, s)
		}
	}

	rbrace := p.expect(token.RBRACE)
	return ast.NewBlock(lbrace.Pos, rbrace.EndPos, stmts)
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case token.KW_VAR, token.KW_LET:
		d := p.parseDec()
		p.consumeStmtEnd()
		return d
	case token.KW_IF:
		return p.parseIf()
	case token.KW_LOOP:
		return p.parseLoop()
	case token.KW_RETURN:
		return p.parseReturn()
	case token.KW_CONTINUE:
		return p.parseContinue()
	case token.KW_BREAK:
		return p.parseBreak()
	case token.LBRACE:
		return p.parseBlock()
	}

	start := p.cur().Pos
	expr := p.parseExpr()
	end := p.prev().EndPos
	p.consumeStmtEnd()
	return ast.NewExprStmt(start, end, expr)
}

func (p *Parser) parseIf() *ast.If {
	start := p.expect(token.KW_IF).Pos
	cond := p.parseExpr()
	trueBlock := p.parseBlock()

	var falseBlock *ast.Block
	end := trueBlock.End()
	if _, ok := p.accept(token.KW_ELSE); ok {
		if p.check(token.KW_IF) {
			nested := p.parseIf()
			falseBlock = ast.NewBlock(nested.Pos(), nested.End(), []ast.Stmt{nested})
		} else {
			falseBlock = p.parseBlock()
		}
		end = falseBlock.End()
	}

	return ast.NewIf(start, end, cond, trueBlock, falseBlock)
}

// parseLoop covers both `loop cond { }` and the foreach form
// `loop x in expr { }`, optionally prefixed with a `label:`.
func (p *Parser) parseLoop() *ast.Loop {
	var label string
	if p.check(token.IDENT) && p.peekAt(1).Kind == token.COLON {
		label = p.advance().Lexeme
		p.advance() // ':'
	}

	start := p.expect(token.KW_LOOP).Pos

	isForeach := false
	iterName := ""
	if p.check(token.IDENT) && p.peekAt(1).Kind == token.KW_IN {
		iter := p.advance()
		p.advance() // 'in'
		isForeach = true
		iterName = iter.Lexeme
	}

	expr := p.parseExpr()
	body := p.parseBlock()

	loop := ast.NewLoop(start, body.End())
	loop.Label = label
	loop.IsForeach = isForeach
	loop.IterName = iterName
	loop.Expr = expr
	loop.Body = body
	return loop
}

func (p *Parser) parseReturn() *ast.Return {
	start := p.expect(token.KW_RETURN).Pos
	end := p.prev().EndPos

	var value ast.Expr
	if !p.check(token.SEMI) {
		value = p.parseExpr()
		end = p.prev().EndPos
	}

	p.consumeStmtEnd()
	return ast.NewReturn(start, end, value)
}

func (p *Parser) parseContinue() *ast.Continue {
	start := p.expect(token.KW_CONTINUE).Pos
	end := p.prev().EndPos
	var label string
	if t, ok := p.accept(token.IDENT); ok {
		label = t.Lexeme
		end = t.EndPos
	}
	p.consumeStmtEnd()
	return ast.NewContinue(start, end, label)
}

func (p *Parser) parseBreak() *ast.Break {
	start := p.expect(token.KW_BREAK).Pos
	end := p.prev().EndPos
	var label string
	if t, ok := p.accept(token.IDENT); ok {
		label = t.Lexeme
		end = t.EndPos
	}
	p.consumeStmtEnd()
	return ast.NewBreak(start, end, label)
}
