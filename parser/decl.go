package parser

import (
	"duskc/ast"
	"duskc/token"
)

// parseTopDeclWithAttrs parses zero or more leading `#[attr(...)]`
// attributes and attaches them to the declaration that follows, per the
// "attributes are owned by their node" design.
func (p *Parser) parseTopDeclWithAttrs() ast.Decl {
	var attrs []*ast.Attribute
	for p.check(token.HASH) {
		attrs = append(attrs, p.parseAttribute())
	}

	decl := p.parseTopDecl()
	if decl == nil {
		return nil
	}
	for _, a := range attrs {
		decl.Attach(a)
	}
	return decl
}

func (p *Parser) parseAttribute() *ast.Attribute {
	start := p.expect(token.HASH).Pos
	p.expect(token.LBRACK)
	name := p.expect(token.IDENT)

	var args []ast.Expr
	if _, ok := p.accept(token.LPAREN); ok {
		if !p.check(token.RPAREN) {
			for {
				args = append(args, p.parseExpr())
				if _, ok := p.accept(token.COMMA); !ok {
					break
				}
			}
		}
		p.expect(token.RPAREN)
	}

	end := p.expect(token.RBRACK).EndPos
	return ast.NewAttribute(start, end, name.Lexeme, args)
}

func (p *Parser) parseTopDecl() ast.Decl {
	switch p.cur().Kind {
	case token.KW_FN:
		return p.parseFn("")
	case token.KW_STRUCT:
		return p.parseStruct()
	case token.KW_IMPL:
		return p.parseImpl()
	case token.KW_EXTERN:
		return p.parseExtern()
	case token.KW_USE:
		return p.parseUse()
	case token.KW_NAMESPACE:
		return p.parseNamespace()
	case token.KW_VAR, token.KW_LET:
		d := p.parseDec()
		p.consumeStmtEnd()
		return d
	case token.KW_INFIX, token.KW_PREFIX, token.KW_SUFFIX:
		return p.parseAffix()
	case token.EOF:
		return nil
	}

	p.errHere("expected a top-level declaration")
	p.sync()
	return nil
}

func (p *Parser) parseFn(selfType string) *ast.Fn {
	start := p.expect(token.KW_FN).Pos
	name := p.expect(token.IDENT)

	fn := ast.NewFn(start, name.EndPos, name.Lexeme)
	fn.SelfType = selfType
	fn.Params = p.parseParams()

	if _, ok := p.accept(token.ARROW); ok {
		fn.ReturnType = p.parseType()
	}

	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseAffix() *ast.Affix {
	var kind ast.AffixKind
	switch p.advance().Kind {
	case token.KW_PREFIX:
		kind = ast.Prefix
	case token.KW_SUFFIX:
		kind = ast.Suffix
	default:
		kind = ast.Infix
	}

	start := p.expect(token.KW_OP).Pos
	opTok := p.parseOperatorSymbol()

	affix := ast.NewAffix(start, opTok.EndPos, kind, opTok.Lexeme)
	affix.Params = p.parseParams()

	if _, ok := p.accept(token.ARROW); ok {
		affix.ReturnType = p.parseType()
	}

	affix.Body = p.parseBlock()
	return affix
}

// parseOperatorSymbol consumes one token naming the operator an affix
// declaration overloads. Affixes reuse the built-in operator tokens rather
// than introducing a separate symbol grammar.
func (p *Parser) parseOperatorSymbol() token.Token {
	if isOperatorToken(p.cur().Kind) {
		return p.advance()
	}
	p.errHere("expected an operator symbol")
	return p.advance()
}

func isOperatorToken(k token.Kind) bool {
	switch k {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ, token.NEQ, token.LT, token.GT, token.LTE, token.GTE,
		token.ANDAND, token.OROR, token.BANG, token.AMP, token.PIPE:
		return true
	}
	return false
}

func (p *Parser) parseParams() []*ast.Dec {
	p.expect(token.LPAREN)
	var params []*ast.Dec

	if !p.check(token.RPAREN) {
		for {
			nameTok := p.expect(token.IDENT)
			p.expect(token.COLON)
			typ := p.parseType()

			d := ast.NewDec(nameTok.Pos, typ.End(), nameTok.Lexeme, true)
			d.DeclaredType = typ
			params = append(params, d)

			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
	}

	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseType() *ast.Type {
	name := p.expect(token.IDENT)
	typ := ast.NewType(name.Pos, name.EndPos, name.Lexeme)

	for {
		lbrack, ok := p.accept(token.LBRACK)
		if !ok {
			break
		}
		rbrack := p.expect(token.RBRACK)
		typ = ast.NewArrayType(lbrack.Pos, rbrack.EndPos, typ)
	}

	return typ
}

func (p *Parser) parseDec() *ast.Dec {
	kwTok := p.advance() // 'var' or 'let', guaranteed by caller
	immutable := kwTok.Kind == token.KW_LET

	name := p.expect(token.IDENT)
	dec := ast.NewDec(kwTok.Pos, name.EndPos, name.Lexeme, immutable)

	if _, ok := p.accept(token.COLON); ok {
		dec.DeclaredType = p.parseType()
	}

	if _, ok := p.accept(token.ASSIGN); ok {
		dec.Initializer = p.parseExpr()
	}

	return dec
}

func (p *Parser) parseStruct() *ast.Struct {
	start := p.expect(token.KW_STRUCT).Pos
	name := p.expect(token.IDENT)
	fields := p.parseFieldBlock()
	return ast.NewStruct(start, fields.End(), name.Lexeme, fields)
}

// parseFieldBlock parses `{ name: Type, name: Type, ... }` and represents
// each field as a Dec statement inside the block, matching how Params are
// represented.
func (p *Parser) parseFieldBlock() *ast.Block {
	lbrace := p.expect(token.LBRACE)
	var stmts []ast.Stmt

	for !p.checkAny(token.RBRACE, token.EOF) {
		nameTok := p.expect(token.IDENT)
		p.expect(token.COLON)
		typ := p.parseType()
		d := ast.NewDec(nameTok.Pos, typ.End(), nameTok.Lexeme, true)
		d.DeclaredType = typ
		stmts = append(stmts, d)

		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}

	rbrace := p.expect(token.RBRACE)
	return ast.NewBlock(lbrace.Pos, rbrace.EndPos, stmts)
}

func (p *Parser) parseImpl() *ast.Impl {
	start := p.expect(token.KW_IMPL).Pos
	target := p.expect(token.IDENT)

	lbrace := p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for !p.checkAny(token.RBRACE, token.EOF) {
		switch p.cur().Kind {
		case token.KW_FN:
			stmts = append(stmts, p.parseFn(target.Lexeme))
		case token.KW_INFIX, token.KW_PREFIX, token.KW_SUFFIX:
			stmts = append(stmts, p.parseAffix())
		case token.KW_VAR, token.KW_LET:
			d := p.parseDec()
			p.consumeStmtEnd()
			stmts = append(stmts, d)
		default:
			p.errHere("expected fn, affix, or field in impl block")
			p.sync()
		}
	}
	rbrace := p.expect(token.RBRACE)

	members := ast.NewBlock(lbrace.Pos, rbrace.EndPos, stmts)
	return ast.NewImpl(start, rbrace.EndPos, target.Lexeme, members)
}

func (p *Parser) parseExtern() *ast.Extern {
	start := p.expect(token.KW_EXTERN).Pos
	p.expect(token.LBRACE)

	var decls []*ast.Fn
	for !p.checkAny(token.RBRACE, token.EOF) {
		fnStart := p.expect(token.KW_FN).Pos
		name := p.expect(token.IDENT)
		fn := ast.NewFn(fnStart, name.EndPos, name.Lexeme)
		fn.Params = p.parseParams()
		if _, ok := p.accept(token.ARROW); ok {
			fn.ReturnType = p.parseType()
		}
		p.consumeStmtEnd()
		decls = append(decls, fn)
	}

	end := p.expect(token.RBRACE).EndPos
	return ast.NewExtern(start, end, decls)
}

func (p *Parser) parseUse() *ast.Use {
	start := p.expect(token.KW_USE).Pos
	name := p.expect(token.IDENT)
	p.consumeStmtEnd()
	return ast.NewUse(start, name.EndPos, name.Lexeme)
}

// parseNamespace parses a namespace body as a sequence of top-level
// declarations (Fn, Struct, Impl, Extern, Use, Namespace, Dec), the same
// dispatch parseFile uses at the file root, not as a generic statement
// block: `namespace N { fn f() {} }` declares f under N's mangling prefix,
// which only makes sense for declarations, not arbitrary statements.
func (p *Parser) parseNamespace() *ast.Namespace {
	start := p.expect(token.KW_NAMESPACE).Pos
	name := p.expect(token.IDENT)

	lbrace := p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for !p.checkAny(token.RBRACE, token.EOF) {
		before := p.pos
		decl := p.parseTopDeclWithAttrs()
		if decl != nil {
			stmts = append(stmts, decl)
		}
		if p.pos == before {
			p.advance()
		}
	}
	rbrace := p.expect(token.RBRACE)

	block := ast.NewBlock(lbrace.Pos, rbrace.EndPos, stmts)
	return ast.NewNamespace(start, rbrace.EndPos, name.Lexeme, block)
}

// consumeStmtEnd requires the SEMI statement terminator, recovering by
// skipping to the next one on failure.
func (p *Parser) consumeStmtEnd() {
	if _, ok := p.accept(token.SEMI); !ok {
		p.errHere("expected ';' to end statement")
		p.sync()
	}
}
