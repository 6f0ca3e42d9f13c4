package parser

import (
	"strconv"
	"strings"

	"duskc/ast"
	"duskc/token"
)

// precedence gives the binding power of infix operator tokens. Higher
// binds tighter. Assignment is right-associative and binds loosest.
func precedence(k token.Kind) int {
	switch k {
	case token.ASSIGN, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ:
		return 1
	case token.OROR:
		return 2
	case token.ANDAND:
		return 3
	case token.EQ, token.NEQ:
		return 4
	case token.LT, token.GT, token.LTE, token.GTE:
		return 5
	case token.PLUS, token.MINUS, token.PIPE:
		return 6
	case token.STAR, token.SLASH, token.PERCENT, token.AMP:
		return 7
	}
	return 0
}

func rightAssoc(k token.Kind) bool {
	switch k {
	case token.ASSIGN, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ:
		return true
	}
	return false
}

func isInfixOp(k token.Kind) bool { return precedence(k) > 0 }

// parseExpr parses a full expression via precedence climbing, starting at
// the lowest binding power (assignment).
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	lhs := p.parseUnary()

	for {
		opTok := p.cur()
		prec := precedence(opTok.Kind)
		if prec == 0 || prec < minPrec {
			return lhs
		}

		p.advance()
		nextMin := prec + 1
		if rightAssoc(opTok.Kind) {
			nextMin = prec
		}
		rhs := p.parseBinary(nextMin)
		lhs = ast.NewBinaryExpr(lhs.Pos(), rhs.End(), opTok.Lexeme, lhs, rhs)
	}
}

// parseUnary handles prefix operators, including user-defined prefix
// affixes, which reuse the same operator tokens as built-ins.
func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Kind {
	case token.MINUS, token.BANG, token.AMP:
		opTok := p.advance()
		operand := p.parseUnary()
		return ast.NewUnaryExpr(opTok.Pos, operand.End(), opTok.Lexeme, operand, false)
	}
	return p.parseSuffix()
}

// parseSuffix parses a postfix chain of calls and indexing, then applies a
// trailing suffix-affix operator if present. Suffix operators are spelled
// with '!' immediately following a postfix expression, since the grammar
// has no separate lexical class for user-defined operator symbols.
func (p *Parser) parseSuffix() ast.Expr {
	expr := p.parsePostfix()

	for p.check(token.BANG) {
		bangTok := p.advance()
		expr = ast.NewUnaryExpr(expr.Pos(), bangTok.EndPos, bangTok.Lexeme, expr, true)
	}

	return expr
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()

	for {
		switch p.cur().Kind {
		case token.LPAREN:
			expr = p.finishCall(expr)
		case token.LBRACK:
			p.advance()
			idx := p.parseExpr()
			rbrack := p.expect(token.RBRACK)
			expr = ast.NewIndex(expr.Pos(), rbrack.EndPos, expr, idx)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	name := exprName(callee)
	p.expect(token.LPAREN)

	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			args = append(args, p.parseExpr())
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
	}

	end := p.expect(token.RPAREN).EndPos
	return ast.NewFnCall(callee.Pos(), end, name, args)
}

// exprName extracts the callee name for a FnCall: the Symbol's name, or ""
// for any other callee. parsePrimary has already joined qualified names
// (`a::b` and `a.b` alike) with '.'; semantic analysis resolves the joined
// name as written and does not split it apart.
func exprName(e ast.Expr) string {
	if sym, ok := e.(*ast.Symbol); ok {
		return sym.Name
	}
	return ""
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()

	switch t.Kind {
	case token.INT_LITERAL:
		p.advance()
		return p.makeIntLiteral(t)
	case token.FLOAT_LITERAL:
		p.advance()
		return p.makeFloatLiteral(t)
	case token.STRING_LITERAL:
		p.advance()
		return ast.NewString(t.Pos, t.EndPos, unquote(t.Lexeme))
	case token.BOOL_LITERAL:
		p.advance()
		return ast.NewBoolean(t.Pos, t.EndPos, t.Lexeme == "true")
	case token.IDENT:
		p.advance()
		name := t.Lexeme
		end := t.EndPos
		for p.check(token.COLONCOLON) || p.check(token.DOT) {
			p.advance()
			part := p.expect(token.IDENT)
			name += "." + part.Lexeme
			end = part.EndPos
		}
		return ast.NewSymbol(t.Pos, end, name)
	case token.LBRACK:
		return p.parseArrayLiteral()
	case token.LPAREN:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		return inner
	}

	p.errHere("expected an expression")
	p.advance()
	return ast.NewSymbol(t.Pos, t.EndPos, "")
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.expect(token.LBRACK).Pos
	var elems []ast.Expr
	if !p.check(token.RBRACK) {
		for {
			elems = append(elems, p.parseExpr())
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
	}
	end := p.expect(token.RBRACK).EndPos
	return ast.NewArray(start, end, elems)
}

func (p *Parser) makeIntLiteral(t token.Token) *ast.Number {
	n := ast.NewNumber(t.Pos, t.EndPos)
	lexeme, suffix := splitNumericSuffix(t.Lexeme, intSuffixNames)

	n.IsSigned = true
	n.BitWidth = 32
	n.IsUntyped = suffix == ""
	if suffix != "" {
		n.IsSigned = suffix[0] == 'i'
		n.BitWidth = ast.NumberBitWidth(bitWidthOf(suffix))
	}

	v, err := strconv.ParseUint(lexeme, 10, 64)
	if err == nil {
		n.IntValue = v
	}
	return n
}

func (p *Parser) makeFloatLiteral(t token.Token) *ast.Number {
	n := ast.NewNumber(t.Pos, t.EndPos)
	lexeme, suffix := splitNumericSuffix(t.Lexeme, floatSuffixNames)

	n.IsFloat = true
	n.BitWidth = 64
	n.IsUntyped = suffix == ""
	if suffix == "f32" {
		n.BitWidth = 32
	}

	v, err := strconv.ParseFloat(lexeme, 64)
	if err == nil {
		n.FloatValue = v
	}
	return n
}

var intSuffixNames = []string{"i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64"}
var floatSuffixNames = []string{"f32", "f64"}

func splitNumericSuffix(lexeme string, suffixes []string) (body, suffix string) {
	for _, s := range suffixes {
		if strings.HasSuffix(lexeme, s) {
			return strings.TrimSuffix(lexeme, s), s
		}
	}
	return lexeme, ""
}

func bitWidthOf(suffix string) int {
	n, err := strconv.Atoi(suffix[1:])
	if err != nil {
		return 32
	}
	return n
}

// unquote strips the surrounding quotes and resolves the small escape set
// the lexer already validated.
func unquote(lexeme string) string {
	if len(lexeme) < 2 {
		return lexeme
	}
	body := lexeme[1 : len(lexeme)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		case '0':
			sb.WriteByte(0)
		case 'x':
			if i+2 < len(body) {
				if v, err := strconv.ParseUint(body[i+1:i+3], 16, 8); err == nil {
					sb.WriteByte(byte(v))
					i += 2
					break
				}
			}
			sb.WriteByte('x')
		default:
			sb.WriteByte(body[i])
		}
	}
	return sb.String()
}
