// Package parser turns a token stream into a duskc/ast.File. It is a
// top-down recursive-descent parser for statements and declarations, and a
// Pratt (precedence-climbing) parser for expressions. Parse is a pure
// function of its token slice: every file is parsed exactly once by the
// driver, never twice-and-discard (see the single-pass Redesign Flag).
package parser

import (
	"duskc/ast"
	"duskc/diag"
	"duskc/token"
)

// Parser holds the mutable cursor state of a single parse. It is not
// reused across files.
type Parser struct {
	file   *token.File
	toks   []token.Token // significant tokens only: whitespace/comments filtered
	pos    int
	errors diag.List
}

// New constructs a Parser over toks, which may include whitespace and
// comment tokens straight from the lexer; New filters them out.
func New(file *token.File, toks []token.Token) *Parser {
	sig := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.WHITESPACE || t.Kind == token.COMMENT {
			continue
		}
		sig = append(sig, t)
	}
	return &Parser{file: file, toks: sig}
}

// Parse consumes the token stream and returns the resulting File along
// with any syntactic errors recorded during the parse.
func Parse(file *token.File, toks []token.Token) (*ast.File, *diag.List) {
	p := New(file, toks)
	f := p.parseFile()
	return f, &p.errors
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.eofToken()
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.eofToken()
	}
	return p.toks[i]
}

func (p *Parser) eofToken() token.Token {
	if len(p.toks) == 0 {
		return token.Token{Kind: token.EOF}
	}
	last := p.toks[len(p.toks)-1]
	return token.Token{Kind: token.EOF, Pos: last.EndPos, EndPos: last.EndPos}
}

func (p *Parser) prev() token.Token {
	if p.pos == 0 {
		return p.cur()
	}
	return p.toks[p.pos-1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) check(kind token.Kind) bool { return p.cur().Kind == kind }

func (p *Parser) checkAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) accept(kind token.Kind) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// expect consumes the current token if it has the given kind; otherwise it
// records a syntax error and returns the current token without consuming
// it. The parser does not
// stop: callers keep building as much of the tree as they can.
func (p *Parser) expect(kind token.Kind) token.Token {
	if t, ok := p.accept(kind); ok {
		return t
	}
	t := p.cur()
	p.errAt(t.Pos, t.EndPos, "unexpected token %q", t.Lexeme)
	return t
}

func (p *Parser) errAt(pos, end token.Pos, format string, args ...any) {
	p.errors.Errorf(diag.Syntactic, "UnexpectedToken", pos, end, format, args...)
}

func (p *Parser) errHere(format string, args ...any) {
	t := p.cur()
	p.errAt(t.Pos, t.EndPos, format, args...)
}

// sync recovers from a syntax error by skipping tokens until it finds a
// statement terminator or a closing brace. A ';' is consumed; a '}' is
// left unconsumed so the enclosing block can close on it.
func (p *Parser) sync() {
	for !p.check(token.EOF) {
		if p.cur().Kind == token.SEMI {
			p.advance()
			return
		}
		if p.checkAny(token.RBRACE) {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseFile() *ast.File {
	f := &ast.File{}
	if p.file != nil {
		f.Name = p.file.Name
	}

	for !p.check(token.EOF) {
		before := p.pos
		decl := p.parseTopDeclWithAttrs()
		if decl != nil {
			f.Decls = append(f.Decls, decl)
		}
		if p.pos == before {
			// A stray closing brace at top level: sync() stops at RBRACE
			// without consuming it (so block-level recovery can see it),
			// which would otherwise spin here forever.
			p.advance()
		}
	}

	return f
}
