package parser

import (
	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/token"
)

func (p *Parser) parseBlock() []ast.Statement {
	var stmts []ast.Statement
	p.next() // move past '{'
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		p.next()
	}
	return stmts
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.RETURN:
		return p.parseReturn()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.FALLTHROUGH:
		return &ast.Fallthrough{Token: p.cur}
	case token.IDENT:
		if p.peekIs(token.ASSIGN_LOCAL) || p.peekIs(token.ASSIGN_FAR) || p.peekIs(token.ASSIGN_ALIEN) {
			return p.parseAssignment()
		}
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		return &ast.ExprStatement{Value: expr}
	default:
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		return &ast.ExprStatement{Value: expr}
	}
}

func (p *Parser) parseAssignment() *ast.Assignment {
	sym := &ast.Symbol{Token: p.cur, Name: p.cur.Lexeme}
	tok := p.cur
	p.next() // move to assign operator

	kind := ast.ScopeLocal
	switch p.cur.Type {
	case token.ASSIGN_FAR:
		kind = ast.ScopeFar
	case token.ASSIGN_ALIEN:
		kind = ast.ScopeAlien
	}

	p.next() // move to value expression
	value := p.parseExpression(LOWEST)
	return &ast.Assignment{Token: tok, Sym: sym, Value: value, Kind: kind}
}

func (p *Parser) parseReturn() *ast.Return {
	tok := p.cur
	p.next()
	expr := p.parseExpression(LOWEST)
	return &ast.Return{Token: tok, Expr: expr}
}

func (p *Parser) parseFor() *ast.For {
	tok := p.cur
	if !p.expect(token.IDENT) {
		return nil
	}
	sym := &ast.Symbol{Token: p.cur, Name: p.cur.Lexeme}
	if !p.expect(token.IN) {
		return nil
	}
	p.next()
	iterable := p.parseExpression(LOWEST)
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return &ast.For{Token: tok, Sym: sym, Iterable: iterable, Body: body}
}

func (p *Parser) parseWhile() *ast.While {
	tok := p.cur
	p.next()
	cond := p.parseExpression(LOWEST)
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return &ast.While{Token: tok, Cond: cond, Body: body}
}
