package parser

import (
	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/lexer"
	"github.com/hylic-lang/pleroma/internal/token"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixFns[p.cur.Type]
	if prefix == nil {
		p.errorf("no prefix parse function for %s", p.cur.Type)
		return nil
	}
	left := prefix()

	for !p.peekIs(token.EOF) && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peek.Type]
		if infix == nil {
			return left
		}
		p.next()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseNumber() ast.Expression {
	tok := p.cur
	v, err := lexer.ParseIntLiteral(tok.Lexeme)
	if err != nil {
		p.errorf("invalid integer literal %q: %v", tok.Lexeme, err)
		return nil
	}
	n := &ast.Number{Token: tok, Value: v}
	n.SetCType(typesystem.I64())
	return n
}

func (p *Parser) parseString() ast.Expression {
	tok := p.cur
	s := &ast.String{Token: tok, Value: []byte(tok.Lexeme)}
	s.SetCType(typesystem.Str())
	return s
}

func (p *Parser) parseCharLit() ast.Expression {
	tok := p.cur
	r := rune(0)
	if len(tok.Lexeme) > 0 {
		for _, c := range tok.Lexeme {
			r = c
			break
		}
	}
	c := &ast.Char{Token: tok, Value: r}
	c.SetCType(typesystem.Char())
	return c
}

func (p *Parser) parseBool() ast.Expression {
	tok := p.cur
	b := &ast.Bool{Token: tok, Value: tok.Type == token.TRUE}
	b.SetCType(typesystem.Bool())
	return b
}

func (p *Parser) parseNone() ast.Expression {
	n := &ast.None{Token: p.cur}
	n.SetCType(typesystem.NoneType())
	return n
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Symbol{Token: p.cur, Name: p.cur.Lexeme}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.next()
	exp := p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.cur
	list := &ast.List{Token: tok}
	if p.peekIs(token.RBRACKET) {
		p.next()
		return list
	}
	p.next()
	list.Elements = append(list.Elements, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.next()
		p.next()
		list.Elements = append(list.Elements, p.parseExpression(LOWEST))
	}
	if !p.expect(token.RBRACKET) {
		return nil
	}
	return list
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	p.next()
	x := p.parseExpression(PREFIX)
	return &ast.UnOp{Token: tok, Op: op, X: x}
}

func (p *Parser) parseBinOp(left ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	return &ast.BinOp{Token: tok, Op: op, Lhs: left, Rhs: right}
}

func (p *Parser) parseCompare(left ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	return &ast.Compare{Token: tok, Op: op, Lhs: left, Rhs: right}
}

func (p *Parser) parseCallExpression(target ast.Expression) ast.Expression {
	tok := p.cur
	call := &ast.Call{Token: tok, Target: target}
	call.Args = p.parseExpressionList(token.RPAREN)
	return call
}

func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression
	if p.peekIs(end) {
		p.next()
		return list
	}
	p.next()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.next()
		p.next()
		list = append(list, p.parseExpression(LOWEST))
	}
	p.expect(end)
	return list
}

func (p *Parser) parseIndexExpression(container ast.Expression) ast.Expression {
	tok := p.cur
	p.next()
	key := p.parseExpression(LOWEST)
	if !p.expect(token.RBRACKET) {
		return nil
	}
	return &ast.Index{Token: tok, Container: container, Key: key}
}

func (p *Parser) parseFieldAccess(obj ast.Expression) ast.Expression {
	tok := p.cur
	if !p.expect(token.IDENT) {
		return nil
	}
	return &ast.FieldAccess{Token: tok, Obj: obj, Name: p.cur.Lexeme}
}

// parseMessageSend handles both `target ! method(args)` (Sync) and
// `target -> method(args)` / `target <- method(args)` (Async).
func (p *Parser) parseMessageSend(target ast.Expression) ast.Expression {
	tok := p.cur
	mode := ast.Async
	if tok.Type == token.BANG {
		mode = ast.Sync
	}
	if !p.expect(token.IDENT) {
		return nil
	}
	method := p.cur.Lexeme
	var args []ast.Expression
	if p.peekIs(token.LPAREN) {
		p.next()
		args = p.parseExpressionList(token.RPAREN)
	}
	return &ast.MessageSend{Token: tok, Target: target, Mode: mode, Method: method, Args: args}
}

// parseMatchExpression handles `match scrutinee { pattern: { body } ... }`.
func (p *Parser) parseMatchExpression() ast.Expression {
	tok := p.cur
	p.next()
	scrutinee := p.parseExpression(LOWEST)
	if !p.expect(token.LBRACE) {
		return nil
	}
	m := &ast.Match{Token: tok, Scrutinee: scrutinee}
	p.next()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		var pattern ast.Expression
		if p.curIs(token.IDENT) && p.cur.Lexeme == "_" {
			pattern = nil
		} else {
			pattern = p.parseExpression(LOWEST)
		}
		if !p.expect(token.COLON) {
			return nil
		}
		if !p.expect(token.LBRACE) {
			return nil
		}
		body := p.parseBlock()
		m.Arms = append(m.Arms, ast.MatchArm{Pattern: pattern, Body: body})
		p.next()
	}
	return m
}
