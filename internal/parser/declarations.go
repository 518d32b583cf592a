package parser

import (
	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/token"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

// parseFuncStmt parses:
//
//	func name(p1: T1, p2: T2) : ReturnType { ...body... }
func (p *Parser) parseFuncStmt() *ast.FuncStmt {
	tok := p.cur // 'func'
	if !p.expect(token.IDENT) {
		return nil
	}
	fn := &ast.FuncStmt{Token: tok, Name: p.cur.Lexeme}

	if !p.expect(token.LPAREN) {
		return nil
	}
	fn.Params = p.parseParamList()

	fn.ReturnType = typesystem.NoneType()
	if p.peekIs(token.COLON) {
		p.next() // consume ':'
		p.next() // move onto type name
		fn.ReturnType = p.parseType()
	}

	if !p.expect(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	if p.peekIs(token.RPAREN) {
		p.next()
		return params
	}
	p.next()
	for {
		name := p.cur.Lexeme
		ct := typesystem.NoneType()
		if p.peekIs(token.COLON) {
			p.next()
			p.next()
			ct = p.parseType()
		}
		params = append(params, ast.Param{Name: name, Type: ct})
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return params
}

// parseEntityDef parses:
//
//	actor Name {
//	  field: Type :- init
//	  func method(...) : T { ... }
//	}
func (p *Parser) parseEntityDef() *ast.EntityDef {
	tok := p.cur // 'actor'
	if !p.expect(token.IDENT) {
		return nil
	}
	def := &ast.EntityDef{Token: tok, Name: p.cur.Lexeme, Functions: make(map[string]*ast.FuncStmt)}

	if !p.expect(token.LBRACE) {
		return nil
	}
	p.next()

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		switch p.cur.Type {
		case token.FUNC:
			if fn := p.parseFuncStmt(); fn != nil {
				def.Functions[fn.Name] = fn
			}
		case token.IDENT:
			field := p.parseDataField()
			def.Data = append(def.Data, field)
		case token.ACTOR:
			if child := p.parseEntityDef(); child != nil {
				def.Children = append(def.Children, child)
			}
		default:
			p.errorf("unexpected token in entity body: %s", p.cur.Type)
		}
		p.next()
	}

	return def
}

func (p *Parser) parseDataField() ast.DataField {
	name := p.cur.Lexeme
	field := ast.DataField{Name: name, Type: typesystem.NoneType()}
	if p.peekIs(token.COLON) {
		p.next()
		p.next()
		field.Type = p.parseType()
	}
	if p.peekIs(token.ASSIGN_LOCAL) || p.peekIs(token.ASSIGN_FAR) || p.peekIs(token.ASSIGN_ALIEN) {
		p.next()
		p.next()
		field.Init = p.parseExpression(LOWEST)
	}
	return field
}
