// Package parser builds the AST described by the runtime
// specification's data model from a token stream. Like the lexer, the
// specification treats this as an external collaborator; this is the
// minimal Pratt parser that makes the module runnable end to end.
package parser

import (
	"fmt"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/lexer"
	"github.com/hylic-lang/pleroma/internal/token"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

const (
	LOWEST int = iota
	COMPARE
	SUM
	PRODUCT
	PREFIX
	CALL
	ACCESS
)

var precedences = map[token.Type]int{
	token.EQ:          COMPARE,
	token.NOT_EQ:      COMPARE,
	token.LT:          COMPARE,
	token.LT_EQ:       COMPARE,
	token.GT:          COMPARE,
	token.GT_EQ:       COMPARE,
	token.PLUS:        SUM,
	token.MINUS:       SUM,
	token.STAR:        PRODUCT,
	token.SLASH:       PRODUCT,
	token.LPAREN:      CALL,
	token.LBRACKET:    CALL,
	token.DOT:         ACCESS,
	token.BANG:        CALL,
	token.SEND_ASYNC:  CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser is a hand-written recursive-descent/Pratt parser producing an
// *ast.Program from one source file's token stream.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors []string

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.prefixFns = map[token.Type]prefixParseFn{
		token.NUMBER:   p.parseNumber,
		token.STRING:   p.parseString,
		token.CHAR:     p.parseCharLit,
		token.TRUE:     p.parseBool,
		token.FALSE:    p.parseBool,
		token.NONE:     p.parseNone,
		token.IDENT:    p.parseIdentifier,
		token.LPAREN:   p.parseGroupedExpression,
		token.LBRACKET: p.parseListLiteral,
		token.MINUS:    p.parsePrefixExpression,
		token.BANG:     p.parsePrefixExpression,
		token.MATCH:    p.parseMatchExpression,
	}
	p.infixFns = map[token.Type]infixParseFn{
		token.PLUS:       p.parseBinOp,
		token.MINUS:      p.parseBinOp,
		token.STAR:       p.parseBinOp,
		token.SLASH:       p.parseBinOp,
		token.EQ:         p.parseCompare,
		token.NOT_EQ:     p.parseCompare,
		token.LT:         p.parseCompare,
		token.LT_EQ:      p.parseCompare,
		token.GT:         p.parseCompare,
		token.GT_EQ:      p.parseCompare,
		token.LPAREN:     p.parseCallExpression,
		token.LBRACKET:   p.parseIndexExpression,
		token.DOT:        p.parseFieldAccess,
		token.BANG:       p.parseMessageSend,
		token.SEND_ASYNC: p.parseMessageSend,
	}

	p.next()
	p.next()
	return p
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expect(t token.Type) bool {
	if p.peekIs(t) {
		p.next()
		return true
	}
	p.errorf("expected next token %s, got %s (%q)", t, p.peek.Type, p.peek.Lexeme)
	return false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s", p.cur.Line, p.cur.Column, fmt.Sprintf(format, args...)))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses one whole source file into a Program node.
func (p *Parser) ParseProgram(file string) *ast.Program {
	prog := &ast.Program{File: file}

	for !p.curIs(token.EOF) {
		switch p.cur.Type {
		case token.IMPORT:
			if imp := p.parseImport(); imp != nil {
				prog.Imports = append(prog.Imports, imp)
			}
		case token.ACTOR:
			if ent := p.parseEntityDef(); ent != nil {
				prog.Entities = append(prog.Entities, ent)
			}
		case token.FUNC:
			if fn := p.parseFuncStmt(); fn != nil {
				prog.Functions = append(prog.Functions, fn)
			}
		default:
			p.errorf("unexpected top-level token %s", p.cur.Type)
			p.next()
			continue
		}
		p.next()
	}

	return prog
}

func (p *Parser) parseImport() *ast.Import {
	tok := p.cur
	if !p.expect(token.STRING) {
		return nil
	}
	imp := &ast.Import{Token: tok, Path: p.cur.Lexeme}
	if p.peekIs(token.IDENT) {
		p.next()
		imp.Alias = p.cur.Lexeme
	}
	return imp
}

// parseType parses a minimal type annotation: u8 | i64 | Str | Bool |
// Char | List<T> | Promise<T> | Entity(Name) | BaseEntity, each
// optionally prefixed with far/alien to set the distribution kind.
func (p *Parser) parseType() typesystem.CType {
	dtype := typesystem.Local
	if p.curIs(token.IDENT) && p.cur.Lexeme == "far" {
		dtype = typesystem.Far
		p.next()
	} else if p.curIs(token.IDENT) && p.cur.Lexeme == "alien" {
		dtype = typesystem.Alien
		p.next()
	}

	name := p.cur.Lexeme
	var ct typesystem.CType
	switch name {
	case "u8":
		ct = typesystem.U8()
	case "i64":
		ct = typesystem.I64()
	case "Str":
		ct = typesystem.Str()
	case "Bool":
		ct = typesystem.Bool()
	case "Char":
		ct = typesystem.Char()
	case "List":
		p.next()
		if p.curIs(token.LT) {
			p.next()
			sub := p.parseType()
			ct = typesystem.ListOf(sub)
			if p.peekIs(token.GT) {
				p.next()
			}
		} else {
			ct = typesystem.ListOf(typesystem.NoneType())
		}
	case "Promise":
		p.next()
		if p.curIs(token.LT) {
			p.next()
			sub := p.parseType()
			ct = typesystem.PromiseOf(sub)
			if p.peekIs(token.GT) {
				p.next()
			}
		} else {
			ct = typesystem.PromiseOf(typesystem.NoneType())
		}
	case "BaseEntity":
		ct = typesystem.CType{Basetype: typesystem.PBaseEntity}
	default:
		ct = typesystem.CType{Basetype: typesystem.PUserType, EntityName: name}
	}
	ct.Dtype = dtype
	return ct
}
