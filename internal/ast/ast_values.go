package ast

import (
	"github.com/hylic-lang/pleroma/internal/token"
)

// Number is a 64-bit signed integer value node.
type Number struct {
	typed
	Token token.Token
	Value int64
}

func (n *Number) expressionNode()      {}
func (n *Number) TokenLiteral() string { return n.Token.Lexeme }
func (n *Number) GetToken() token.Token {
	return n.Token
}

// String is a byte-string value node.
type String struct {
	typed
	Token token.Token
	Value []byte
}

func (s *String) expressionNode()      {}
func (s *String) TokenLiteral() string { return s.Token.Lexeme }
func (s *String) GetToken() token.Token {
	return s.Token
}

// Char is a single Unicode code point value node.
type Char struct {
	typed
	Token token.Token
	Value rune
}

func (c *Char) expressionNode()      {}
func (c *Char) TokenLiteral() string { return c.Token.Lexeme }
func (c *Char) GetToken() token.Token {
	return c.Token
}

// Bool is a boolean value node.
type Bool struct {
	typed
	Token token.Token
	Value bool
}

func (b *Bool) expressionNode()      {}
func (b *Bool) TokenLiteral() string { return b.Token.Lexeme }
func (b *Bool) GetToken() token.Token {
	return b.Token
}

// List is an ordered sequence of value nodes.
type List struct {
	typed
	Token    token.Token
	Elements []Expression
}

func (l *List) expressionNode()      {}
func (l *List) TokenLiteral() string { return l.Token.Lexeme }
func (l *List) GetToken() token.Token {
	return l.Token
}

// EntityRef is a first-class reference to an actor by address; it is
// the only way user code names a remote (or local) entity.
type EntityRef struct {
	typed
	Token   token.Token
	Address EntityAddress
}

func (e *EntityRef) expressionNode()      {}
func (e *EntityRef) TokenLiteral() string { return e.Token.Lexeme }
func (e *EntityRef) GetToken() token.Token {
	return e.Token
}

// PromiseRes wraps the id of a pending async send, plus the optional
// then-chained callback to run on resolution.
type PromiseRes struct {
	typed
	Token     token.Token
	PromiseID uint32
	Callback  *FuncStmt // nil if no .then(...) chain was attached
}

func (p *PromiseRes) expressionNode()      {}
func (p *PromiseRes) TokenLiteral() string { return p.Token.Lexeme }
func (p *PromiseRes) GetToken() token.Token {
	return p.Token
}

// None is the sole value of type None.
type None struct {
	typed
	Token token.Token
}

func (n *None) expressionNode()      {}
func (n *None) TokenLiteral() string { return n.Token.Lexeme }
func (n *None) GetToken() token.Token {
	return n.Token
}
