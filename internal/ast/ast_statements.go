package ast

import (
	"github.com/hylic-lang/pleroma/internal/token"
)

// Assignment binds Value to Sym, either in the current local frame or
// at entity scope, depending on Kind.
type Assignment struct {
	Token token.Token
	Sym   *Symbol
	Value Expression
	Kind  ScopeKind
}

func (a *Assignment) statementNode()      {}
func (a *Assignment) TokenLiteral() string { return a.Token.Lexeme }
func (a *Assignment) GetToken() token.Token {
	return a.Token
}

// Return yields Expr as the enclosing function's result.
type Return struct {
	Token token.Token
	Expr  Expression
}

func (r *Return) statementNode()      {}
func (r *Return) TokenLiteral() string { return r.Token.Lexeme }
func (r *Return) GetToken() token.Token {
	return r.Token
}

// For iterates Iterable, binding each element to Sym in Body.
type For struct {
	Token    token.Token
	Sym      *Symbol
	Iterable Expression
	Body     []Statement
}

func (f *For) statementNode()      {}
func (f *For) TokenLiteral() string { return f.Token.Lexeme }
func (f *For) GetToken() token.Token {
	return f.Token
}

// While repeats Body while Cond evaluates true.
type While struct {
	Token token.Token
	Cond  Expression
	Body  []Statement
}

func (w *While) statementNode()      {}
func (w *While) TokenLiteral() string { return w.Token.Lexeme }
func (w *While) GetToken() token.Token {
	return w.Token
}

// ExprStatement adapts a bare expression — typically a MessageSend
// fired for its side effect — into a Statement without contributing a
// return value.
type ExprStatement struct {
	Value Expression
}

func (e *ExprStatement) statementNode()        {}
func (e *ExprStatement) TokenLiteral() string  { return e.Value.TokenLiteral() }
func (e *ExprStatement) GetToken() token.Token { return e.Value.GetToken() }

// Fallthrough continues execution into the next Match arm's body.
type Fallthrough struct {
	Token token.Token
}

func (f *Fallthrough) statementNode()      {}
func (f *Fallthrough) TokenLiteral() string { return f.Token.Lexeme }
func (f *Fallthrough) GetToken() token.Token {
	return f.Token
}
