package ast

import (
	"github.com/hylic-lang/pleroma/internal/token"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

// NativeFunc is a Go-implemented function body. It is invoked with the
// same calling convention as a user FuncStmt's AST body, so the
// evaluator's Call rule does not need to distinguish kernel methods
// from user methods (see FuncStmt.Native). ctx is the evaluator's
// *EvalContext, passed as interface{} to avoid an import cycle between
// ast and evaluator; callers type-assert it back.
type NativeFunc func(ctx interface{}, args []Node) Node

// Param is one declared parameter of a FuncStmt.
type Param struct {
	Name string
	Type typesystem.CType
}

// FuncStmt declares a function or entity method. Native is non-nil for
// kernel-registered methods; exactly one of Native/Body drives
// evaluation.
type FuncStmt struct {
	Token      token.Token
	Name       string
	Params     []Param
	ReturnType typesystem.CType
	Body       []Statement
	Native     NativeFunc
}

func (f *FuncStmt) declNode()         {}
func (f *FuncStmt) TokenLiteral() string { return f.Token.Lexeme }
func (f *FuncStmt) GetToken() token.Token {
	return f.Token
}

// DataField is one declared instance-data field of an EntityDef, with
// its initial value expression (evaluated once per instantiation).
type DataField struct {
	Name string
	Type typesystem.CType
	Init Expression
}

// EntityDef declares an actor's method table and instance-data shape.
// EntityDef values are shared and immutable across every Entity
// instantiated from them.
type EntityDef struct {
	Token     token.Token
	Name      string
	Functions map[string]*FuncStmt
	Data      []DataField
	Children  []*EntityDef
}

func (e *EntityDef) declNode()         {}
func (e *EntityDef) TokenLiteral() string { return e.Token.Lexeme }
func (e *EntityDef) GetToken() token.Token {
	return e.Token
}

// Import declares a module dependency, optionally aliased. The type
// solver resolves and parses it to confirm it exists (an unresolved
// import surfaces as an error when its symbols are referenced), but
// qualified alias::Entity::method call syntax is not implemented —
// see DESIGN.md.
type Import struct {
	Token token.Token
	Path  string
	Alias string
}

func (i *Import) declNode()         {}
func (i *Import) TokenLiteral() string { return i.Token.Lexeme }
func (i *Import) GetToken() token.Token {
	return i.Token
}
