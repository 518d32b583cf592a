// Package ast defines the single AstNode sum type shared by the
// parser, type solver, and evaluator: a tagged tree whose variants
// partition into Values, Expressions, Statements, and Declarations
// (see the data model section of the runtime specification). Dispatch
// is by Go type switch on the concrete node types, the same technique
// the rest of this codebase's lineage uses for its own AST.
package ast

import (
	"github.com/hylic-lang/pleroma/internal/token"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

// Node is the base interface every AST variant implements.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Expression is a Node that produces a value when evaluated.
type Expression interface {
	Node
	expressionNode()
	GetCType() typesystem.CType
	SetCType(typesystem.CType)
}

// Statement is a Node executed for effect.
type Statement interface {
	Node
	statementNode()
}

// Decl is a top-level declaration: a function, an entity, or an import.
type Decl interface {
	Node
	declNode()
}

// typed is embedded by every Expression node to carry its CType.
type typed struct {
	CType typesystem.CType
}

func (t *typed) GetCType() typesystem.CType       { return t.CType }
func (t *typed) SetCType(ct typesystem.CType)     { t.CType = ct }

// Program is the root of one parsed module file.
type Program struct {
	File       string
	Imports    []*Import
	Entities   []*EntityDef
	Functions  []*FuncStmt
}

func (p *Program) TokenLiteral() string { return "" }
func (p *Program) GetToken() token.Token {
	return token.Token{}
}

// EntityAddress is the stable (node, vat, entity) triple naming an
// actor. All three fields are non-negative for a resolved address.
type EntityAddress struct {
	NodeID   uint32
	VatID    uint32
	EntityID uint32
}
