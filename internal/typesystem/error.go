package typesystem

import (
	"fmt"

	"github.com/hylic-lang/pleroma/internal/token"
)

// SolverError is a type-solving failure. Execution must not begin
// while any SolverError is outstanding.
type SolverError struct {
	Token   token.Token
	Message string
	Got     *CType
	Want    *CType
}

func (e *SolverError) Error() string {
	if e.Got != nil && e.Want != nil {
		return fmt.Sprintf("%d:%d: %s (got %s, want %s)", e.Token.Line, e.Token.Column, e.Message, e.Got, e.Want)
	}
	return fmt.Sprintf("%d:%d: %s", e.Token.Line, e.Token.Column, e.Message)
}

func NewMismatch(tok token.Token, message string, got, want CType) *SolverError {
	return &SolverError{Token: tok, Message: message, Got: &got, Want: &want}
}

func NewSolverError(tok token.Token, message string) *SolverError {
	return &SolverError{Token: tok, Message: message}
}

// SymbolNotFoundError indicates a symbol was not found in any scope.
type SymbolNotFoundError struct {
	Name string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("symbol not found: %s", e.Name)
}

func NewSymbolNotFoundError(name string) *SymbolNotFoundError {
	return &SymbolNotFoundError{Name: name}
}
