package evaluator

import (
	"fmt"

	"github.com/hylic-lang/pleroma/internal/token"
)

// CallFrame is one entry in an EvalContext's call stack: the called
// function's name and the call site's position. The evaluator does not
// copy this stack into a RuntimeError; RuntimeError.CallStack stays
// empty unless a caller fills it in.
type CallFrame struct {
	Name   string
	Line   int
	Column int
}

// RuntimeError is an evaluation-time failure: division by zero,
// integer overflow, an unresolved symbol, a missing method, or a
// transport failure surfaced back through a promise. Kind is one of
// the constants below and is what a reply message's error slot
// carries across the wire.
type RuntimeError struct {
	Kind      string
	Message   string
	Token     token.Token
	CallStack []CallFrame
}

const (
	ErrEntityNotFound  = "EntityNotFound"
	ErrMethodNotFound  = "MethodNotFound"
	ErrUnresolvedSym   = "UnresolvedSymbol"
	ErrDivisionByZero  = "DivisionByZero"
	ErrIntegerOverflow = "IntegerOverflow"
	ErrArgMismatch     = "ArgumentMismatch"
	ErrTransportFailed = "TransportFailed"
	ErrTypeMismatch    = "TypeMismatch"
)

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %d:%d: %s", e.Kind, e.Token.Line, e.Token.Column, e.Message)
}

func newRuntimeError(kind, message string, tok token.Token) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: message, Token: tok}
}
