// Package evaluator implements the tree-walking interpreter: eval
// dispatches on the concrete AST node type, threading an EvalContext
// (vat, entity, scope) through every recursive call. Runtime failures
// are raised with panic(*RuntimeError) and recovered at the vat's
// per-turn boundary, matching the "errors unwind to the vat loop"
// propagation policy: a single failing statement must not take down
// the vat's goroutine, only the turn that produced it.
package evaluator

import (
	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/token"
)

// Eval implements eval(context, node) -> AstNode for every node kind
// the parser produces. It is the sole entry point statements and
// expressions alike go through, so Call/MessageSend/Match can recurse
// into it uniformly.
func Eval(ctx *EvalContext, node ast.Node) ast.Node {
	switch n := node.(type) {

	// Values evaluate to themselves.
	case *ast.Number, *ast.String, *ast.Char, *ast.Bool, *ast.None, *ast.EntityRef, *ast.PromiseRes:
		return node

	case *ast.List:
		return evalList(ctx, n)

	case *ast.Symbol:
		return evalSymbol(ctx, n)

	case *ast.BinOp:
		return evalBinOp(ctx, n)

	case *ast.UnOp:
		return evalUnOp(ctx, n)

	case *ast.Compare:
		return evalCompare(ctx, n)

	case *ast.Index:
		return evalIndex(ctx, n)

	case *ast.FieldAccess:
		return evalFieldAccess(ctx, n)

	case *ast.Call:
		return evalCall(ctx, n)

	case *ast.MessageSend:
		return evalMessageSend(ctx, n)

	case *ast.Match:
		return evalMatch(ctx, n)

	case *ast.Assignment:
		return evalAssignment(ctx, n)

	case *ast.Return:
		return &returnSignal{Value: Eval(ctx, n.Expr)}

	case *ast.ExprStatement:
		return Eval(ctx, n.Value)

	case *ast.For:
		return evalFor(ctx, n)

	case *ast.While:
		return evalWhile(ctx, n)

	case *ast.Fallthrough:
		return &fallthroughSignal{}

	default:
		return &ast.None{}
	}
}

// fallthroughSignal is returned by Eval for a Fallthrough and recognized by
// evalMatch to carry execution into the next arm; it is never visible
// to user code since Match swallows it before returning.
type fallthroughSignal struct{}

func (*fallthroughSignal) TokenLiteral() string    { return "" }
func (*fallthroughSignal) GetToken() token.Token { return token.Token{} }

// returnSignal carries a Return's value up through any number of
// enclosing For/While bodies until EvalBody unwinds it into the
// function's own result.
type returnSignal struct {
	Value ast.Node
}

func (*returnSignal) TokenLiteral() string    { return "" }
func (*returnSignal) GetToken() token.Token { return token.Token{} }

func evalList(ctx *EvalContext, l *ast.List) ast.Node {
	out := &ast.List{Token: l.Token, Elements: make([]ast.Expression, 0, len(l.Elements))}
	out.SetCType(l.GetCType())
	for _, elem := range l.Elements {
		out.Elements = append(out.Elements, Eval(ctx, elem).(ast.Expression))
	}
	return out
}

// evalSymbol implements find_symbol: scope chain first, then the
// enclosing entity's declared data fields, then an unresolved-symbol
// error.
func evalSymbol(ctx *EvalContext, s *ast.Symbol) ast.Node {
	if v, ok := ctx.Scope.Find(s.Name); ok {
		return v
	}
	if ctx.Entity != nil {
		if v, ok := ctx.Entity.GetData(s.Name); ok {
			return v
		}
	}
	panic(newRuntimeError(ErrUnresolvedSym, "symbol \""+s.Name+"\" not found in any scope", s.Token))
}

// EvalBody runs a function body to completion: a Return anywhere in
// it, even nested inside a For/While, unwinds here as the function's
// result. Falling off the end yields None.
func EvalBody(ctx *EvalContext, body []ast.Statement) ast.Node {
	for _, stmt := range body {
		result := Eval(ctx, stmt)
		if ret, ok := result.(*returnSignal); ok {
			return ret.Value
		}
		if isFallthrough(result) {
			return &ast.None{}
		}
	}
	return &ast.None{}
}

func isFallthrough(n ast.Node) bool {
	_, ok := n.(*fallthroughSignal)
	return ok
}

func isReturn(n ast.Node) bool {
	_, ok := n.(*returnSignal)
	return ok
}

func evalAssignment(ctx *EvalContext, a *ast.Assignment) ast.Node {
	val := Eval(ctx, a.Value)
	switch a.Kind {
	case ast.ScopeFar, ast.ScopeAlien:
		if ctx.Entity != nil {
			ctx.Entity.SetData(a.Sym.Name, val)
			return val
		}
		fallthrough
	default:
		if !ctx.Scope.Update(a.Sym.Name, val) {
			ctx.Scope.Bind(a.Sym.Name, val)
		}
	}
	return val
}

func evalFor(ctx *EvalContext, f *ast.For) ast.Node {
	iterable := Eval(ctx, f.Iterable)
	list, ok := iterable.(*ast.List)
	if !ok {
		return &ast.None{}
	}
	inner := NewEnclosedScope(ctx.Scope)
	loopCtx := &EvalContext{Vat: ctx.Vat, Entity: ctx.Entity, Scope: inner, CallStack: ctx.CallStack, Functions: ctx.Functions}
	for _, elem := range list.Elements {
		inner.Bind(f.Sym.Name, elem)
		if result := evalBlock(loopCtx, f.Body); isFallthrough(result) || isReturn(result) {
			return result
		}
	}
	return &ast.None{}
}

func evalWhile(ctx *EvalContext, w *ast.While) ast.Node {
	inner := NewEnclosedScope(ctx.Scope)
	loopCtx := &EvalContext{Vat: ctx.Vat, Entity: ctx.Entity, Scope: inner, CallStack: ctx.CallStack, Functions: ctx.Functions}
	for {
		cond := Eval(ctx, w.Cond)
		b, ok := cond.(*ast.Bool)
		if !ok || !b.Value {
			break
		}
		if result := evalBlock(loopCtx, w.Body); isFallthrough(result) || isReturn(result) {
			return result
		}
	}
	return &ast.None{}
}

// evalBlock runs a nested statement list (for/while bodies, match
// arms), propagating a Return or Fallthrough signal up to whichever
// level is responsible for unwinding it (EvalBody for Return,
// evalMatch for Fallthrough).
func evalBlock(ctx *EvalContext, body []ast.Statement) ast.Node {
	for _, stmt := range body {
		result := Eval(ctx, stmt)
		if isFallthrough(result) || isReturn(result) {
			return result
		}
	}
	return &ast.None{}
}
