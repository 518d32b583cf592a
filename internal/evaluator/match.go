package evaluator

import (
	"github.com/hylic-lang/pleroma/internal/ast"
)

// evalMatch runs the arm whose pattern matches the scrutinee (or
// binds it, for a symbol pattern), then continues into any number of
// subsequent arms while the body ends in Fallthrough.
func evalMatch(ctx *EvalContext, m *ast.Match) ast.Node {
	scrutinee := Eval(ctx, m.Scrutinee)

	matched := false
	for _, arm := range m.Arms {
		if !matched {
			if !armMatches(ctx, arm, scrutinee) {
				continue
			}
			matched = true
		}

		inner := NewEnclosedScope(ctx.Scope)
		if sym, ok := arm.Pattern.(*ast.Symbol); ok {
			inner.Bind(sym.Name, scrutinee)
		}
		armCtx := &EvalContext{Vat: ctx.Vat, Entity: ctx.Entity, Scope: inner, CallStack: ctx.CallStack, Functions: ctx.Functions}

		result := evalBlock(armCtx, arm.Body)
		if isReturn(result) {
			return result
		}
		if !isFallthrough(result) {
			return &ast.None{}
		}
		// Fallthrough: keep going into the next arm's body unconditionally.
	}
	return &ast.None{}
}

func armMatches(ctx *EvalContext, arm ast.MatchArm, scrutinee ast.Node) bool {
	if arm.Pattern == nil {
		return true // wildcard "_"
	}
	if _, ok := arm.Pattern.(*ast.Symbol); ok {
		return true // binding pattern always matches
	}
	pattern := Eval(ctx, arm.Pattern)
	return valuesEqual(pattern, scrutinee)
}

func valuesEqual(a, b ast.Node) bool {
	switch av := a.(type) {
	case *ast.Number:
		bv, ok := b.(*ast.Number)
		return ok && av.Value == bv.Value
	case *ast.String:
		bv, ok := b.(*ast.String)
		return ok && string(av.Value) == string(bv.Value)
	case *ast.Bool:
		bv, ok := b.(*ast.Bool)
		return ok && av.Value == bv.Value
	case *ast.Char:
		bv, ok := b.(*ast.Char)
		return ok && av.Value == bv.Value
	case *ast.None:
		_, ok := b.(*ast.None)
		return ok
	default:
		return false
	}
}
