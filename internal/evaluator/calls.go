package evaluator

import (
	"fmt"

	"github.com/hylic-lang/pleroma/internal/ast"
)

// resolveFunc finds the FuncStmt a Call's target names: first a
// sibling method on the currently executing entity, then the
// module-level free-function registry.
func resolveFunc(ctx *EvalContext, c *ast.Call) *ast.FuncStmt {
	sym, ok := c.Target.(*ast.Symbol)
	if !ok {
		panic(newRuntimeError(ErrMethodNotFound, "call target is not a resolvable function name", c.Token))
	}
	if ctx.Entity != nil {
		if fn, ok := ctx.Entity.Def.Functions[sym.Name]; ok {
			return fn
		}
	}
	if fn, ok := ctx.Functions[sym.Name]; ok {
		return fn
	}
	panic(newRuntimeError(ErrMethodNotFound, fmt.Sprintf("no function named %q is in scope", sym.Name), c.Token))
}

// evalCall implements the Call rule: resolve the target function,
// check arity, push a fresh scope binding parameters, evaluate the
// body, and return its Return value (or None).
func evalCall(ctx *EvalContext, c *ast.Call) ast.Node {
	fn := resolveFunc(ctx, c)

	if len(c.Args) != len(fn.Params) {
		panic(newRuntimeError(ErrArgMismatch,
			fmt.Sprintf("%q called with %d argument(s), wants %d", fn.Name, len(c.Args), len(fn.Params)), c.Token))
	}

	args := make([]ast.Node, len(c.Args))
	for i, a := range c.Args {
		args[i] = Eval(ctx, a)
	}

	return InvokeFunc(ctx, fn, args, c.Token.Line, c.Token.Column)
}

// InvokeFunc runs fn's body (native or user-defined) against args in a
// fresh scope child of the entity's file scope, shared by direct calls
// and by the vat scheduler dispatching an inbound message.
func InvokeFunc(ctx *EvalContext, fn *ast.FuncStmt, args []ast.Node, line, col int) ast.Node {
	if fn.Native != nil {
		return fn.Native(ctx, args)
	}

	base := ctx.Scope
	if ctx.Entity != nil {
		base = ctx.Entity.FileScope
	}
	scope := NewEnclosedScope(base)
	for i, p := range fn.Params {
		scope.Bind(p.Name, args[i])
	}

	callCtx := ctx.Derive(scope, CallFrame{Name: fn.Name, Line: line, Column: col})
	return EvalBody(callCtx, fn.Body)
}
