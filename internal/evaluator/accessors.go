package evaluator

import (
	"fmt"

	"github.com/hylic-lang/pleroma/internal/ast"
)

func evalIndex(ctx *EvalContext, i *ast.Index) ast.Node {
	container := Eval(ctx, i.Container)
	list, ok := container.(*ast.List)
	if !ok {
		panic(newRuntimeError(ErrTypeMismatch, "indexing requires a List", i.Token))
	}
	key := Eval(ctx, i.Key)
	n, ok := key.(*ast.Number)
	if !ok {
		panic(newRuntimeError(ErrTypeMismatch, "list index must be a Number", i.Token))
	}
	if n.Value < 0 || int(n.Value) >= len(list.Elements) {
		panic(newRuntimeError(ErrTypeMismatch, fmt.Sprintf("list index %d out of bounds (len %d)", n.Value, len(list.Elements)), i.Token))
	}
	return Eval(ctx, list.Elements[n.Value])
}

// evalFieldAccess reads a data field off the entity the currently
// executing method belongs to; fields on another entity's instance
// aren't readable directly, only through a method send.
func evalFieldAccess(ctx *EvalContext, f *ast.FieldAccess) ast.Node {
	if ctx.Entity != nil {
		if v, ok := ctx.Entity.GetData(f.Name); ok {
			return v
		}
	}
	panic(newRuntimeError(ErrUnresolvedSym, fmt.Sprintf("no data field %q on the enclosing entity", f.Name), f.Token))
}
