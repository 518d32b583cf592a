package analyzer

import (
	"fmt"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

// typeOfExpr infers (and records, via SetCType) the CType of expr,
// recursing through every expression node kind the parser produces.
// Inference failures that aren't themselves reported as SolverErrors
// fall back to None so the walk can continue and surface every error
// in one pass rather than stopping at the first one.
func (w *walker) typeOfExpr(expr ast.Expression) typesystem.CType {
	if expr == nil {
		return typesystem.NoneType()
	}

	var ct typesystem.CType
	switch e := expr.(type) {
	case *ast.Number:
		ct = typesystem.I64()
	case *ast.String:
		ct = typesystem.Str()
	case *ast.Char:
		ct = typesystem.Char()
	case *ast.Bool:
		ct = typesystem.Bool()
	case *ast.None:
		ct = typesystem.NoneType()
	case *ast.List:
		ct = w.typeOfList(e)
	case *ast.EntityRef:
		ct = typesystem.BaseEntityFar()
	case *ast.PromiseRes:
		ct = typesystem.PromiseOf(typesystem.NoneType())
	case *ast.Symbol:
		ct = w.typeOfSymbol(e)
	case *ast.BinOp:
		ct = w.typeOfBinOp(e)
	case *ast.UnOp:
		ct = w.typeOfExpr(e.X)
	case *ast.Compare:
		w.typeOfExpr(e.Lhs)
		w.typeOfExpr(e.Rhs)
		ct = typesystem.Bool()
	case *ast.Index:
		ct = w.typeOfIndex(e)
	case *ast.FieldAccess:
		ct = w.typeOfFieldAccess(e)
	case *ast.Call:
		ct = w.typeOfCall(e)
	case *ast.MessageSend:
		ct = w.typeOfMessageSend(e)
	case *ast.Match:
		ct = w.typeOfMatch(e)
	default:
		ct = typesystem.NoneType()
	}

	expr.SetCType(ct)
	return ct
}

func (w *walker) typeOfList(l *ast.List) typesystem.CType {
	if len(l.Elements) == 0 {
		return typesystem.ListOf(typesystem.NoneType())
	}
	elem := w.typeOfExpr(l.Elements[0])
	for _, rest := range l.Elements[1:] {
		got := w.typeOfExpr(rest)
		if !typesystem.ExactMatch(elem, got) {
			w.addErr(typesystem.NewMismatch(rest.GetToken(),
				"list elements must share a single type", got, elem))
		}
	}
	return typesystem.ListOf(elem)
}

func (w *walker) typeOfSymbol(s *ast.Symbol) typesystem.CType {
	if ct, ok := w.typescopeHas(s.Name); ok {
		return ct
	}
	if w.entity != nil {
		for _, f := range w.entity.Data {
			if f.Name == s.Name {
				return f.Type
			}
		}
	}
	if sig, ok := w.top.Functions[s.Name]; ok {
		return sig.ReturnType
	}
	w.addErr(typesystem.NewSolverError(s.GetToken(),
		fmt.Sprintf("symbol %q not found in any enclosing scope", s.Name)))
	return typesystem.NoneType()
}

func (w *walker) typeOfBinOp(b *ast.BinOp) typesystem.CType {
	lt := w.typeOfExpr(b.Lhs)
	rt := w.typeOfExpr(b.Rhs)
	if !typesystem.ExactMatch(lt, rt) {
		w.addErr(typesystem.NewMismatch(b.GetToken(),
			fmt.Sprintf("operator %q requires operands of the same type", b.Op), rt, lt))
	}
	return lt
}

func (w *walker) typeOfIndex(i *ast.Index) typesystem.CType {
	container := w.typeOfExpr(i.Container)
	w.typeOfExpr(i.Key)
	if container.Basetype != typesystem.PList {
		w.addErr(typesystem.NewSolverError(i.GetToken(), "indexing requires a List-typed container"))
		return typesystem.NoneType()
	}
	if container.Subtype == nil {
		return typesystem.NoneType()
	}
	return *container.Subtype
}

// typeOfFieldAccess resolves obj.Name against the currently-checked
// entity's own declared data fields; funxy fields on other entities'
// instances aren't readable without going through a method send.
func (w *walker) typeOfFieldAccess(f *ast.FieldAccess) typesystem.CType {
	w.typeOfExpr(f.Obj)
	if w.entity != nil {
		for _, df := range w.entity.Data {
			if df.Name == f.Name {
				return df.Type
			}
		}
	}
	w.addErr(typesystem.NewSolverError(f.GetToken(),
		fmt.Sprintf("no data field %q on the enclosing entity", f.Name)))
	return typesystem.NoneType()
}

func (w *walker) typeOfCall(c *ast.Call) typesystem.CType {
	for _, a := range c.Args {
		w.typeOfExpr(a)
	}
	sym, ok := c.Target.(*ast.Symbol)
	if !ok {
		w.typeOfExpr(c.Target)
		return typesystem.NoneType()
	}
	sig, found := w.top.Functions[sym.Name]
	if !found {
		w.addErr(typesystem.NewSolverError(c.GetToken(),
			fmt.Sprintf("call to undeclared function %q", sym.Name)))
		return typesystem.NoneType()
	}
	if len(c.Args) != len(sig.ParamTypes) {
		w.addErr(typesystem.NewSolverError(c.GetToken(),
			fmt.Sprintf("function %q called with %d argument(s), wants %d", sym.Name, len(c.Args), len(sig.ParamTypes))))
	}
	return sig.ReturnType
}

// typeOfMessageSend resolves target!method(args) / target->method(args)
// against the TopTypes table for the target's entity name. Sync sends
// carry the method's declared return type directly; Async sends always
// produce a Promise of that return type.
func (w *walker) typeOfMessageSend(m *ast.MessageSend) typesystem.CType {
	targetType := w.typeOfExpr(m.Target)
	for _, a := range m.Args {
		w.typeOfExpr(a)
	}

	var retType typesystem.CType = typesystem.NoneType()
	if targetType.Basetype == typesystem.PEntity && targetType.EntityName != "" {
		if methods, ok := w.top.Entities[targetType.EntityName]; ok {
			if sig, ok := methods[m.Method]; ok {
				retType = sig.ReturnType
			} else {
				w.addErr(typesystem.NewSolverError(m.GetToken(),
					fmt.Sprintf("entity %q has no method %q", targetType.EntityName, m.Method)))
			}
		}
	}

	if m.Mode == ast.Async {
		return typesystem.PromiseOf(retType)
	}
	return retType
}

// typeOfMatch walks every arm's body for its own type obligations;
// Match's own result type is None since its arms are statement lists
// driven for effect, with Fallthrough carrying control between them.
func (w *walker) typeOfMatch(m *ast.Match) typesystem.CType {
	scrutineeType := w.typeOfExpr(m.Scrutinee)

	for _, arm := range m.Arms {
		w.pushScope()
		if sym, ok := arm.Pattern.(*ast.Symbol); ok {
			w.curScope().table[sym.Name] = scrutineeType
		} else if arm.Pattern != nil {
			got := w.typeOfExpr(arm.Pattern)
			if !typesystem.ExactMatch(got, scrutineeType) {
				w.addErr(typesystem.NewMismatch(arm.Pattern.GetToken(),
					"match arm pattern type disagrees with scrutinee", got, scrutineeType))
			}
		}
		for _, stmt := range arm.Body {
			w.checkStatement(stmt)
		}
		w.popScope()
	}

	return typesystem.NoneType()
}
