// Package analyzer implements the type solver: record_top_types
// followed by typesolve_sub, gating execution by proving
// well-typedness before the evaluator ever runs.
package analyzer

import (
	"fmt"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

type typeScope struct {
	table map[string]typesystem.CType
}

// walker carries the mutable state of one Solve pass: the scope
// stack, the signature table, and the accumulated (deduplicated)
// errors.
type walker struct {
	scopeStack []typeScope
	top        *TopTypes
	errorSet   map[string]*typesystem.SolverError
	entity     *ast.EntityDef // the entity whose method is currently being checked, for data-field lookups

	returnType typesystem.CType // declared return type of the function currently being checked
	sawReturn  bool             // whether any Return, at any nesting depth, has been checked against returnType
}

func (w *walker) pushScope() {
	w.scopeStack = append(w.scopeStack, typeScope{table: make(map[string]typesystem.CType)})
}

func (w *walker) popScope() {
	w.scopeStack = w.scopeStack[:len(w.scopeStack)-1]
}

func (w *walker) curScope() *typeScope {
	return &w.scopeStack[len(w.scopeStack)-1]
}

// typescopeHas walks the scope stack innermost-first, mirroring
// find_symbol's innermost-binding rule.
func (w *walker) typescopeHas(sym string) (typesystem.CType, bool) {
	for i := len(w.scopeStack) - 1; i >= 0; i-- {
		if ct, ok := w.scopeStack[i].table[sym]; ok {
			return ct, true
		}
	}
	return typesystem.CType{}, false
}

func (w *walker) addErr(e *typesystem.SolverError) {
	key := fmt.Sprintf("%d:%d:%s", e.Token.Line, e.Token.Column, e.Message)
	if w.errorSet == nil {
		w.errorSet = make(map[string]*typesystem.SolverError)
	}
	w.errorSet[key] = e
}

// Solve runs the two-phase type solver over module and returns every
// distinct error found; an empty slice means the module is well-typed
// and safe to hand to the evaluator.
func Solve(module *ast.Program, loader ModuleLoader) []*typesystem.SolverError {
	tt := recordTopTypes(module, loader, make(map[string]bool))

	w := &walker{top: tt}

	for _, ent := range module.Entities {
		w.checkEntity(ent)
	}
	for _, fn := range module.Functions {
		w.pushScope()
		w.checkFuncBody(fn, nil)
		w.popScope()
	}

	var errs []*typesystem.SolverError
	for _, e := range w.errorSet {
		errs = append(errs, e)
	}
	return errs
}

// checkEntity implements the EntityDef rule: check each method in an
// isolated scope.
func (w *walker) checkEntity(ent *ast.EntityDef) {
	prevEntity := w.entity
	w.entity = ent
	for _, fn := range ent.Functions {
		w.pushScope()
		w.checkFuncBody(fn, ent)
		w.popScope()
	}
	w.entity = prevEntity

	for _, child := range ent.Children {
		w.checkEntity(child)
	}
}

// checkFuncBody implements the FuncStmt rule: bind parameters, walk
// the body (at every nesting depth, via checkStatement), then verify
// the has-return/void-return consistency rule. returnType/sawReturn
// are saved and restored around the walk so a nested checkFuncBody
// call (methods are checked one at a time, never concurrently) can
// never leak into an enclosing one.
func (w *walker) checkFuncBody(fn *ast.FuncStmt, ent *ast.EntityDef) {
	for _, p := range fn.Params {
		w.curScope().table[p.Name] = p.Type
	}

	prevReturnType, prevSawReturn := w.returnType, w.sawReturn
	w.returnType, w.sawReturn = fn.ReturnType, false

	for _, stmt := range fn.Body {
		w.checkStatement(stmt)
	}

	if !w.sawReturn && fn.ReturnType.Basetype != typesystem.PNone {
		w.addErr(typesystem.NewSolverError(fn.GetToken(),
			fmt.Sprintf("function %q is declared to return %s but its body never returns", fn.Name, fn.ReturnType)))
	}

	w.returnType, w.sawReturn = prevReturnType, prevSawReturn
}

// checkStatement implements the Assignment/For/While/Match/
// Fallthrough/Return rules. Return is handled here rather than only
// at the top of checkFuncBody so a Return nested inside a For, While,
// or Match arm is both type-checked against the enclosing function's
// declared return type and counted toward its has-return obligation.
func (w *walker) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		w.checkAssignment(s)
	case *ast.For:
		elemType := typesystem.NoneType()
		iterableType := w.typeOfExpr(s.Iterable)
		if iterableType.Basetype == typesystem.PList && iterableType.Subtype != nil {
			elemType = *iterableType.Subtype
		}
		w.pushScope()
		w.curScope().table[s.Sym.Name] = elemType
		for _, inner := range s.Body {
			w.checkStatement(inner)
		}
		w.popScope()
	case *ast.While:
		w.typeOfExpr(s.Cond)
		w.pushScope()
		for _, inner := range s.Body {
			w.checkStatement(inner)
		}
		w.popScope()
	case *ast.Fallthrough:
		// no type obligations
	case *ast.ExprStatement:
		w.typeOfExpr(s.Value)
	case *ast.Return:
		w.sawReturn = true
		got := w.typeOfExpr(s.Expr)
		if !typesystem.ExactMatch(got, w.returnType) {
			w.addErr(typesystem.NewMismatch(s.GetToken(),
				"returned value is inconsistent with the enclosing function's declared return type",
				got, w.returnType))
		}
	}
}

// checkAssignment implements the Assignment rule exactly as specified:
// if sym is already bound, lexpr is its existing type; otherwise
// lexpr is the symbol's declared type (which, absent an annotation on
// the AST, defaults to the inferred type of the value itself on first
// binding).
func (w *walker) checkAssignment(a *ast.Assignment) {
	rhs := w.typeOfExpr(a.Value)

	lexpr, bound := w.typescopeHas(a.Sym.Name)
	if !bound {
		lexpr = rhs
	}

	if !typesystem.ExactMatch(lexpr, rhs) {
		w.addErr(typesystem.NewMismatch(a.GetToken(),
			fmt.Sprintf("attempted to assign a %s to %q which has type %s", rhs, a.Sym.Name, lexpr),
			rhs, lexpr))
	}

	w.curScope().table[a.Sym.Name] = lexpr
}
