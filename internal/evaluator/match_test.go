package evaluator

import (
	"testing"

	"github.com/hylic-lang/pleroma/internal/ast"
)

func newTestEntity() *Entity {
	return &Entity{Data: map[string]ast.Node{"a": &ast.Number{Value: 0}, "b": &ast.Number{Value: 0}}}
}

func setFar(name string, v int64) *ast.Assignment {
	return &ast.Assignment{Sym: &ast.Symbol{Name: name}, Value: numberLit(v), Kind: ast.ScopeFar}
}

func TestEvalMatchRunsOnlyMatchedArm(t *testing.T) {
	ent := newTestEntity()
	ctx := &EvalContext{Scope: NewScope(), Entity: ent}
	m := &ast.Match{
		Scrutinee: numberLit(1),
		Arms: []ast.MatchArm{
			{Pattern: numberLit(1), Body: []ast.Statement{setFar("a", 1)}},
			{Pattern: numberLit(2), Body: []ast.Statement{setFar("b", 1)}},
		},
	}
	evalMatch(ctx, m)

	a, _ := ent.GetData("a")
	b, _ := ent.GetData("b")
	if a.(*ast.Number).Value != 1 {
		t.Errorf("expected arm 1 to run and set a=1, got %v", a)
	}
	if b.(*ast.Number).Value != 0 {
		t.Errorf("expected arm 2 not to run, got b=%v", b)
	}
}

func TestEvalMatchFallthroughRunsNextArm(t *testing.T) {
	ent := newTestEntity()
	ctx := &EvalContext{Scope: NewScope(), Entity: ent}
	m := &ast.Match{
		Scrutinee: numberLit(1),
		Arms: []ast.MatchArm{
			{Pattern: numberLit(1), Body: []ast.Statement{setFar("a", 1), &ast.Fallthrough{}}},
			{Pattern: numberLit(2), Body: []ast.Statement{setFar("b", 1)}},
		},
	}
	evalMatch(ctx, m)

	a, _ := ent.GetData("a")
	b, _ := ent.GetData("b")
	if a.(*ast.Number).Value != 1 || b.(*ast.Number).Value != 1 {
		t.Fatalf("expected both arms to run via fallthrough, got a=%v b=%v", a, b)
	}
}
