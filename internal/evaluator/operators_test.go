package evaluator

import (
	"testing"

	"github.com/hylic-lang/pleroma/internal/ast"
)

func numberLit(v int64) *ast.Number { return &ast.Number{Value: v} }

func TestEvalBinOpAddition(t *testing.T) {
	ctx := &EvalContext{}
	b := &ast.BinOp{Op: "+", Lhs: numberLit(2), Rhs: numberLit(3)}
	got := evalBinOp(ctx, b).(*ast.Number)
	if got.Value != 5 {
		t.Errorf("2 + 3 = %d, want 5", got.Value)
	}
}

func TestEvalBinOpOverflow(t *testing.T) {
	ctx := &EvalContext{}
	b := &ast.BinOp{Op: "+", Lhs: numberLit(9223372036854775807), Rhs: numberLit(1)}
	defer func() {
		r := recover()
		rerr, ok := r.(*RuntimeError)
		if !ok {
			t.Fatalf("expected *RuntimeError panic, got %T: %v", r, r)
		}
		if rerr.Kind != ErrIntegerOverflow {
			t.Errorf("kind = %s, want %s", rerr.Kind, ErrIntegerOverflow)
		}
	}()
	evalBinOp(ctx, b)
}

func TestEvalBinOpDivisionByZero(t *testing.T) {
	ctx := &EvalContext{}
	b := &ast.BinOp{Op: "/", Lhs: numberLit(10), Rhs: numberLit(0)}
	defer func() {
		r := recover()
		rerr, ok := r.(*RuntimeError)
		if !ok {
			t.Fatalf("expected *RuntimeError panic, got %T: %v", r, r)
		}
		if rerr.Kind != ErrDivisionByZero {
			t.Errorf("kind = %s, want %s", rerr.Kind, ErrDivisionByZero)
		}
	}()
	evalBinOp(ctx, b)
}

func TestEvalCompareNumbers(t *testing.T) {
	ctx := &EvalContext{}
	c := &ast.Compare{Op: "<", Lhs: numberLit(1), Rhs: numberLit(2)}
	got := evalCompare(ctx, c).(*ast.Bool)
	if !got.Value {
		t.Errorf("1 < 2 should be true")
	}
}

func TestEvalUnOpNegateOverflow(t *testing.T) {
	ctx := &EvalContext{}
	u := &ast.UnOp{Op: "-", X: numberLit(-9223372036854775808)}
	defer func() {
		r := recover()
		rerr, ok := r.(*RuntimeError)
		if !ok {
			t.Fatalf("expected *RuntimeError panic, got %T: %v", r, r)
		}
		if rerr.Kind != ErrIntegerOverflow {
			t.Errorf("kind = %s, want %s", rerr.Kind, ErrIntegerOverflow)
		}
	}()
	evalUnOp(ctx, u)
}

func TestEvalStringConcat(t *testing.T) {
	ctx := &EvalContext{}
	b := &ast.BinOp{Op: "+", Lhs: &ast.String{Value: []byte("foo")}, Rhs: &ast.String{Value: []byte("bar")}}
	got := evalBinOp(ctx, b).(*ast.String)
	if string(got.Value) != "foobar" {
		t.Errorf("got %q, want %q", got.Value, "foobar")
	}
}
