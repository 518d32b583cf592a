package evaluator

import (
	"github.com/hylic-lang/pleroma/internal/ast"
)

// evalBinOp dispatches +, -, *, / on operand basetype: checked integer
// arithmetic (overflow is an error, not two's-complement wraparound,
// per the solver's guarantee that both operands share a basetype) and
// string concatenation for "+".
func evalBinOp(ctx *EvalContext, b *ast.BinOp) ast.Node {
	lhs := Eval(ctx, b.Lhs)
	rhs := Eval(ctx, b.Rhs)

	if ls, ok := lhs.(*ast.String); ok {
		if b.Op != "+" {
			panic(newRuntimeError(ErrTypeMismatch, "strings only support + concatenation", b.Token))
		}
		rs := rhs.(*ast.String)
		out := &ast.String{Token: b.Token, Value: append(append([]byte{}, ls.Value...), rs.Value...)}
		out.SetCType(b.GetCType())
		return out
	}

	ln, ok := lhs.(*ast.Number)
	if !ok {
		panic(newRuntimeError(ErrTypeMismatch, "operator requires numeric or string operands", b.Token))
	}
	rn := rhs.(*ast.Number)

	var result int64
	switch b.Op {
	case "+":
		result = ln.Value + rn.Value
		if (rn.Value > 0 && result < ln.Value) || (rn.Value < 0 && result > ln.Value) {
			panic(newRuntimeError(ErrIntegerOverflow, "integer overflow in addition", b.Token))
		}
	case "-":
		result = ln.Value - rn.Value
		if (rn.Value < 0 && result < ln.Value) || (rn.Value > 0 && result > ln.Value) {
			panic(newRuntimeError(ErrIntegerOverflow, "integer overflow in subtraction", b.Token))
		}
	case "*":
		result = ln.Value * rn.Value
		if (ln.Value == -1 && rn.Value == -9223372036854775808) || (rn.Value == -1 && ln.Value == -9223372036854775808) ||
			(ln.Value != 0 && result/ln.Value != rn.Value) {
			panic(newRuntimeError(ErrIntegerOverflow, "integer overflow in multiplication", b.Token))
		}
	case "/":
		if rn.Value == 0 {
			panic(newRuntimeError(ErrDivisionByZero, "division by zero", b.Token))
		}
		if ln.Value == -9223372036854775808 && rn.Value == -1 {
			panic(newRuntimeError(ErrIntegerOverflow, "integer overflow in division", b.Token))
		}
		result = ln.Value / rn.Value
	default:
		panic(newRuntimeError(ErrTypeMismatch, "unknown binary operator "+b.Op, b.Token))
	}

	out := &ast.Number{Token: b.Token, Value: result}
	out.SetCType(b.GetCType())
	return out
}

func evalUnOp(ctx *EvalContext, u *ast.UnOp) ast.Node {
	x := Eval(ctx, u.X)
	switch u.Op {
	case "-":
		n, ok := x.(*ast.Number)
		if !ok {
			panic(newRuntimeError(ErrTypeMismatch, "unary - requires a numeric operand", u.Token))
		}
		if n.Value == -9223372036854775808 {
			panic(newRuntimeError(ErrIntegerOverflow, "integer overflow negating minimum i64", u.Token))
		}
		out := &ast.Number{Token: u.Token, Value: -n.Value}
		out.SetCType(u.GetCType())
		return out
	case "!":
		b, ok := x.(*ast.Bool)
		if !ok {
			panic(newRuntimeError(ErrTypeMismatch, "unary ! requires a Bool operand", u.Token))
		}
		out := &ast.Bool{Token: u.Token, Value: !b.Value}
		out.SetCType(u.GetCType())
		return out
	default:
		panic(newRuntimeError(ErrTypeMismatch, "unknown unary operator "+u.Op, u.Token))
	}
}

func evalCompare(ctx *EvalContext, c *ast.Compare) ast.Node {
	lhs := Eval(ctx, c.Lhs)
	rhs := Eval(ctx, c.Rhs)
	result := compareValues(c, lhs, rhs)
	out := &ast.Bool{Token: c.Token, Value: result}
	out.SetCType(c.GetCType())
	return out
}

func compareValues(c *ast.Compare, lhs, rhs ast.Node) bool {
	switch l := lhs.(type) {
	case *ast.Number:
		r := rhs.(*ast.Number)
		return numericCompare(c.Op, l.Value, r.Value)
	case *ast.String:
		r := rhs.(*ast.String)
		return stringCompare(c.Op, string(l.Value), string(r.Value))
	case *ast.Bool:
		r := rhs.(*ast.Bool)
		if c.Op == "==" {
			return l.Value == r.Value
		}
		return l.Value != r.Value
	case *ast.Char:
		r := rhs.(*ast.Char)
		return numericCompare(c.Op, int64(l.Value), int64(r.Value))
	default:
		panic(newRuntimeError(ErrTypeMismatch, "unsupported comparison operand type", c.Token))
	}
}

func numericCompare(op string, l, r int64) bool {
	switch op {
	case "==":
		return l == r
	case "!=":
		return l != r
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	default:
		return false
	}
}

func stringCompare(op, l, r string) bool {
	switch op {
	case "==":
		return l == r
	case "!=":
		return l != r
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	default:
		return false
	}
}
