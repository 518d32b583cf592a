package analyzer

import (
	"strings"
	"testing"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/lexer"
	"github.com/hylic-lang/pleroma/internal/parser"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

type noImportsLoader struct{}

func (noImportsLoader) Load(path string) (*ast.Program, error) { return nil, nil }

func solveSource(t *testing.T, src string) []*typesystem.SolverError {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram("test.pleroma")
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v\nsource:\n%s", errs, src)
	}
	return Solve(prog, noImportsLoader{})
}

func TestSolveWellTypedFunctionHasNoErrors(t *testing.T) {
	errs := solveSource(t, `
func add(x: i64, y: i64): i64 {
	return x + y
}
`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestSolveReturnTypeMismatch(t *testing.T) {
	errs := solveSource(t, `
func bad(): i64 {
	return "oops"
}
`)
	if len(errs) == 0 {
		t.Fatalf("expected a return-type mismatch error, got none")
	}
	found := false
	for _, e := range errs {
		if strings.Contains(e.Message, "return type") {
			found = true
		}
	}
	if !found {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Message)
		}
		t.Fatalf("expected a message mentioning return type, got: %v", msgs)
	}
}

func TestSolveBinOpOperandMismatch(t *testing.T) {
	errs := solveSource(t, `
func bad(): i64 {
	x :- 1
	y :- "s"
	return x + y
}
`)
	if len(errs) == 0 {
		t.Fatalf("expected an operand-type mismatch error, got none")
	}
}

func TestSolveDeduplicatesRepeatedErrorsAtSameLocation(t *testing.T) {
	errs := solveSource(t, `
func bad(): i64 {
	return "oops"
}
`)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one deduplicated error, got %d: %v", len(errs), errs)
	}
}
