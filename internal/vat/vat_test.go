package vat

import (
	"testing"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/evaluator"
)

type fakeRouter struct {
	routed []*evaluator.Msg
}

func (f *fakeRouter) Route(msg *evaluator.Msg) {
	f.routed = append(f.routed, msg)
}

func doubleFn() *ast.FuncStmt {
	return &ast.FuncStmt{
		Name: "double",
		Native: func(ctx interface{}, args []ast.Node) ast.Node {
			n := args[0].(*ast.Number)
			return &ast.Number{Value: n.Value * 2}
		},
	}
}

func TestDispatchCallRepliesOnPromise(t *testing.T) {
	router := &fakeRouter{}
	v := New(0, 0, router, 0, nil)

	def := &ast.EntityDef{Name: "Doubler", Functions: map[string]*ast.FuncStmt{"double": doubleFn()}}
	ent := &evaluator.Entity{Def: def, Address: ast.EntityAddress{NodeID: 0, VatID: 0, EntityID: 0}, Data: map[string]ast.Node{}, FileScope: evaluator.NewScope()}
	v.InsertEntity(ent)

	msg := &evaluator.Msg{
		Dest:      ent.Address,
		Source:    ast.EntityAddress{NodeID: 0, VatID: 0, EntityID: 99},
		Function:  "double",
		Values:    []ast.Node{&ast.Number{Value: 21}},
		PromiseID: 7,
	}
	v.processTurn(msg)
	v.drainOutbound()

	if len(router.routed) != 1 {
		t.Fatalf("expected 1 routed reply, got %d", len(router.routed))
	}
	reply := router.routed[0]
	if !reply.Response || reply.PromiseID != 7 {
		t.Fatalf("reply not tagged as a response to promise 7: %+v", reply)
	}
	got := reply.Values[0].(*ast.Number).Value
	if got != 42 {
		t.Errorf("double(21) = %d, want 42", got)
	}
}

func TestDispatchCallUnknownMethodRepliesMethodNotFound(t *testing.T) {
	router := &fakeRouter{}
	v := New(0, 0, router, 0, nil)

	def := &ast.EntityDef{Name: "Empty", Functions: map[string]*ast.FuncStmt{}}
	ent := &evaluator.Entity{Def: def, Address: ast.EntityAddress{EntityID: 0}, Data: map[string]ast.Node{}, FileScope: evaluator.NewScope()}
	v.InsertEntity(ent)

	msg := &evaluator.Msg{Dest: ent.Address, Function: "missing", PromiseID: 3}
	v.processTurn(msg)
	v.drainOutbound()

	if len(router.routed) != 1 {
		t.Fatalf("expected 1 routed error reply, got %d", len(router.routed))
	}
	if router.routed[0].Err == nil || router.routed[0].Err.Kind != evaluator.ErrMethodNotFound {
		t.Fatalf("expected ErrMethodNotFound, got %+v", router.routed[0].Err)
	}
}

func TestResolveReplyMarksPromiseResolved(t *testing.T) {
	v := New(0, 0, &fakeRouter{}, 0, nil)

	sender := &evaluator.Entity{
		Def:       &ast.EntityDef{Name: "Sender", Functions: map[string]*ast.FuncStmt{}},
		Address:   ast.EntityAddress{EntityID: 5},
		Data:      map[string]ast.Node{},
		FileScope: evaluator.NewScope(),
	}
	v.InsertEntity(sender)

	pr := &evaluator.PromiseResult{}
	v.RegisterPromise(11, pr)

	reply := &evaluator.Msg{
		Dest:      sender.Address, // a reply's Dest is the original sender
		PromiseID: 11,
		Response:  true,
		Values:    []ast.Node{&ast.Number{Value: 1}},
	}
	v.processTurn(reply)

	status, ok := v.PromiseStatus(11)
	if !ok || !status.Resolved {
		t.Fatalf("expected promise 11 to be resolved, got %+v ok=%v", status, ok)
	}
	if len(status.Results) != 1 || status.Results[0].(*ast.Number).Value != 1 {
		t.Errorf("unexpected promise results: %+v", status.Results)
	}
}
