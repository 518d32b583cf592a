package router

import (
	"testing"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/evaluator"
)

func TestMain(m *testing.M) {
	if err := loadDescriptor(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestValueRoundTripNumber(t *testing.T) {
	in := &ast.Number{Value: 42}
	msg, err := nodeToValueMsg(in)
	if err != nil {
		t.Fatalf("nodeToValueMsg: %v", err)
	}
	out, err := valueMsgToNode(msg)
	if err != nil {
		t.Fatalf("valueMsgToNode: %v", err)
	}
	n, ok := out.(*ast.Number)
	if !ok || n.Value != 42 {
		t.Errorf("got %#v, want Number{42}", out)
	}
}

func TestValueRoundTripList(t *testing.T) {
	in := &ast.List{Elements: []ast.Expression{&ast.Number{Value: 1}, &ast.Number{Value: 2}}}
	msg, err := nodeToValueMsg(in)
	if err != nil {
		t.Fatalf("nodeToValueMsg: %v", err)
	}
	out, err := valueMsgToNode(msg)
	if err != nil {
		t.Fatalf("valueMsgToNode: %v", err)
	}
	list, ok := out.(*ast.List)
	if !ok || len(list.Elements) != 2 {
		t.Fatalf("got %#v, want a 2-element List", out)
	}
	if list.Elements[0].(*ast.Number).Value != 1 || list.Elements[1].(*ast.Number).Value != 2 {
		t.Errorf("unexpected list contents: %#v", list.Elements)
	}
}

func TestValueRoundTripEntityRef(t *testing.T) {
	in := &ast.EntityRef{Address: ast.EntityAddress{NodeID: 1, VatID: 2, EntityID: 3}}
	msg, err := nodeToValueMsg(in)
	if err != nil {
		t.Fatalf("nodeToValueMsg: %v", err)
	}
	out, err := valueMsgToNode(msg)
	if err != nil {
		t.Fatalf("valueMsgToNode: %v", err)
	}
	ref, ok := out.(*ast.EntityRef)
	if !ok || ref.Address != in.Address {
		t.Errorf("got %#v, want %#v", out, in)
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	in := &evaluator.Msg{
		Dest:      ast.EntityAddress{NodeID: 1, VatID: 2, EntityID: 3},
		Source:    ast.EntityAddress{NodeID: 4, VatID: 5, EntityID: 6},
		Function:  "greet",
		Values:    []ast.Node{&ast.String{Value: []byte("hi")}},
		PromiseID: 77,
		Response:  true,
	}
	env, err := msgToEnvelope(in)
	if err != nil {
		t.Fatalf("msgToEnvelope: %v", err)
	}
	out, err := envelopeToMsg(env)
	if err != nil {
		t.Fatalf("envelopeToMsg: %v", err)
	}
	if out.Dest != in.Dest || out.Source != in.Source || out.Function != in.Function || out.PromiseID != in.PromiseID || out.Response != in.Response {
		t.Errorf("got %+v, want %+v", out, in)
	}
	if len(out.Values) != 1 || string(out.Values[0].(*ast.String).Value) != "hi" {
		t.Errorf("unexpected values: %+v", out.Values)
	}
}

func TestEnvelopeRoundTripError(t *testing.T) {
	in := &evaluator.Msg{
		PromiseID: 1,
		Response:  true,
		Err:       &evaluator.RuntimeError{Kind: evaluator.ErrDivisionByZero, Message: "division by zero"},
	}
	env, err := msgToEnvelope(in)
	if err != nil {
		t.Fatalf("msgToEnvelope: %v", err)
	}
	out, err := envelopeToMsg(env)
	if err != nil {
		t.Fatalf("envelopeToMsg: %v", err)
	}
	if out.Err == nil || out.Err.Kind != evaluator.ErrDivisionByZero || out.Err.Message != "division by zero" {
		t.Errorf("got %+v, want the original RuntimeError preserved", out.Err)
	}
}
