package evaluator

import (
	"fmt"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/token"
)

// evalMessageSend implements the MessageSend rule: Sync runs the
// target method to completion in-line and is only legal when the
// target entity lives on the evaluating vat; Async always allocates a
// promise, enqueues a Msg on the vat's outbound queue, and returns a
// PromiseRes wrapping the new promise id.
func evalMessageSend(ctx *EvalContext, m *ast.MessageSend) ast.Node {
	targetVal := Eval(ctx, m.Target)
	ref, ok := targetVal.(*ast.EntityRef)
	if !ok {
		panic(newRuntimeError(ErrTypeMismatch, "message send target must be an EntityRef", m.Token))
	}

	args := make([]ast.Node, len(m.Args))
	for i, a := range m.Args {
		args[i] = Eval(ctx, a)
	}

	if m.Mode == ast.Sync {
		return evalSyncSend(ctx, m, ref, args)
	}
	pr := SendAsync(ctx, ref, m.Method, args, m.ThenChain, m.Token)
	pr.SetCType(m.GetCType())
	return pr
}

func evalSyncSend(ctx *EvalContext, m *ast.MessageSend, ref *ast.EntityRef, args []ast.Node) ast.Node {
	self := ctx.Vat.SelfAddress(ctx.Vat.VatID())
	if ref.Address.NodeID != self.NodeID || ref.Address.VatID != self.VatID {
		panic(newRuntimeError(ErrMethodNotFound, "Sync send is only legal when the target entity is on the same vat", m.Token))
	}
	target, ok := ctx.Vat.FindEntity(ref.Address.EntityID)
	if !ok {
		panic(newRuntimeError(ErrEntityNotFound, fmt.Sprintf("no entity with id %d on this vat", ref.Address.EntityID), m.Token))
	}
	fn, ok := target.Def.Functions[m.Method]
	if !ok {
		panic(newRuntimeError(ErrMethodNotFound, fmt.Sprintf("entity %q has no method %q", target.Def.Name, m.Method), m.Token))
	}

	calleeCtx := &EvalContext{Vat: ctx.Vat, Entity: target, Scope: NewEnclosedScope(target.FileScope), Functions: ctx.Functions}
	return InvokeFunc(calleeCtx, fn, args, m.Token.Line, m.Token.Column)
}

// SendAsync implements the Async half of the MessageSend rule as a
// standalone entry point, so kernel natives (start-program firing
// main asynchronously) can issue a send without building a MessageSend
// AST node. Allocates a promise, enqueues the Msg on the sender's
// outbound queue, and returns the PromiseRes wrapping it.
func SendAsync(ctx *EvalContext, target *ast.EntityRef, method string, args []ast.Node, callback *ast.FuncStmt, tok token.Token) *ast.PromiseRes {
	promiseID := ctx.Vat.NextPromiseID()

	var source ast.EntityAddress
	if ctx.Entity != nil {
		source = ctx.Entity.Address
	}

	msg := &Msg{
		Dest:      target.Address,
		Source:    source,
		Function:  method,
		Values:    args,
		PromiseID: promiseID,
		Response:  false,
	}

	var prCallback *ast.PromiseRes
	if callback != nil {
		prCallback = &ast.PromiseRes{PromiseID: promiseID, Callback: callback}
	}

	// Register the promise before the message becomes visible to any
	// router so the sender always observes its own promise id first.
	ctx.Vat.RegisterPromise(promiseID, &PromiseResult{Callback: prCallback})
	ctx.Vat.EnqueueOutbound(msg)

	pr := &ast.PromiseRes{Token: tok, PromiseID: promiseID, Callback: callback}
	return pr
}

// ResolvePromiseReply implements promise resolution: locate the
// promise by id, mark it resolved, move the reply's values across,
// and — if a .then callback is attached — run it in the originating
// entity's own scope with the results bound as its argument list.
func ResolvePromiseReply(ctx *EvalContext, reply *Msg) {
	pr, ok := ctx.Vat.ResolvePromise(reply.PromiseID)
	if !ok {
		return
	}
	pr.Resolved = true
	pr.Results = reply.Values
	pr.Err = reply.Err

	if pr.Callback == nil || pr.Callback.Callback == nil {
		return
	}
	fn := pr.Callback.Callback
	scope := NewEnclosedScope(ctx.Entity.FileScope)
	for i, p := range fn.Params {
		if i < len(reply.Values) {
			scope.Bind(p.Name, reply.Values[i])
		}
	}
	callCtx := ctx.Derive(scope, CallFrame{Name: fn.Name})
	EvalBody(callCtx, fn.Body)
}
