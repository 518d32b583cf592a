package evaluator

import "github.com/hylic-lang/pleroma/internal/ast"

// Msg is the unit the vat scheduler and router move between inbound
// and outbound queues: either a call (Response=false) or a reply to
// an earlier call (Response=true) correlated by PromiseID.
type Msg struct {
	Dest      ast.EntityAddress
	Source    ast.EntityAddress
	Function  string
	Values    []ast.Node
	PromiseID uint32
	Response  bool
	Err       *RuntimeError // set on an error-tagged reply
}

// PromiseResult tracks one outstanding async send until its reply
// arrives (or a synthetic error reply substitutes for one).
type PromiseResult struct {
	Resolved bool
	Results  []ast.Node
	Err      *RuntimeError
	Callback *ast.PromiseRes
}
