package evaluator

import (
	"sync"

	"github.com/hylic-lang/pleroma/internal/ast"
)

// Entity is one actor instance: a shared, immutable EntityDef paired
// with this instance's own address, mutable data, and a read-only
// file-scope snapshot taken at instantiation. Data is mutated only by
// methods running on the owning vat, so it needs no lock beyond the
// vat's own turn-atomicity guarantee — the mutex here only guards
// against the evaluator being handed to test code from another
// goroutine.
type Entity struct {
	mu        sync.Mutex
	Def       *ast.EntityDef
	Address   ast.EntityAddress
	Data      map[string]ast.Node
	FileScope *Scope
}

func (e *Entity) GetData(name string) (ast.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.Data[name]
	return v, ok
}

func (e *Entity) SetData(name string, val ast.Node) {
	e.mu.Lock()
	e.Data[name] = val
	e.mu.Unlock()
}

// VatHandle is the slice of Vat's API the evaluator needs to issue
// sends, allocate promises, and create entities, without importing
// the vat package (which itself imports evaluator for Msg/Entity).
type VatHandle interface {
	SelfAddress(vatID uint32) ast.EntityAddress
	NextPromiseID() uint32
	NextEntityID() uint32
	RegisterPromise(id uint32, pr *PromiseResult)
	ResolvePromise(id uint32) (*PromiseResult, bool)
	EnqueueOutbound(msg *Msg)
	FindEntity(id uint32) (*Entity, bool)
	InsertEntity(e *Entity)
	VatID() uint32
}

// EvalContext is the triple the evaluator threads through every
// recursive eval call: which vat is running, which entity's method is
// executing, and the current lexical scope.
type EvalContext struct {
	Vat       VatHandle
	Entity    *Entity
	Scope     *Scope
	CallStack []CallFrame
	Functions map[string]*ast.FuncStmt // module-level free functions, shared across a node's loaded module
}

func NewEvalContext(vat VatHandle, entity *Entity, scope *Scope) *EvalContext {
	return &EvalContext{Vat: vat, Entity: entity, Scope: scope}
}

// Derive makes a child EvalContext for a new call frame: same vat,
// entity, and function registry, but its own scope and call stack
// entry.
func (ctx *EvalContext) Derive(scope *Scope, frame CallFrame) *EvalContext {
	stack := make([]CallFrame, len(ctx.CallStack), len(ctx.CallStack)+1)
	copy(stack, ctx.CallStack)
	stack = append(stack, frame)
	return &EvalContext{Vat: ctx.Vat, Entity: ctx.Entity, Scope: scope, CallStack: stack, Functions: ctx.Functions}
}

// CreateEntity implements create_entity: allocate an id, deep-copy the
// def's declared data fields, snapshot the file scope, and register
// the new Entity on the owning vat.
func CreateEntity(ctx *EvalContext, def *ast.EntityDef) *Entity {
	id := ctx.Vat.NextEntityID()
	addr := ctx.Vat.SelfAddress(ctx.Vat.VatID())
	addr.EntityID = id

	data := make(map[string]ast.Node, len(def.Data))
	for _, f := range def.Data {
		if f.Init != nil {
			data[f.Name] = Eval(ctx, f.Init)
		} else {
			data[f.Name] = &ast.None{}
		}
	}

	ent := &Entity{
		Def:       def,
		Address:   addr,
		Data:      data,
		FileScope: ctx.Scope,
	}
	ctx.Vat.InsertEntity(ent)
	return ent
}
