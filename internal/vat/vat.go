// Package vat implements the single-threaded per-actor-container
// message loop: one goroutine per vat, draining an inbound queue
// guarded by a mutex and condition variable (the idiomatic Go
// substitute for the original runtime's polling transport-service
// wait), dispatching each Msg to completion before the next is
// considered, and handing outbound traffic to a Router once the turn
// completes.
package vat

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/evaluator"
)

// Router is the slice of the node's router a Vat needs to hand off
// outbound traffic; implemented by internal/router.Router.
type Router interface {
	Route(msg *evaluator.Msg)
}

// Vat is one actor container: its own entity table, promise table,
// and inbound/outbound queues, run by exactly one goroutine.
type Vat struct {
	id     uint32
	nodeID uint32
	router Router

	mu       sync.Mutex
	cond     *sync.Cond
	inbound  []*evaluator.Msg
	outbound []*evaluator.Msg
	closed   bool

	entitiesMu sync.RWMutex
	entities   map[uint32]*evaluator.Entity

	promisesMu sync.Mutex
	promises   map[uint32]*evaluator.PromiseResult

	nextEntityID  uint32
	nextPromiseID uint32

	runN uint64

	Functions map[string]*ast.FuncStmt
}

// New builds a vat with its promise id counter seeded from
// vatUniqueBase so ids stay globally unique within the node even
// across several vats allocating concurrently.
func New(id, nodeID uint32, router Router, vatUniqueBase uint32, functions map[string]*ast.FuncStmt) *Vat {
	v := &Vat{
		id:            id,
		nodeID:        nodeID,
		router:        router,
		entities:      make(map[uint32]*evaluator.Entity),
		promises:      make(map[uint32]*evaluator.PromiseResult),
		nextPromiseID: vatUniqueBase,
		Functions:     functions,
	}
	v.cond = sync.NewCond(&v.mu)
	return v
}

func (v *Vat) ID() uint32 { return v.id }

// --- evaluator.VatHandle ---

func (v *Vat) VatID() uint32 { return v.id }

func (v *Vat) SelfAddress(vatID uint32) ast.EntityAddress {
	return ast.EntityAddress{NodeID: v.nodeID, VatID: vatID}
}

func (v *Vat) NextPromiseID() uint32 {
	return atomic.AddUint32(&v.nextPromiseID, 1) - 1
}

func (v *Vat) NextEntityID() uint32 {
	return atomic.AddUint32(&v.nextEntityID, 1) - 1
}

func (v *Vat) RegisterPromise(id uint32, pr *evaluator.PromiseResult) {
	v.promisesMu.Lock()
	v.promises[id] = pr
	v.promisesMu.Unlock()
}

func (v *Vat) ResolvePromise(id uint32) (*evaluator.PromiseResult, bool) {
	v.promisesMu.Lock()
	defer v.promisesMu.Unlock()
	pr, ok := v.promises[id]
	return pr, ok
}

// PromiseStatus exposes a promise's current state for callers
// (kernel natives, tests) waiting on a result outside the eval loop.
func (v *Vat) PromiseStatus(id uint32) (*evaluator.PromiseResult, bool) {
	return v.ResolvePromise(id)
}

// EnqueueOutbound queues msg for routing and wakes the run loop if it
// is parked in popInbound — needed because the very first message a
// vat ever sends (the bootstrap send to Monad) is enqueued from
// outside any turn, before anything has ever been delivered to this
// vat's inbound queue.
func (v *Vat) EnqueueOutbound(msg *evaluator.Msg) {
	v.mu.Lock()
	v.outbound = append(v.outbound, msg)
	v.cond.Signal()
	v.mu.Unlock()
}

func (v *Vat) FindEntity(id uint32) (*evaluator.Entity, bool) {
	v.entitiesMu.RLock()
	e, ok := v.entities[id]
	v.entitiesMu.RUnlock()
	return e, ok
}

func (v *Vat) InsertEntity(e *evaluator.Entity) {
	v.entitiesMu.Lock()
	v.entities[e.Address.EntityID] = e
	v.entitiesMu.Unlock()
}

// --- inbound queue ---

// Deliver enqueues msg for this vat and wakes its loop. Called by the
// router (cross-node) or directly by another vat on the same node.
func (v *Vat) Deliver(msg *evaluator.Msg) {
	v.mu.Lock()
	v.inbound = append(v.inbound, msg)
	v.cond.Signal()
	v.mu.Unlock()
}

// Close stops the run loop after its current turn.
func (v *Vat) Close() {
	v.mu.Lock()
	v.closed = true
	v.cond.Signal()
	v.mu.Unlock()
}

// popInbound pops the next inbound message, if any. It does not block
// and does not consider outbound work; Run's own wait loop handles
// waking for either queue.
func (v *Vat) popInbound() (*evaluator.Msg, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.inbound) == 0 {
		return nil, false
	}
	msg := v.inbound[0]
	v.inbound = v.inbound[1:]
	return msg, true
}

// Run is the vat's scheduler loop: wait for inbound or outbound work
// (or closure), drain outbound to the router, dispatch one inbound
// message if there is one, repeat. Intended to run on its own
// goroutine for the lifetime of the vat.
func (v *Vat) Run() {
	for {
		v.mu.Lock()
		for len(v.inbound) == 0 && len(v.outbound) == 0 && !v.closed {
			v.cond.Wait()
		}
		stopped := v.closed && len(v.inbound) == 0 && len(v.outbound) == 0
		v.mu.Unlock()
		if stopped {
			return
		}

		v.drainOutbound()

		if msg, ok := v.popInbound(); ok {
			v.processTurn(msg)
			atomic.AddUint64(&v.runN, 1)
		}
	}
}

// processTurn implements steps 2-4 of the scheduler: locate the
// destination entity, resolve a reply or dispatch a call, and recover
// any RuntimeError so it becomes an error-tagged reply instead of
// taking down the goroutine.
func (v *Vat) processTurn(msg *evaluator.Msg) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("vat %d: recovered from panic processing turn: %v", v.id, r)
		}
	}()

	dest, ok := v.FindEntity(msg.Dest.EntityID)
	if !ok {
		if !msg.Response && msg.PromiseID != 0 {
			v.replyError(msg, evaluator.ErrEntityNotFound, "entity not found on destination vat")
		}
		return
	}

	if msg.Response {
		v.resolveReply(msg)
		return
	}

	v.dispatchCall(msg, dest)
}

func (v *Vat) resolveReply(msg *evaluator.Msg) {
	sender, ok := v.FindEntity(msg.Dest.EntityID)
	if !ok {
		return
	}
	ctx := &evaluator.EvalContext{Vat: v, Entity: sender, Scope: evaluator.NewEnclosedScope(sender.FileScope), Functions: v.Functions}
	evaluator.ResolvePromiseReply(ctx, msg)
}

func (v *Vat) dispatchCall(msg *evaluator.Msg, dest *evaluator.Entity) {
	fn, ok := dest.Def.Functions[msg.Function]
	if !ok {
		if msg.PromiseID != 0 {
			v.replyError(msg, evaluator.ErrMethodNotFound, "no such method: "+msg.Function)
		}
		return
	}

	result := func() (res ast.Node) {
		defer func() {
			if r := recover(); r != nil {
				if rerr, ok := r.(*evaluator.RuntimeError); ok {
					if msg.PromiseID != 0 {
						v.replyErrorWith(msg, rerr)
					}
					res = nil
					return
				}
				panic(r)
			}
		}()
		ctx := &evaluator.EvalContext{Vat: v, Entity: dest, Scope: evaluator.NewEnclosedScope(dest.FileScope), Functions: v.Functions}
		return evaluator.InvokeFunc(ctx, fn, msg.Values, 0, 0)
	}()

	if result == nil {
		return
	}
	if msg.PromiseID != 0 {
		v.EnqueueOutbound(&evaluator.Msg{
			Dest:      msg.Source,
			Source:    msg.Dest,
			PromiseID: msg.PromiseID,
			Response:  true,
			Values:    []ast.Node{result},
		})
	}
}

func (v *Vat) replyError(msg *evaluator.Msg, kind, message string) {
	v.replyErrorWith(msg, &evaluator.RuntimeError{Kind: kind, Message: message})
}

func (v *Vat) replyErrorWith(msg *evaluator.Msg, rerr *evaluator.RuntimeError) {
	v.EnqueueOutbound(&evaluator.Msg{
		Dest:      msg.Source,
		Source:    msg.Dest,
		PromiseID: msg.PromiseID,
		Response:  true,
		Err:       rerr,
	})
}

func (v *Vat) drainOutbound() {
	v.mu.Lock()
	batch := v.outbound
	v.outbound = nil
	v.mu.Unlock()

	for _, msg := range batch {
		if v.router != nil {
			v.router.Route(msg)
		}
	}
}
