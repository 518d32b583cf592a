package kernel

import (
	"testing"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/config"
	"github.com/hylic-lang/pleroma/internal/evaluator"
)

// fakeVat is the minimal evaluator.VatHandle a kernel native needs: an
// entity table, a promise table, and an outbound queue it never drains
// (the kernel-level tests only care that a send was enqueued).
type fakeVat struct {
	entities  map[uint32]*evaluator.Entity
	promises  map[uint32]*evaluator.PromiseResult
	outbound  []*evaluator.Msg
	nextEntID uint32
	nextProm  uint32
}

func newFakeVat() *fakeVat {
	return &fakeVat{entities: make(map[uint32]*evaluator.Entity), promises: make(map[uint32]*evaluator.PromiseResult)}
}

func (f *fakeVat) SelfAddress(vatID uint32) ast.EntityAddress { return ast.EntityAddress{VatID: vatID} }
func (f *fakeVat) NextPromiseID() uint32                      { f.nextProm++; return f.nextProm }
func (f *fakeVat) NextEntityID() uint32                       { f.nextEntID++; return f.nextEntID }
func (f *fakeVat) RegisterPromise(id uint32, pr *evaluator.PromiseResult) {
	f.promises[id] = pr
}
func (f *fakeVat) ResolvePromise(id uint32) (*evaluator.PromiseResult, bool) {
	pr, ok := f.promises[id]
	return pr, ok
}
func (f *fakeVat) EnqueueOutbound(msg *evaluator.Msg) { f.outbound = append(f.outbound, msg) }
func (f *fakeVat) FindEntity(id uint32) (*evaluator.Entity, bool) {
	e, ok := f.entities[id]
	return e, ok
}
func (f *fakeVat) InsertEntity(e *evaluator.Entity) { f.entities[e.Address.EntityID] = e }
func (f *fakeVat) VatID() uint32                    { return 0 }

func TestLoadFreshKernelReportsOneRunningProgram(t *testing.T) {
	k := Load(nil, nil)
	vat := newFakeVat()
	ctx := evaluator.NewEvalContext(vat, nil, evaluator.NewScope())

	monad := k.LoadSystemEntity(ctx, Monad, config.MonadEntityName)
	ctx.Entity = monad

	got := k.monadNPrograms(ctx, nil)
	s, ok := got.(*ast.String)
	if !ok || string(s.Value) != "1" {
		t.Fatalf("n-programs on a fresh kernel = %#v, want String(\"1\")", got)
	}
}

func TestStartProgramIncrementsNPrograms(t *testing.T) {
	k := Load(nil, nil)
	vat := newFakeVat()
	ctx := evaluator.NewEvalContext(vat, nil, evaluator.NewScope())

	monad := k.LoadSystemEntity(ctx, Monad, config.MonadEntityName)
	ctx.Entity = monad

	target := &evaluator.Entity{
		Def:       &ast.EntityDef{Name: "Greeter", Functions: map[string]*ast.FuncStmt{}},
		Address:   ast.EntityAddress{EntityID: 42},
		Data:      map[string]ast.Node{},
		FileScope: evaluator.NewScope(),
	}
	vat.InsertEntity(target)
	ref := &ast.EntityRef{Address: target.Address}

	k.monadStartProgram(ctx, []ast.Node{ref})

	got := k.monadNPrograms(ctx, nil)
	if string(got.(*ast.String).Value) != "2" {
		t.Fatalf("n-programs after start-program = %v, want \"2\"", got)
	}
	if len(vat.outbound) != 1 {
		t.Fatalf("expected start-program to enqueue exactly one async send, got %d", len(vat.outbound))
	}
	sent := vat.outbound[0]
	if sent.Dest != target.Address || sent.Function != "main" {
		t.Errorf("expected an async call to %v#main, got %+v", target.Address, sent)
	}
}

func TestMonadMainStartsThePendingProgram(t *testing.T) {
	k := Load(nil, nil)
	vat := newFakeVat()
	ctx := evaluator.NewEvalContext(vat, nil, evaluator.NewScope())

	monad := k.LoadSystemEntity(ctx, Monad, config.MonadEntityName)
	ctx.Entity = monad

	target := &evaluator.Entity{
		Def:       &ast.EntityDef{Name: "Greeter", Functions: map[string]*ast.FuncStmt{}},
		Address:   ast.EntityAddress{EntityID: 7},
		Data:      map[string]ast.Node{},
		FileScope: evaluator.NewScope(),
	}
	vat.InsertEntity(target)
	k.SetPendingMain(&ast.EntityRef{Address: target.Address})

	k.monadMain(ctx, []ast.Node{&ast.Number{Value: 0}})

	got := k.monadNPrograms(ctx, nil)
	if string(got.(*ast.String).Value) != "2" {
		t.Fatalf("n-programs after main started the pending program = %v, want \"2\"", got)
	}
	if len(vat.outbound) != 1 || vat.outbound[0].Dest != target.Address || vat.outbound[0].Function != "main" {
		t.Fatalf("expected main to fire start-program against the pending ref, got %+v", vat.outbound)
	}

	k.mu.Lock()
	pending := k.pendingMain
	k.mu.Unlock()
	if pending != nil {
		t.Errorf("expected pendingMain to be cleared after main runs, got %+v", pending)
	}
}

func TestMonadMainIsANoOpWithoutAPendingProgram(t *testing.T) {
	k := Load(nil, nil)
	vat := newFakeVat()
	ctx := evaluator.NewEvalContext(vat, nil, evaluator.NewScope())

	monad := k.LoadSystemEntity(ctx, Monad, config.MonadEntityName)
	ctx.Entity = monad

	k.monadMain(ctx, []ast.Node{&ast.Number{Value: 0}})

	got := k.monadNPrograms(ctx, nil)
	if string(got.(*ast.String).Value) != "1" {
		t.Fatalf("n-programs after main with no pending program = %v, want \"1\"", got)
	}
	if len(vat.outbound) != 0 {
		t.Errorf("expected no async send with no pending program, got %+v", vat.outbound)
	}
}

func TestLoadSystemEntityIsIdempotent(t *testing.T) {
	k := Load(nil, nil)
	vat := newFakeVat()
	ctx := evaluator.NewEvalContext(vat, nil, evaluator.NewScope())

	first := k.LoadSystemEntity(ctx, Monad, config.MonadEntityName)
	second := k.LoadSystemEntity(ctx, Monad, config.MonadEntityName)
	if first != second {
		t.Errorf("expected LoadSystemEntity to cache and return the same instance, got distinct entities")
	}
	if len(vat.entities) != 1 {
		t.Errorf("expected exactly one entity created on the vat, got %d", len(vat.entities))
	}
}
