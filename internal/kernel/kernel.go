// Package kernel implements the built-in entities the evaluator
// consumes as foreign calls: Monad (program lifecycle), Io (terminal
// I/O), Net (router introspection), and Fs (a node-local virtual
// filesystem). Each is an ordinary EntityDef whose FuncStmts carry a
// Native Go closure instead of an AST body, so the evaluator's Call
// and MessageSend rules never need to distinguish kernel methods from
// user-defined ones.
package kernel

import (
	"fmt"
	"sync"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/config"
	"github.com/hylic-lang/pleroma/internal/evaluator"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

// SystemModule names one of the kernel's built-in entity families.
type SystemModule int

const (
	Monad SystemModule = iota
	Io
	Net
	Fs
)

func (m SystemModule) String() string {
	switch m {
	case Monad:
		return config.MonadEntityName
	case Io:
		return config.IoEntityName
	case Net:
		return config.NetEntityName
	case Fs:
		return config.FsEntityName
	default:
		return "?"
	}
}

// Router is the slice of router.Router the Net entity needs; kept as
// an interface so kernel doesn't import router directly (router
// itself imports evaluator, and importing it here too is harmless,
// but the node wiring reads cleaner against a narrow seam).
type Router interface {
	PeerCount() int
	Dial(nodeID uint32) error
}

// Kernel holds the native entity registry (kernel_map) and the
// process-wide system-entity cache (system_entities), plus the
// program-lifecycle counter the Monad entity reports through
// n-programs.
type Kernel struct {
	mu             sync.Mutex
	kernelMap      map[SystemModule]map[string]*ast.EntityDef
	systemEntities map[string]*evaluator.Entity
	nRunningPrograms int

	router Router
	fs     *FsStore

	// pendingMain is the module-declared entity Monad.main should hand
	// to start-program the next time it runs. LoadModule sets it once,
	// immediately before bootstrap sends main to Monad.
	pendingMain *ast.EntityRef
}

// SetPendingMain records which entity Monad.main should start the next
// time it runs. Bootstrap calls this once per LoadModule, right before
// sending main to Monad, so Monad.main's native body (which only ever
// receives the standard main(i: u8) argument) knows which entity to
// hand to start-program.
func (k *Kernel) SetPendingMain(ref *ast.EntityRef) {
	k.mu.Lock()
	k.pendingMain = ref
	k.mu.Unlock()
}

// Load builds the kernel's entity definitions. Counting the Monad
// itself, a freshly loaded kernel always reports one running program.
func Load(router Router, fs *FsStore) *Kernel {
	k := &Kernel{
		kernelMap:        make(map[SystemModule]map[string]*ast.EntityDef),
		systemEntities:   make(map[string]*evaluator.Entity),
		nRunningPrograms: 1,
		router:           router,
		fs:               fs,
	}

	k.kernelMap[Monad] = map[string]*ast.EntityDef{config.MonadEntityName: k.buildMonad()}
	k.kernelMap[Io] = map[string]*ast.EntityDef{config.IoEntityName: k.buildIo()}
	k.kernelMap[Net] = map[string]*ast.EntityDef{config.NetEntityName: k.buildNet()}
	k.kernelMap[Fs] = map[string]*ast.EntityDef{config.FsEntityName: k.buildFs()}

	return k
}

// EntityDef returns one kernel module's registered EntityDef by name,
// e.g. EntityDef(Io, "Io").
func (k *Kernel) EntityDef(module SystemModule, name string) (*ast.EntityDef, bool) {
	defs, ok := k.kernelMap[module]
	if !ok {
		return nil, false
	}
	def, ok := defs[name]
	return def, ok
}

// LoadSystemEntity is idempotent: the first call instantiates the
// named kernel entity on ctx's vat and caches it; later calls return
// the cached instance.
func (k *Kernel) LoadSystemEntity(ctx *evaluator.EvalContext, module SystemModule, name string) *evaluator.Entity {
	k.mu.Lock()
	defer k.mu.Unlock()

	if ent, ok := k.systemEntities[name]; ok {
		return ent
	}
	def, ok := k.EntityDef(module, name)
	if !ok {
		panic(fmt.Sprintf("kernel: no such system entity %q", name))
	}
	ent := evaluator.CreateEntity(ctx, def)
	k.systemEntities[name] = ent
	return ent
}

// GetSystemEntityRef resolves a Far BaseEntity-shaped CType naming a
// system entity to its live EntityRef.
func (k *Kernel) GetSystemEntityRef(ctype typesystem.CType) *ast.EntityRef {
	k.mu.Lock()
	ent, ok := k.systemEntities[ctype.EntityName]
	k.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("kernel: system entity %q not yet loaded", ctype.EntityName))
	}
	return &ast.EntityRef{Address: ent.Address}
}

func nativeFunc(name string, params []ast.Param, ret typesystem.CType, fn ast.NativeFunc) *ast.FuncStmt {
	return &ast.FuncStmt{Name: name, Params: params, ReturnType: ret, Native: fn}
}
