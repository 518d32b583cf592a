// Package node implements the process-level aggregate spec.md's
// design notes call out as implicit: one node owns the kernel, the
// router, and the set of vats it schedules, and is the only place in
// the module holding mutable global-ish state — everything else is
// constructed fresh per node.
package node

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/hylic-lang/pleroma/internal/analyzer"
	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/config"
	"github.com/hylic-lang/pleroma/internal/evaluator"
	"github.com/hylic-lang/pleroma/internal/kernel"
	"github.com/hylic-lang/pleroma/internal/router"
	"github.com/hylic-lang/pleroma/internal/vat"
)

// Node is one OS-process-level runtime instance: its own kernel, its
// own router, and the vats it has spawned so far. Vats are created on
// demand (the first loaded module always gets vat 0).
type Node struct {
	cfg    *config.NodeConfig
	router *router.Router
	kernel *kernel.Kernel
	fs     *kernel.FsStore

	vatsMu    sync.Mutex
	vats      map[uint32]*vat.Vat
	nextVatID uint32

	functions map[string]*ast.FuncStmt
}

// New constructs a node from its bootstrap config: opens the
// filesystem store, builds the router (without yet serving), and
// loads the kernel's built-in entities.
func New(cfg *config.NodeConfig) (*Node, error) {
	fs, err := kernel.OpenFsStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	r, err := router.New(cfg.NodeID, cfg)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("node: build router: %w", err)
	}

	n := &Node{
		cfg:    cfg,
		router: r,
		fs:     fs,
		vats:   make(map[uint32]*vat.Vat),
	}
	n.kernel = kernel.Load(r, fs)
	return n, nil
}

// LoadModule parses and typesolves a source file, then instantiates
// it on a fresh vat: the kernel entities are bootstrapped first
// (Monad counts itself as the first running program), then the
// module's own entities are created in declaration order, and the
// first one that declares a main method is recorded as Monad's
// pending program before main(0) is sent to Monad itself — "load
// kernel, load module, instantiate Monad, send main."
func (n *Node) LoadModule(path string) error {
	loader := NewFileLoader(filepath.Dir(path))
	prog, parseErrs, err := loader.ParseFile(path)
	if err != nil {
		return err
	}
	if len(parseErrs) > 0 {
		return fmt.Errorf("node: parse errors in %s: %v", path, parseErrs)
	}

	if errs := analyzer.Solve(prog, loader); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("node: type errors in %s: %v", path, msgs)
	}

	n.functions = make(map[string]*ast.FuncStmt, len(prog.Functions))
	for _, fn := range prog.Functions {
		n.functions[fn.Name] = fn
	}

	v := n.spawnVat()

	bootCtx := evaluator.NewEvalContext(v, nil, evaluator.NewScope())
	bootCtx.Functions = n.functions
	monad := n.kernel.LoadSystemEntity(bootCtx, kernel.Monad, config.MonadEntityName)

	var mainRef *ast.EntityRef
	for _, def := range prog.Entities {
		ent := evaluator.CreateEntity(bootCtx, def)
		if _, ok := def.Functions[config.MainMethodName]; ok && mainRef == nil {
			mainRef = &ast.EntityRef{Address: ent.Address}
		}
	}
	if mainRef == nil {
		return fmt.Errorf("node: module %s declares no entity with a %s method", path, config.MainMethodName)
	}

	n.kernel.SetPendingMain(mainRef)

	monadRef := &ast.EntityRef{Address: monad.Address}
	entCtx := evaluator.NewEvalContext(v, monad, evaluator.NewScope())
	entCtx.Functions = n.functions
	evaluator.SendAsync(entCtx, monadRef, config.MainMethodName, []ast.Node{&ast.Number{Value: 0}}, nil, mainRef.Token)
	return nil
}

// spawnVat allocates the next vat id on this node, registers it with
// the router so incoming traffic can be delivered locally, and starts
// its scheduler loop.
func (n *Node) spawnVat() *vat.Vat {
	n.vatsMu.Lock()
	id := n.nextVatID
	n.nextVatID++
	n.vatsMu.Unlock()

	v := vat.New(id, n.cfg.NodeID, n.router, id<<16, n.functions)

	n.vatsMu.Lock()
	n.vats[id] = v
	n.vatsMu.Unlock()

	n.router.RegisterVat(id, v)
	go v.Run()
	return v
}

// Serve starts the router's gRPC listener and blocks until it stops
// or errors.
func (n *Node) Serve() error {
	log.Printf("node %d: listening on %s", n.cfg.NodeID, n.cfg.ListenAddr)
	return n.router.Serve(n.cfg.ListenAddr)
}

func (n *Node) Stop() {
	n.router.Stop()
	n.fs.Close()
}
