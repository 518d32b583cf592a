package kernel

import (
	"strconv"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/config"
	"github.com/hylic-lang/pleroma/internal/evaluator"
	"github.com/hylic-lang/pleroma/internal/token"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

// buildMonad constructs the Monad entity: the program-lifecycle root
// every node bootstraps before loading a user module. Its
// start-program/n-programs pair is the contract user code relies on
// to spawn additional top-level actors and observe how many are live.
func (k *Kernel) buildMonad() *ast.EntityDef {
	functions := map[string]*ast.FuncStmt{
		config.MainMethodName: nativeFunc(config.MainMethodName,
			[]ast.Param{{Name: "i", Type: typesystem.U8()}},
			typesystem.U8(), k.monadMain),
		config.StartProgramMethodName: nativeFunc(config.StartProgramMethodName,
			[]ast.Param{{Name: "eref", Type: typesystem.BaseEntityFar()}},
			typesystem.U8(), k.monadStartProgram),
		config.NProgramsMethodName: nativeFunc(config.NProgramsMethodName,
			nil, typesystem.Str(), k.monadNPrograms),
		"hello": nativeFunc("hello",
			[]ast.Param{{Name: "i", Type: typesystem.U8()}},
			typesystem.U8(), k.monadHello),
		"create": nativeFunc("create", nil, typesystem.U8(), k.monadCreate),
	}
	return &ast.EntityDef{Name: config.MonadEntityName, Functions: functions}
}

// monadMain is the mandatory program entry point: the kernel invokes
// it once, at bootstrap, after the module's entities are created.
// Its body starts the module's designated program by calling
// start-program on whichever entity LoadModule recorded as pending,
// exactly as the end-to-end bootstrap scenario describes ("from
// Monad.main, construct an EntityRef ..., call start-program").
func (k *Kernel) monadMain(rawCtx interface{}, args []ast.Node) ast.Node {
	k.mu.Lock()
	ref := k.pendingMain
	k.pendingMain = nil
	k.mu.Unlock()

	if ref == nil {
		return &ast.Number{Value: 0}
	}
	return k.monadStartProgram(rawCtx, []ast.Node{ref})
}

// monadStartProgram implements start-program(eref): increment the
// running-program count and fire eref's main asynchronously with a
// single argument, matching the original kernel's bootstrap contract.
func (k *Kernel) monadStartProgram(rawCtx interface{}, args []ast.Node) ast.Node {
	ctx := rawCtx.(*evaluator.EvalContext)
	eref, ok := args[0].(*ast.EntityRef)
	if !ok {
		panic("start-program: argument is not an EntityRef")
	}

	k.mu.Lock()
	k.nRunningPrograms++
	k.mu.Unlock()

	evaluator.SendAsync(ctx, eref, config.MainMethodName, []ast.Node{&ast.Number{Value: 0}}, nil, token.Token{})
	return &ast.Number{Value: 0}
}

func (k *Kernel) monadNPrograms(rawCtx interface{}, args []ast.Node) ast.Node {
	k.mu.Lock()
	n := k.nRunningPrograms
	k.mu.Unlock()
	return &ast.String{Value: []byte(strconv.Itoa(n))}
}

func (k *Kernel) monadHello(rawCtx interface{}, args []ast.Node) ast.Node {
	ctx := rawCtx.(*evaluator.EvalContext)
	k.LoadSystemEntity(ctx, Io, config.IoEntityName)
	return &ast.Number{Value: 0}
}

func (k *Kernel) monadCreate(rawCtx interface{}, args []ast.Node) ast.Node {
	return &ast.Number{Value: 0}
}
