package analyzer

import (
	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

// FuncSig is one function or method's solved signature.
type FuncSig struct {
	ReturnType typesystem.CType
	ParamTypes []typesystem.CType
}

// TopTypes is the signature table built by record_top_types: every
// top-level function and every entity method's signature for this
// module. Cross-module qualified resolution (alias::Entity::method)
// isn't implemented — see DESIGN.md — so an imported module's own
// signatures are never merged into this table; imports are only
// resolved far enough to confirm they exist.
type TopTypes struct {
	Functions map[string]FuncSig
	Entities  map[string]map[string]FuncSig
}

func newTopTypes() *TopTypes {
	return &TopTypes{
		Functions: make(map[string]FuncSig),
		Entities:  make(map[string]map[string]FuncSig),
	}
}

// ModuleLoader resolves an import path to its parsed Program, so
// record_top_types can walk transitively through imports.
type ModuleLoader interface {
	Load(path string) (*ast.Program, error)
}

func sigOf(fn *ast.FuncStmt) FuncSig {
	sig := FuncSig{ReturnType: fn.ReturnType}
	for _, p := range fn.Params {
		sig.ParamTypes = append(sig.ParamTypes, p.Type)
	}
	return sig
}

// recordTopTypes implements spec's record_top_types: collect every
// entity's per-method signature for this module, then confirm every
// import actually resolves and parses (visited by path so a module
// imported twice is only loaded once). Imported modules' own
// signatures are not merged anywhere — see the TopTypes doc comment —
// so a reference to a symbol that only exists in an imported module
// resolves exactly as an undeclared one would.
func recordTopTypes(module *ast.Program, loader ModuleLoader, visited map[string]bool) *TopTypes {
	tt := newTopTypes()

	for _, fn := range module.Functions {
		tt.Functions[fn.Name] = sigOf(fn)
	}

	for _, ent := range module.Entities {
		methods := make(map[string]FuncSig)
		for name, fn := range ent.Functions {
			methods[name] = sigOf(fn)
		}
		tt.Entities[ent.Name] = methods
	}

	if loader == nil {
		return tt
	}

	for _, imp := range module.Imports {
		if visited[imp.Path] {
			continue
		}
		visited[imp.Path] = true
		if sub, err := loader.Load(imp.Path); err == nil {
			recordTopTypes(sub, loader, visited)
		}
		// an unresolved import surfaces as an unresolved-symbol error
		// at whatever use site references one of its symbols
	}

	return tt
}
