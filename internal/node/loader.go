package node

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/config"
	"github.com/hylic-lang/pleroma/internal/lexer"
	"github.com/hylic-lang/pleroma/internal/parser"
	"github.com/hylic-lang/pleroma/internal/utils"
)

// FileLoader resolves import paths against a base directory and
// parses each file at most once, satisfying analyzer.ModuleLoader.
// Caching is keyed by the resolved absolute path so a module imported
// from two different call sites is only parsed once.
type FileLoader struct {
	baseDir string
	cache   map[string]*ast.Program
}

func NewFileLoader(baseDir string) *FileLoader {
	return &FileLoader{baseDir: baseDir, cache: make(map[string]*ast.Program)}
}

func (l *FileLoader) Load(path string) (*ast.Program, error) {
	resolved := utils.ResolveImportPath(l.baseDir, path)
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(l.baseDir, resolved)
	}
	if !config.HasSourceExt(resolved) {
		resolved += config.SourceFileExt
	}

	if prog, ok := l.cache[resolved]; ok {
		return prog, nil
	}

	src, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("node: read import %q: %w", path, err)
	}
	prog := parseSource(resolved, string(src))
	l.cache[resolved] = prog
	return prog, nil
}

// ParseFile is the loader's own entry point for the module the node
// was started with, sharing the same cache so a later import of the
// same file is not re-parsed.
func (l *FileLoader) ParseFile(path string) (*ast.Program, []string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("node: read module %q: %w", path, err)
	}
	lx := lexer.New(string(src))
	p := parser.New(lx)
	prog := p.ParseProgram(path)
	if errs := p.Errors(); len(errs) > 0 {
		return prog, errs, nil
	}
	l.cache[path] = prog
	return prog, nil, nil
}

func parseSource(file, src string) *ast.Program {
	lx := lexer.New(src)
	p := parser.New(lx)
	return p.ParseProgram(file)
}
