package evaluator

import (
	"sync"

	"github.com/hylic-lang/pleroma/internal/ast"
)

// Scope is a chained variable frame, mirroring the lexical scoping a
// function body sees. Reads walk outward to the enclosing scope;
// writes bind in the frame find_symbol actually located, so an
// Assignment to an already-bound name updates it in place rather than
// shadowing it in the current frame.
type Scope struct {
	mu    sync.RWMutex
	store map[string]ast.Node
	outer *Scope
}

func NewScope() *Scope {
	return &Scope{store: make(map[string]ast.Node)}
}

func NewEnclosedScope(outer *Scope) *Scope {
	s := NewScope()
	s.outer = outer
	return s
}

// Find implements find_symbol: look in this frame, then walk outward.
func (s *Scope) Find(name string) (ast.Node, bool) {
	s.mu.RLock()
	v, ok := s.store[name]
	s.mu.RUnlock()
	if ok {
		return v, true
	}
	if s.outer != nil {
		return s.outer.Find(name)
	}
	return nil, false
}

// Bind sets name in this frame specifically, used for parameter
// binding and first-time Assignment.
func (s *Scope) Bind(name string, val ast.Node) {
	s.mu.Lock()
	s.store[name] = val
	s.mu.Unlock()
}

// Update rebinds name wherever it is already bound, walking outward;
// returns false if name is unbound anywhere in the chain.
func (s *Scope) Update(name string, val ast.Node) bool {
	s.mu.Lock()
	_, ok := s.store[name]
	if ok {
		s.store[name] = val
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()
	if s.outer != nil {
		return s.outer.Update(name, val)
	}
	return false
}
