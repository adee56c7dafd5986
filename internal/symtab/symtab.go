// Package symtab implements the Symbol Table: a stack of lexical
// scopes during the Symbol pass, with every scope retained afterward
// so later passes can re-enter it by id. Grounded on the scope-stack
// shape of other_examples/cpunion-vox-lang__scope.go (pushScope/
// popScope/lookupVar walking a slice top-down) and the parent-linked
// scope.lookup/scope.define split in
// other_examples/andrewchambers-cc__scope.go, generalized into the full
// operation set (push_existing, find_in_current, add_function,
// no_main_properly_declared, ...) this compiler's Symbol and Type
// passes need. The teacher's own symbol table is class-keyed rather
// than scope-stacked (Jack has no nested lexical scoping), so it
// contributes the "functions and locals are different kinds of
// symbol" idea but not the stack mechanics.
package symtab

import "tacgen/internal/types"

// ScopeId identifies a scope for the lifetime of a compilation.
type ScopeId uint32

// NoScope is the invalid ScopeId.
const NoScope ScopeId = 0

// Kind distinguishes what a Symbol denotes.
type Kind int

const (
	Local Kind = iota
	Parameter
	Function
)

// Symbol is a named, typed entry in a scope.
type Symbol struct {
	Name string
	Kind Kind
	Type types.TypeId
}

// Scope is an ordered sequence of name-to-Symbol bindings. Order of
// insertion is preserved in Names for deterministic iteration (e.g.
// when the driver's -emit-scopes output lists a scope's bindings).
type Scope struct {
	id       ScopeId
	name     string
	parent   ScopeId // NoScope for the global scope
	bindings map[string]*Symbol
	Names    []string
}

// Table is the stack of currently-open scopes plus the full set of
// every scope ever opened, indexed by id, so a closed scope remains
// reachable after it is popped.
type Table struct {
	scopes []*Scope // open stack, index 0 is the global scope
	all    map[ScopeId]*Scope
	nextID ScopeId
}

// NewTable creates an empty Table with no open scope.
func NewTable() *Table {
	return &Table{all: map[ScopeId]*Scope{}}
}

// PushNewScope opens a fresh scope named name, nested under the
// current top of stack (or global if the stack is empty), and returns
// its id.
func (t *Table) PushNewScope(name string) ScopeId {
	t.nextID++
	parent := NoScope
	if len(t.scopes) > 0 {
		parent = t.scopes[len(t.scopes)-1].id
	}
	s := &Scope{id: t.nextID, name: name, parent: parent, bindings: map[string]*Symbol{}}
	t.all[s.id] = s
	t.scopes = append(t.scopes, s)
	return s.id
}

// PushExisting re-opens a previously closed scope by id, for a later
// pass that needs to resolve names inside it again.
func (t *Table) PushExisting(id ScopeId) {
	if s, ok := t.all[id]; ok {
		t.scopes = append(t.scopes, s)
	}
}

// Pop closes the current top-of-stack scope. The scope is retained in
// the table and can be re-entered later via PushExisting.
func (t *Table) Pop() {
	if len(t.scopes) == 0 {
		return
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Current returns the id of the currently open scope, or NoScope if
// the stack is empty.
func (t *Table) Current() ScopeId {
	if len(t.scopes) == 0 {
		return NoScope
	}
	return t.scopes[len(t.scopes)-1].id
}

func (t *Table) scope(id ScopeId) *Scope {
	return t.all[id]
}

// FindInCurrent reports whether name is bound directly in the
// currently open scope (not an ancestor).
func (t *Table) FindInCurrent(name string) bool {
	if len(t.scopes) == 0 {
		return false
	}
	_, ok := t.scopes[len(t.scopes)-1].bindings[name]
	return ok
}

// FindInStack searches the open scope stack top-down (current scope
// first, then enclosing scopes) and returns the id of the nearest
// scope binding name, or NoScope if none does.
func (t *Table) FindInStack(name string) ScopeId {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if _, ok := t.scopes[i].bindings[name]; ok {
			return t.scopes[i].id
		}
	}
	return NoScope
}

func (t *Table) add(name string, kind Kind, typ types.TypeId) bool {
	if len(t.scopes) == 0 {
		return false
	}
	cur := t.scopes[len(t.scopes)-1]
	if _, exists := cur.bindings[name]; exists {
		return false
	}
	cur.bindings[name] = &Symbol{Name: name, Kind: kind, Type: typ}
	cur.Names = append(cur.Names, name)
	return true
}

// AddLocal declares name as a local variable in the current scope.
// Reports false (and adds nothing) if name already exists there,
// preserving the first binding as spec requires.
func (t *Table) AddLocal(name string, typ types.TypeId) bool {
	return t.add(name, Local, typ)
}

// AddParameter declares name as a function parameter in the current scope.
func (t *Table) AddParameter(name string, typ types.TypeId) bool {
	return t.add(name, Parameter, typ)
}

// AddFunction declares name as a function in the current scope
// (functions live in the global scope by construction: the Symbol
// pass only calls this after popping back out of the function's body).
func (t *Table) AddFunction(name string, funcType types.TypeId) bool {
	return t.add(name, Function, funcType)
}

// Lookup resolves name by searching the open scope stack, returning
// its Symbol and true if found.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].bindings[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// TypeOf returns the type of name if it is bound anywhere in the
// currently open scope stack.
func (t *Table) TypeOf(name string) (types.TypeId, bool) {
	sym, ok := t.Lookup(name)
	if !ok {
		return types.NoType, false
	}
	return sym.Type, true
}

// IsFunction reports whether name resolves to a function symbol.
func (t *Table) IsFunction(name string) bool {
	sym, ok := t.Lookup(name)
	return ok && sym.Kind == Function
}

// NoMainProperlyDeclared reports whether scope id (expected to be the
// global scope) lacks a symbol "main" that is a void-returning,
// zero-parameter function. tm is used to inspect the function type's
// signature. The scope is taken explicitly, rather than assumed to be
// the bottom of the open stack, because this check runs after the
// Symbol pass has already popped back out of the global scope.
func (t *Table) NoMainProperlyDeclared(tm *types.Manager, id ScopeId) bool {
	sym, ok := t.SymbolIn(id, "main")
	if !ok || sym.Kind != Function {
		return true
	}
	if !tm.IsFunction(sym.Type) {
		return true
	}
	return !(tm.IsVoid(tm.FuncReturn(sym.Type)) && len(tm.FuncParams(sym.Type)) == 0)
}

// ScopeNames returns the binding order of scope id, for callers (such
// as the driver's -emit-scopes output) that need a stable iteration
// order over a scope's symbols.
func (t *Table) ScopeNames(id ScopeId) []string {
	s := t.scope(id)
	if s == nil {
		return nil
	}
	return s.Names
}

// SymbolIn looks up name directly within scope id, without walking to
// its ancestors. Used where a specific scope is already known (e.g.
// NoMainProperlyDeclared looking for "main" in the global scope) and a
// direct binding lookup is wanted.
func (t *Table) SymbolIn(id ScopeId, name string) (*Symbol, bool) {
	s := t.scope(id)
	if s == nil {
		return nil, false
	}
	sym, ok := s.bindings[name]
	return sym, ok
}
