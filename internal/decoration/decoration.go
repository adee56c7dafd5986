// Package decoration implements the Tree Decoration side table: an
// external map from parse-tree node identity to the {scope, type,
// is_lvalue} annotations the Symbol and Type passes attach, keeping
// the parse tree itself immutable across passes. Grounded on
// other_examples/lhaig-intent__checker.go, which keeps
// `exprTypes map[ast.Expression]*Type` as a field on its Checker
// rather than mutating the AST in place — generalized here into a
// dedicated table keyed on ast.NodeID (stable across passes) instead
// of pointer identity, and carrying scope and l-value-ness alongside
// type, since this compiler's Code pass needs all three.
package decoration

import (
	"fmt"

	"tacgen/internal/ast"
	"tacgen/internal/symtab"
	"tacgen/internal/types"
)

// Entry holds every annotation a node may carry. Zero value means
// "not yet set" for each field independently.
type Entry struct {
	Scope    symtab.ScopeId
	Type     types.TypeId
	IsLValue bool
}

// Table is the decoration side-map, keyed by ast.NodeID.
type Table struct {
	entries map[ast.NodeID]*Entry
}

// NewTable creates an empty decoration Table.
func NewTable() *Table {
	return &Table{entries: map[ast.NodeID]*Entry{}}
}

func (t *Table) entry(id ast.NodeID) *Entry {
	e, ok := t.entries[id]
	if !ok {
		e = &Entry{}
		t.entries[id] = e
	}
	return e
}

// SetScope records the scope opened at node id. Panics if a scope was
// already recorded for this node: a pass-ordering bug, since only the
// Symbol pass ever writes this field, once per program/function node.
func (t *Table) SetScope(id ast.NodeID, scope symtab.ScopeId) {
	e := t.entry(id)
	if e.Scope != symtab.NoScope {
		panic(fmt.Sprintf("decoration: node %d already has a scope decoration", id))
	}
	e.Scope = scope
}

// SetType records the inferred type of node id. Panics on a double
// write for the same reason as SetScope.
func (t *Table) SetType(id ast.NodeID, typ types.TypeId) {
	e := t.entry(id)
	if e.Type != types.NoType {
		panic(fmt.Sprintf("decoration: node %d already has a type decoration", id))
	}
	e.Type = typ
}

// SetLValue records whether node id denotes a storable location.
// Unlike Scope/Type there is no sentinel for "unset" boolean, so this
// setter is idempotent rather than double-write-checked; every caller
// sets it exactly once per node regardless.
func (t *Table) SetLValue(id ast.NodeID, isLValue bool) {
	t.entry(id).IsLValue = isLValue
}

// Scope returns the scope decoration of node id, or symtab.NoScope if unset.
func (t *Table) Scope(id ast.NodeID) symtab.ScopeId {
	if e, ok := t.entries[id]; ok {
		return e.Scope
	}
	return symtab.NoScope
}

// Type returns the type decoration of node id, or types.NoType if unset.
func (t *Table) Type(id ast.NodeID) types.TypeId {
	if e, ok := t.entries[id]; ok {
		return e.Type
	}
	return types.NoType
}

// IsLValue returns the l-value decoration of node id.
func (t *Table) IsLValue(id ast.NodeID) bool {
	if e, ok := t.entries[id]; ok {
		return e.IsLValue
	}
	return false
}
