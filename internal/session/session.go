// Package session threads the four compilation collaborators (type
// manager, symbol table, decoration table, error collector) as an
// explicit value, constructed once per compilation and passed by
// pointer to every pass. This replaces the teacher's package-level
// `var symbolTable SymbolTableMap` global in
// compiler/internal/symbol_table.go, which the spec this repository
// follows calls out by name as a pitfall: two compilations running in
// the same process (tests, in particular) must not share state.
package session

import (
	"tacgen/internal/decoration"
	"tacgen/internal/diag"
	"tacgen/internal/symtab"
	"tacgen/internal/types"
)

// Context owns every piece of mutable state a compilation touches.
type Context struct {
	Types   *types.Manager
	Symbols *symtab.Table
	Decor   *decoration.Table
	Diags   *diag.Collector
}

// New constructs a fresh Context with all four collaborators
// initialized empty, ready for the Symbol pass to begin.
func New() *Context {
	return &Context{
		Types:   types.NewManager(),
		Symbols: symtab.NewTable(),
		Decor:   decoration.NewTable(),
		Diags:   diag.NewCollector(),
	}
}
