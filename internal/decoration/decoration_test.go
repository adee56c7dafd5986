package decoration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tacgen/internal/ast"
	"tacgen/internal/symtab"
	"tacgen/internal/types"
)

func TestTable_SetAndGet(t *testing.T) {
	tbl := NewTable()
	tm := types.NewManager()
	const node ast.NodeID = 7

	tbl.SetScope(node, symtab.ScopeId(3))
	tbl.SetType(node, tm.CreateInteger())
	tbl.SetLValue(node, true)

	assert.Equal(t, symtab.ScopeId(3), tbl.Scope(node))
	assert.True(t, tm.IsInteger(tbl.Type(node)))
	assert.True(t, tbl.IsLValue(node))
}

func TestTable_UnsetNodeReturnsZeroValues(t *testing.T) {
	tbl := NewTable()
	const node ast.NodeID = 99

	assert.Equal(t, symtab.NoScope, tbl.Scope(node))
	assert.Equal(t, types.NoType, tbl.Type(node))
	assert.False(t, tbl.IsLValue(node))
}

func TestTable_DoubleWritePanics(t *testing.T) {
	tbl := NewTable()
	tm := types.NewManager()
	const node ast.NodeID = 1

	tbl.SetType(node, tm.CreateInteger())
	assert.Panics(t, func() { tbl.SetType(node, tm.CreateFloat()) })

	tbl.SetScope(node, symtab.ScopeId(1))
	assert.Panics(t, func() { tbl.SetScope(node, symtab.ScopeId(2)) })
}
