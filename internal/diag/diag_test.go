package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ReportAndHasErrors(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.HasErrors())
	c.Report(UndeclaredIdent, 3, 5, "use of undeclared identifier %q", "x")
	assert.True(t, c.HasErrors())
}

func TestCollector_DiagnosticsSortedByPositionNotReportOrder(t *testing.T) {
	c := NewCollector()
	c.Report(UndeclaredIdent, 5, 1, "second by line")
	c.Report(DeclaredIdent, 1, 9, "first by line")
	c.Report(BooleanRequired, 1, 2, "first by col on line 1")

	got := c.Diagnostics()
	require.Len(t, got, 3)
	assert.Equal(t, BooleanRequired, got[0].Kind)
	assert.Equal(t, DeclaredIdent, got[1].Kind)
	assert.Equal(t, UndeclaredIdent, got[2].Kind)
}

func TestCollector_StableSortPreservesReportOrderAtSamePosition(t *testing.T) {
	c := NewCollector()
	c.Report(DeclaredIdent, 1, 1, "reported first")
	c.Report(UndeclaredIdent, 1, 1, "reported second")

	got := c.Diagnostics()
	require.Len(t, got, 2)
	assert.Equal(t, "reported first", got[0].Message)
	assert.Equal(t, "reported second", got[1].Message)
}

func TestCollector_Emit(t *testing.T) {
	c := NewCollector()
	c.Report(NoMainProperlyDeclared, 1, 1, "missing main")
	var buf bytes.Buffer
	require.NoError(t, c.Emit(&buf))
	assert.Equal(t, "1:1: noMainProperlyDeclared: missing main\n", buf.String())
}
