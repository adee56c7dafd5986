package sema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacgen/internal/ast"
	"tacgen/internal/diag"
	"tacgen/internal/lexer"
	"tacgen/internal/parser"
	"tacgen/internal/session"
)

func compileToProgram(t *testing.T, src string) (*session.Context, *ast.Program) {
	t.Helper()
	toks, err := lexer.New().Tokenize(strings.NewReader(src))
	require.NoError(t, err)
	prog, err := parser.Parse(toks)
	require.NoError(t, err)
	ctx := session.New()
	SymbolPass(ctx, prog)
	TypePass(ctx, prog)
	return ctx, prog
}

func kinds(diags []diag.Diagnostic) []diag.Kind {
	out := make([]diag.Kind, len(diags))
	for i, d := range diags {
		out[i] = d.Kind
	}
	return out
}

func TestSema_AssignmentWithPromotionHasNoDiagnostics(t *testing.T) {
	ctx, _ := compileToProgram(t, `
func main(): void
var
	x float
endvars
	x := 3
endfunc
`)
	assert.Empty(t, ctx.Diags.Diagnostics())
}

func TestSema_ArrayIndexTypeError(t *testing.T) {
	ctx, prog := compileToProgram(t, `
func main(): void
var
	a array<5, int>
endvars
	write a[true]
endfunc
`)
	diags := ctx.Diags.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.NonIntegerIndexInArrayAccess, diags[0].Kind)

	write := prog.Functions[0].Body[0].(*ast.WriteStmt)
	idx := write.Value.(*ast.IndexExpr)
	elemType := ctx.Decor.Type(idx.ID())
	assert.True(t, ctx.Types.IsInteger(elemType), "array access still decorates with the element type")
}

func TestSema_RedeclaredLocal(t *testing.T) {
	ctx, _ := compileToProgram(t, `
func main(): void
var
	x int
	x int
endvars
endfunc
`)
	diags := ctx.Diags.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.DeclaredIdent, diags[0].Kind)
}

func TestSema_ReturnTypeMismatchReportsAndStillDecoratesReturn(t *testing.T) {
	ctx, prog := compileToProgram(t, `
func f(): int
var
	x float
endvars
	x := 1.5
	return x
endfunc

func main(): void
endfunc
`)
	diags := ctx.Diags.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.IncompatibleReturn, diags[0].Kind)

	retStmt := prog.Functions[0].Body[1].(*ast.ReturnStmt)
	valueType := ctx.Decor.Type(retStmt.Value.ID())
	assert.True(t, ctx.Types.IsFloat(valueType))
}

func TestSema_NoMainProperlyDeclared(t *testing.T) {
	ctx, _ := compileToProgram(t, `
func helper(): void
endfunc
`)
	diags := ctx.Diags.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.NoMainProperlyDeclared, diags[0].Kind)
}

func TestSema_UndeclaredIdentifierRecoversWithErrorType(t *testing.T) {
	ctx, prog := compileToProgram(t, `
func main(): void
	write y
endfunc
`)
	diags := ctx.Diags.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.UndeclaredIdent, diags[0].Kind)

	write := prog.Functions[0].Body[0].(*ast.WriteStmt)
	assert.True(t, ctx.Types.IsError(ctx.Decor.Type(write.Value.ID())))
}

func TestSema_CallArityAndParameterChecks(t *testing.T) {
	ctx, _ := compileToProgram(t, `
func add(a: int, b: int): int
	return a + b
endfunc

func main(): void
var
	r int
endvars
	r := add(1)
endfunc
`)
	diags := ctx.Diags.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.NumberOfParameters, diags[0].Kind)
}

func TestSema_CallStatementAllowsVoidFunction(t *testing.T) {
	ctx, _ := compileToProgram(t, `
func helper(): void
endfunc

func main(): void
	helper()
endfunc
`)
	assert.Empty(t, ctx.Diags.Diagnostics())
}
