package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacgen/internal/ast"
	"tacgen/internal/lexer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New().Tokenize(strings.NewReader(src))
	require.NoError(t, err)
	prog, err := Parse(toks)
	require.NoError(t, err)
	return prog
}

func TestParser_SimpleFunction(t *testing.T) {
	prog := parseSource(t, `
func add(a: int, b: int): int
	return a + b
endfunc
`)
	require.Len(t, prog.Functions, 1)
	fn := prog.Functions[0]
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.Add, bin.Op)
}

func TestParser_VarSectionAndAssign(t *testing.T) {
	prog := parseSource(t, `
func main(): void
var
	x, y int
	r float
endvars
	x := 3
	y := 4
	r := x * y
endfunc
`)
	fn := prog.Functions[0]
	require.Len(t, fn.Locals, 2)
	assert.Equal(t, []string{"x", "y"}, fn.Locals[0].Names)
	assert.Equal(t, []string{"r"}, fn.Locals[1].Names)
	require.Len(t, fn.Body, 3)
	assign, ok := fn.Body[2].(*ast.AssignStmt)
	require.True(t, ok)
	assert.IsType(t, &ast.Ident{}, assign.Left)
}

func TestParser_IfWhileReadWrite(t *testing.T) {
	prog := parseSource(t, `
func loop(): void
var
	n int
endvars
	read n
	while n > 0 do
		if n = 1 then
			write "done"
		else
			write n
		endif
		n := n - 1
	endwhile
endfunc
`)
	fn := prog.Functions[0]
	require.Len(t, fn.Body, 2)
	_, ok := fn.Body[0].(*ast.ReadStmt)
	require.True(t, ok)
	wh, ok := fn.Body[1].(*ast.WhileStmt)
	require.True(t, ok)
	require.Len(t, wh.Body, 2)
	ifs, ok := wh.Body[0].(*ast.IfStmt)
	require.True(t, ok)
	require.Len(t, ifs.Else, 1)
	w, ok := ifs.Then[0].(*ast.WriteStmt)
	require.True(t, ok)
	assert.True(t, w.IsString)
}

func TestParser_ArrayIndexAndCall(t *testing.T) {
	prog := parseSource(t, `
func sum(n: int): int
var
	a array<10, int>
	i, total int
endvars
	i := 0
	total := 0
	while i < n do
		total := total + a[i]
		i := i + 1
	endwhile
	write helper(total, 2)
	return total
endfunc
`)
	fn := prog.Functions[0]
	require.Len(t, fn.Locals, 2)
	arrType, ok := fn.Locals[0].Type.(*ast.ArrayType)
	require.True(t, ok)
	assert.Equal(t, 10, arrType.Size)

	wh := fn.Body[2].(*ast.WhileStmt)
	assign := wh.Body[0].(*ast.AssignStmt)
	bin := assign.Value.(*ast.BinaryExpr)
	idx, ok := bin.Right.(*ast.IndexExpr)
	require.True(t, ok)
	assert.IsType(t, &ast.Ident{}, idx.Array)

	write := fn.Body[3].(*ast.WriteStmt)
	call, ok := write.Value.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "helper", call.Callee)
	require.Len(t, call.Args, 2)
}

func TestParser_CallStatementAndLogicalOps(t *testing.T) {
	prog := parseSource(t, `
func main(): void
var
	ok boolean
endvars
	ok := 1 < 2 and not false
	emit(ok)
endfunc
`)
	fn := prog.Functions[0]
	assign := fn.Body[0].(*ast.AssignStmt)
	and, ok := assign.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.And, and.Op)
	not, ok := and.Right.(*ast.UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.UnaryNot, not.Op)

	callStmt, ok := fn.Body[1].(*ast.CallStmt)
	require.True(t, ok)
	assert.Equal(t, "emit", callStmt.Call.Callee)
}

func TestParser_SyntaxError(t *testing.T) {
	toks, err := lexer.New().Tokenize(strings.NewReader("func f(): int\n  return\nendfunc\n"))
	require.NoError(t, err)
	_, err = Parse(toks)
	require.NoError(t, err)

	toks, err = lexer.New().Tokenize(strings.NewReader("func f(: int\nendfunc\n"))
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
}
