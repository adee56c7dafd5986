package compiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_FullPipelineProducesReadableIR(t *testing.T) {
	result, err := Compile(strings.NewReader(`
func add(a: int, b: int): int
	return a + b
endfunc

func main(): void
var
	x float
endvars
	x := add(1, 2)
	write x
endfunc
`))
	require.NoError(t, err)
	require.False(t, result.Ctx.Diags.HasErrors())
	require.NotNil(t, result.IR)

	var buf bytes.Buffer
	require.NoError(t, EmitIR(&buf, result))
	out := buf.String()

	assert.Contains(t, out, "func add")
	assert.Contains(t, out, "func main")
	assert.Contains(t, out, "instructions:")
	assert.Contains(t, out, "CALL add")
	assert.Contains(t, out, "FLOAT")
}

func TestCompile_SemanticErrorsPreventCodeGeneration(t *testing.T) {
	result, err := Compile(strings.NewReader(`
func main(): void
	write y
endfunc
`))
	require.NoError(t, err)
	assert.True(t, result.Ctx.Diags.HasErrors())
	assert.Nil(t, result.IR)
}

func TestCompile_SyntaxErrorReturnsError(t *testing.T) {
	_, err := Compile(strings.NewReader(`func f(: int endfunc`))
	assert.Error(t, err)
}
