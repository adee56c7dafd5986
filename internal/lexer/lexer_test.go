package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacgen/internal/token"
)

func TestLexer_Tokenize(t *testing.T) {
	testDatas := []struct {
		name      string
		data      string
		wantKinds []token.Kind
		expectErr bool
	}{
		{
			name: "function header",
			data: "func main(): void",
			wantKinds: []token.Kind{
				token.Func, token.Ident, token.LParen, token.RParen, token.Colon, token.VoidKw, token.EOF,
			},
		},
		{
			name: "assignment and float",
			data: "x := 3.5",
			wantKinds: []token.Kind{
				token.Ident, token.Assign, token.FloatLit, token.EOF,
			},
		},
		{
			name: "relational operators",
			data: "a <= b and c != d",
			wantKinds: []token.Kind{
				token.Ident, token.Le, token.Ident, token.AndKw, token.Ident, token.Ne, token.Ident, token.EOF,
			},
		},
		{
			name: "comment stripped",
			data: "x := 1 // trailing comment",
			wantKinds: []token.Kind{
				token.Ident, token.Assign, token.IntLit, token.EOF,
			},
		},
		{
			name: "char and string literal",
			data: `write 'a' write "hello"`,
			wantKinds: []token.Kind{
				token.Write, token.CharLit, token.Write, token.StringLit, token.EOF,
			},
		},
		{
			name:      "unterminated string",
			data:      `write "hello`,
			expectErr: true,
		},
		{
			name:      "integer overflow",
			data:      "99999999999999999999",
			expectErr: true,
		},
	}
	for _, td := range testDatas {
		t.Run(td.name, func(t *testing.T) {
			toks, err := New().Tokenize(strings.NewReader(td.data))
			if td.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			kinds := make([]token.Kind, len(toks))
			for i, tok := range toks {
				kinds[i] = tok.Kind
			}
			assert.Equal(t, td.wantKinds, kinds)
		})
	}
}

func TestLexer_PositionsAreOneBased(t *testing.T) {
	toks, err := New().Tokenize(strings.NewReader("  x"))
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 3, toks[0].Col)
}
