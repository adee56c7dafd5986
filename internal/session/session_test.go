package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_AllCollaboratorsInitialized(t *testing.T) {
	ctx := New()
	assert.NotNil(t, ctx.Types)
	assert.NotNil(t, ctx.Symbols)
	assert.NotNil(t, ctx.Decor)
	assert.NotNil(t, ctx.Diags)
	assert.False(t, ctx.Diags.HasErrors())
}
