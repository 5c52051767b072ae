package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
)

func TestBoolLogic(t *testing.T) {
	cs := core.New()
	tru, err := NewBoolConstant(cs, true)
	require.NoError(t, err)
	fls, err := NewBoolConstant(cs, false)
	require.NoError(t, err)

	and, err := tru.And(fls)
	require.NoError(t, err)
	assert.False(t, and.Value())

	or, err := tru.Or(fls)
	require.NoError(t, err)
	assert.True(t, or.Value())

	xor, err := tru.Xor(fls)
	require.NoError(t, err)
	assert.True(t, xor.Value())

	not, err := fls.Not()
	require.NoError(t, err)
	assert.True(t, not.Value())
}

func TestBoolVerifyPassesOnTrue(t *testing.T) {
	cs := core.New()
	tru, err := NewBoolConstant(cs, true)
	require.NoError(t, err)
	assert.NoError(t, tru.Verify())
}

func TestBoolHintAllocatesUntrustedValue(t *testing.T) {
	cs := core.New()
	h, err := NewBoolHint(cs, true)
	require.NoError(t, err)
	assert.True(t, h.Value())
	el, err := cs.ElementAt(h.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), el.Int().Int64())
}

func TestBoolResultsAreFreshIDs(t *testing.T) {
	cs := core.New()
	a, err := NewBoolConstant(cs, true)
	require.NoError(t, err)
	b, err := NewBoolConstant(cs, false)
	require.NoError(t, err)
	r, err := a.And(b)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), r.ID())
	assert.NotEqual(t, b.ID(), r.ID())
}
