package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
)

func TestU8AddWithinRange(t *testing.T) {
	cs := core.New()
	a, err := NewU8Constant(cs, 200)
	require.NoError(t, err)
	b, err := NewU8Constant(cs, 50)
	require.NoError(t, err)
	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, uint8(250), sum.Value())
}

func TestU8AddOverflowPanics(t *testing.T) {
	cs := core.New()
	a, err := NewU8Constant(cs, 255)
	require.NoError(t, err)
	b, err := NewU8Constant(cs, 1)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = a.Add(b)
	})
}

func TestU8SubUnderflowPanics(t *testing.T) {
	cs := core.New()
	a, err := NewU8Constant(cs, 0)
	require.NoError(t, err)
	b, err := NewU8Constant(cs, 1)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = a.Sub(b)
	})
}

func TestU8SubWithinRange(t *testing.T) {
	cs := core.New()
	a, err := NewU8Constant(cs, 10)
	require.NoError(t, err)
	b, err := NewU8Constant(cs, 4)
	require.NoError(t, err)
	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), diff.Value())
}

func TestU8CheckFormatSucceeds(t *testing.T) {
	cs := core.New()
	a, err := NewU8Constant(cs, 128)
	require.NoError(t, err)
	assert.NoError(t, a.CheckFormat())
}
