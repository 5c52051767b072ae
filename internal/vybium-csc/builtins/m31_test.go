package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
)

const m31ModulusU32 = uint32(m31Modulus)

func TestM31ConstantReducesOnAllocation(t *testing.T) {
	cs := core.New()
	x, err := NewM31Constant(cs, m31ModulusU32+5)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), x.Value())
}

func TestM31AddWraps(t *testing.T) {
	cs := core.New()
	a, err := NewM31Constant(cs, m31ModulusU32-1)
	require.NoError(t, err)
	b, err := NewM31Constant(cs, 2)
	require.NoError(t, err)
	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), sum.Value())
}

func TestM31SubWraps(t *testing.T) {
	cs := core.New()
	a, err := NewM31Constant(cs, 1)
	require.NoError(t, err)
	b, err := NewM31Constant(cs, 2)
	require.NoError(t, err)
	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, m31ModulusU32-1, diff.Value())
}

func TestM31MulReducesCorrectly(t *testing.T) {
	cs := core.New()
	a, err := NewM31Constant(cs, 7)
	require.NoError(t, err)
	b, err := NewM31Constant(cs, 13)
	require.NoError(t, err)
	product, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(91), product.Value())
}

func TestM31InverseRoundTrips(t *testing.T) {
	cs := core.New()
	for _, v := range []uint32{1, 2, 7, 12345, m31ModulusU32 - 1} {
		x, err := NewM31Constant(cs, v)
		require.NoError(t, err)
		inv, err := x.Inverse()
		require.NoError(t, err)
		product, err := x.Mul(inv)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), product.Value(), "v=%d", v)
	}
}

func TestM31InverseOfZeroPanics(t *testing.T) {
	cs := core.New()
	x, err := NewM31Constant(cs, 0)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = x.Inverse()
	})
}
