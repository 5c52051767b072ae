package builtins

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
)

func TestI32ConstantMinRejected(t *testing.T) {
	cs := core.New()
	assert.Panics(t, func() {
		_, _ = NewI32Constant(cs, math.MinInt32)
	})
}

func TestI32AddAndSub(t *testing.T) {
	cs := core.New()
	a, err := NewI32Constant(cs, 10)
	require.NoError(t, err)
	b, err := NewI32Constant(cs, -3)
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int32(7), sum.Value())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int32(13), diff.Value())
}

func TestI32AddOverflowPanics(t *testing.T) {
	cs := core.New()
	a, err := NewI32Constant(cs, math.MaxInt32-1)
	require.NoError(t, err)
	b, err := NewI32Constant(cs, 2)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = a.Add(b)
	})
}

func TestI32AddU8AtBoundary(t *testing.T) {
	cs := core.New()
	a, err := NewI32Constant(cs, 0x7FFFFFFE)
	require.NoError(t, err)
	b, err := NewU8Constant(cs, 1)
	require.NoError(t, err)
	sum, err := a.AddU8(b)
	require.NoError(t, err)
	assert.Equal(t, int32(0x7FFFFFFF), sum.Value())
	assert.NoError(t, sum.CheckFormat())
}

func TestI32AddU8PastMaxPanics(t *testing.T) {
	cs := core.New()
	a, err := NewI32Constant(cs, 0x7FFFFFFF)
	require.NoError(t, err)
	b, err := NewU8Constant(cs, 1)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = a.AddU8(b)
	})
}

func TestI32ToPositiveLimbsRecomposes(t *testing.T) {
	cs := core.New()
	x, err := NewI32Constant(cs, 0x1234)
	require.NoError(t, err)
	limbs, err := x.ToPositiveLimbs(8)
	require.NoError(t, err)
	require.Len(t, limbs, 4)

	var recomposed uint32
	for i := len(limbs) - 1; i >= 0; i-- {
		recomposed = recomposed<<8 | uint32(limbs[i].Value())
	}
	assert.Equal(t, uint32(0x1234), recomposed)
}

func TestI32ToPositiveLimbsRejectsNegative(t *testing.T) {
	cs := core.New()
	x, err := NewI32Constant(cs, -1)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = x.ToPositiveLimbs(8)
	})
}

func TestI32ToPositiveLimbsRejectsBadWidth(t *testing.T) {
	cs := core.New()
	x, err := NewI32Constant(cs, 5)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = x.ToPositiveLimbs(0)
	})
	assert.Panics(t, func() {
		_, _ = x.ToPositiveLimbs(9)
	})
}
