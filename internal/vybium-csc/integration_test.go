// Package integration exercises SPEC_FULL.md §8's six literal end-to-end
// scenarios against the full record -> finalize -> compile pipeline.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-csc/internal/vybium-csc/builtins"
	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/ldm"
	"github.com/vybium/vybium-csc/internal/vybium-csc/planner"
	"github.com/vybium/vybium-csc/internal/vybium-csc/table"
)

// Scenario 1: a = 2, b = 3, c = a * b as M31 -> program output 6.
func TestScenarioM31Multiply(t *testing.T) {
	cs := core.New()
	a, err := builtins.NewM31Constant(cs, 2)
	require.NoError(t, err)
	b, err := builtins.NewM31Constant(cs, 3)
	require.NoError(t, err)
	c, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(6), c.Value())

	require.NoError(t, cs.SetProgramOutput(c.ID()))
	require.NoError(t, cs.Finalize())

	p1, err := planner.Compile(cs)
	require.NoError(t, err)
	p2, err := planner.Compile(cs)
	require.NoError(t, err)
	assert.Equal(t, p1.Script, p2.Script, "compiling the same trace twice must yield a byte-identical program")
	assert.Equal(t, p1.Inputs, p2.Inputs)
	assert.Equal(t, p1.Hints, p2.Hints)
}

// Scenario 2: a = 0x7FFFFFFE (I32 const), b = 1 (U8 const), checkFormat(a+b)
// succeeds; a = 0x7FFFFFFF, b = 1 panics before emitting.
func TestScenarioI32OverflowBoundary(t *testing.T) {
	cs := core.New()
	a, err := builtins.NewI32Constant(cs, 0x7FFFFFFE)
	require.NoError(t, err)
	b, err := builtins.NewU8Constant(cs, 1)
	require.NoError(t, err)
	sum, err := a.AddU8(b)
	require.NoError(t, err)
	require.NoError(t, sum.CheckFormat())

	cs2 := core.New()
	aMax, err := builtins.NewI32Constant(cs2, 0x7FFFFFFF)
	require.NoError(t, err)
	bOne, err := builtins.NewU8Constant(cs2, 1)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = aMax.AddU8(bOne)
	})
}

// Scenario 3: inverting M31 value 7 -> program output 1 after multiply.
func TestScenarioM31Inverse(t *testing.T) {
	cs := core.New()
	x, err := builtins.NewM31Constant(cs, 7)
	require.NoError(t, err)
	inv, err := x.Inverse()
	require.NoError(t, err)
	product, err := x.Mul(inv)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), product.Value())
}

// Scenario 4: CM31 (2,3)*(2,3)^-1 -> program output (1,0).
func TestScenarioCM31Inverse(t *testing.T) {
	cs := core.New()
	tbl, err := table.New(cs)
	require.NoError(t, err)
	z, err := builtins.NewCM31Constant(cs, 2, 3)
	require.NoError(t, err)
	inv, err := z.Inverse(tbl)
	require.NoError(t, err)
	product, err := z.Mul(inv)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), product.Real.Value())
	assert.Equal(t, uint32(0), product.Imag.Value())
}

// Scenario 5: channel seeded with 32 zero bytes, drawFelt -> deterministic.
func TestScenarioChannelDrawFelt(t *testing.T) {
	cs := core.New()
	var seed [32]byte
	h, err := builtins.NewHashConstant(cs, seed)
	require.NoError(t, err)
	q1, err := h.DrawFelt()
	require.NoError(t, err)

	cs2 := core.New()
	h2, err := builtins.NewHashConstant(cs2, seed)
	require.NoError(t, err)
	q2, err := h2.DrawFelt()
	require.NoError(t, err)

	assert.Equal(t, q1.First.Real.Value(), q2.First.Real.Value())
	assert.Equal(t, q1.First.Imag.Value(), q2.First.Imag.Value())
	assert.Equal(t, q1.Second.Real.Value(), q2.Second.Real.Value())
	assert.Equal(t, q1.Second.Imag.Value(), q2.Second.Imag.Value())
}

// Scenario 6 (LDM write/read/check, including the one-bit-mutation
// failure case) is covered in internal/vybium-csc/ldm/ldm_test.go, which
// needs white-box access to the accumulated hash map to corrupt it.
func TestScenarioLDMWriteReadHappyPath(t *testing.T) {
	var seed [32]byte
	for i := range seed {
		seed[i] = 0x01
	}

	store := ldm.New()
	cs1 := core.New()
	require.NoError(t, store.Init(cs1))
	h, err := builtins.NewHashConstant(cs1, seed)
	require.NoError(t, err)
	require.NoError(t, store.Write("c", h))
	require.NoError(t, store.Save())
	require.NoError(t, cs1.Finalize())

	cs2 := core.New()
	require.NoError(t, store.Init(cs2))
	readBack, err := store.Read("c")
	require.NoError(t, err)
	assert.Equal(t, h.Value(), readBack.Value())
	require.NoError(t, store.Check())
	require.NoError(t, store.Save())
	require.NoError(t, cs2.Finalize())
}
