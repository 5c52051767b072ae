package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/table"
)

func TestM31LimbsRoundTrip(t *testing.T) {
	cs := core.New()
	m, err := NewM31Constant(cs, 0x12345678%m31ModulusU32)
	require.NoError(t, err)

	limbs, err := NewM31LimbsFromM31(m)
	require.NoError(t, err)

	back, err := limbs.ToM31()
	require.NoError(t, err)
	assert.Equal(t, m.Value(), back.Value())
}

func TestM31LimbsEqualVerifySameValuesSucceeds(t *testing.T) {
	cs := core.New()
	m, err := NewM31Constant(cs, 777)
	require.NoError(t, err)
	a, err := NewM31LimbsFromM31(m)
	require.NoError(t, err)
	b, err := NewM31LimbsFromM31(m)
	require.NoError(t, err)
	assert.NoError(t, a.EqualVerify(b))
}

func TestM31LimbsEqualVerifyDifferentValuesPanics(t *testing.T) {
	cs := core.New()
	m1, err := NewM31Constant(cs, 1)
	require.NoError(t, err)
	m2, err := NewM31Constant(cs, 2)
	require.NoError(t, err)
	a, err := NewM31LimbsFromM31(m1)
	require.NoError(t, err)
	b, err := NewM31LimbsFromM31(m2)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_ = a.EqualVerify(b)
	})
}

func TestM31LimbsMulViaTable(t *testing.T) {
	cs := core.New()
	tbl, err := table.New(cs)
	require.NoError(t, err)

	a, err := NewM31Constant(cs, 1000)
	require.NoError(t, err)
	b, err := NewM31Constant(cs, 2000)
	require.NoError(t, err)

	aLimbs, err := NewM31LimbsFromM31(a)
	require.NoError(t, err)
	bLimbs, err := NewM31LimbsFromM31(b)
	require.NoError(t, err)

	product, err := aLimbs.Mul(tbl, bLimbs)
	require.NoError(t, err)
	assert.Equal(t, uint32(2000000), product.Value())
}

func TestM31LimbsInverseCertifiesToOne(t *testing.T) {
	cs := core.New()
	tbl, err := table.New(cs)
	require.NoError(t, err)

	m, err := NewM31Constant(cs, 9)
	require.NoError(t, err)
	limbs, err := NewM31LimbsFromM31(m)
	require.NoError(t, err)

	inv, err := limbs.Inverse(tbl)
	require.NoError(t, err)

	product, err := limbs.Mul(tbl, inv)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), product.Value())
}

func TestM31LimbsInverseOfZeroPanics(t *testing.T) {
	cs := core.New()
	tbl, err := table.New(cs)
	require.NoError(t, err)
	m, err := NewM31Constant(cs, 0)
	require.NoError(t, err)
	limbs, err := NewM31LimbsFromM31(m)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = limbs.Inverse(tbl)
	})
}

func TestM31LimbsAddPlainNoCarry(t *testing.T) {
	cs := core.New()
	a, err := NewM31Constant(cs, 100)
	require.NoError(t, err)
	b, err := NewM31Constant(cs, 200)
	require.NoError(t, err)
	aLimbs, err := NewM31LimbsFromM31(a)
	require.NoError(t, err)
	bLimbs, err := NewM31LimbsFromM31(b)
	require.NoError(t, err)

	sum, err := aLimbs.AddPlain(bLimbs)
	require.NoError(t, err)
	assert.Equal(t, uint32(300), sum.Value()[0])
}

func TestM31LimbsAddReducedCarries(t *testing.T) {
	cs := core.New()
	a, err := NewM31Constant(cs, 200)
	require.NoError(t, err)
	b, err := NewM31Constant(cs, 100)
	require.NoError(t, err)
	aLimbs, err := NewM31LimbsFromM31(a)
	require.NoError(t, err)
	bLimbs, err := NewM31LimbsFromM31(b)
	require.NoError(t, err)

	sum, err := aLimbs.AddReduced(bLimbs)
	require.NoError(t, err)
	assert.Equal(t, uint32(44), sum.Value()[0])
	assert.Equal(t, uint32(1), sum.Value()[1])
}
