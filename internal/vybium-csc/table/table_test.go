package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
)

func TestNewAllocatesQuarterSquareEntries(t *testing.T) {
	cs := core.New()
	tbl, err := New(cs)
	require.NoError(t, err)

	for _, i := range []int{0, 1, 2, 3, 17, 255, 512} {
		el, err := cs.ElementAt(tbl.IDAt(i))
		require.NoError(t, err)
		assert.Equal(t, int64(i*i)/4, el.Int().Int64())
	}
}

func TestBaseIDIsFirstEntry(t *testing.T) {
	cs := core.New()
	tbl, err := New(cs)
	require.NoError(t, err)
	assert.Equal(t, tbl.IDAt(0), tbl.BaseID())
}

func TestWithBaseAttachesOptionKey(t *testing.T) {
	cs := core.New()
	tbl, err := New(cs)
	require.NoError(t, err)

	opts := tbl.WithBase(nil)
	v, err := opts.U32(OptionKey)
	require.NoError(t, err)
	assert.Equal(t, uint32(tbl.BaseID()), v)
}

func TestEntryMatchesQuarterSquareIdentity(t *testing.T) {
	for a := int64(0); a < 16; a++ {
		for b := int64(0); b < 16; b++ {
			got := Entry(a+b) - Entry(a-b)
			assert.Equal(t, a*b, got, "a=%d b=%d", a, b)
		}
	}
}

func TestEntryHandlesNegativeInput(t *testing.T) {
	assert.Equal(t, Entry(5), Entry(-5))
}
