package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-csc/internal/vybium-csc/cserr"
)

func TestWithIsImmutableAndTyped(t *testing.T) {
	base := New()
	withLen := base.With("len", uint32(4))

	_, err := base.U32("len")
	assert.Error(t, err, "With must not mutate the receiver")

	v, err := withLen.U32("len")
	require.NoError(t, err)
	assert.Equal(t, uint32(4), v)
}

func TestMissingKeyFailsLoudly(t *testing.T) {
	b := New()
	_, err := b.String("name")
	require.Error(t, err)
	var ce *cserr.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, cserr.OptionMissing, ce.Code)
}

func TestNilBagFailsLoudly(t *testing.T) {
	var b *Bag
	_, err := b.Bytes("x")
	require.Error(t, err)
}

func TestWrongTypeLookupFails(t *testing.T) {
	b := New().With("len", uint32(4))
	_, err := b.String("len")
	assert.Error(t, err)
}

func TestChainedWithPreservesEarlierKeys(t *testing.T) {
	b := New().With("a", uint32(1)).With("b", []byte("x"))
	a, err := b.U32("a")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), a)

	bytes, err := b.Bytes("b")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), bytes)
}

func TestMultiValueAccessors(t *testing.T) {
	b := New().
		With("words", []uint32{1, 2, 3}).
		With("blobs", [][]byte{[]byte("a"), []byte("b")}).
		With("wide", uint64(1 << 40)).
		With("wides", []uint64{1, 2})

	words, err := b.MultiU32("words")
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, words)

	blobs, err := b.MultiBytes("blobs")
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, blobs)

	wide, err := b.U64("wide")
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40), wide)

	wides, err := b.MultiU64("wides")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, wides)
}
