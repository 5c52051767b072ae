package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
)

func TestDrawDigestAdvancesStateAndIsDeterministic(t *testing.T) {
	var seed [32]byte
	cs1 := core.New()
	h1, err := NewHashConstant(cs1, seed)
	require.NoError(t, err)
	before := h1.Value()
	drawn1, err := h1.DrawDigest()
	require.NoError(t, err)
	assert.NotEqual(t, before, h1.Value(), "DrawDigest must advance the channel state")

	cs2 := core.New()
	h2, err := NewHashConstant(cs2, seed)
	require.NoError(t, err)
	drawn2, err := h2.DrawDigest()
	require.NoError(t, err)
	assert.Equal(t, drawn1.Value(), drawn2.Value())
	assert.Equal(t, h1.Value(), h2.Value())
}

func TestDrawFeltIsDeterministicGivenSameSeed(t *testing.T) {
	var seed [32]byte
	for i := range seed {
		seed[i] = 0x42
	}
	cs1 := core.New()
	h1, err := NewHashConstant(cs1, seed)
	require.NoError(t, err)
	q1, err := h1.DrawFelt()
	require.NoError(t, err)

	cs2 := core.New()
	h2, err := NewHashConstant(cs2, seed)
	require.NoError(t, err)
	q2, err := h2.DrawFelt()
	require.NoError(t, err)

	assert.Equal(t, q1.First.Real.Value(), q2.First.Real.Value())
	assert.Equal(t, q1.First.Imag.Value(), q2.First.Imag.Value())
	assert.Equal(t, q1.Second.Real.Value(), q2.Second.Real.Value())
	assert.Equal(t, q1.Second.Imag.Value(), q2.Second.Imag.Value())
}

func TestDrawFeltCoordinatesAreValidM31Values(t *testing.T) {
	var seed [32]byte
	seed[0] = 0x01
	cs := core.New()
	h, err := NewHashConstant(cs, seed)
	require.NoError(t, err)
	q, err := h.DrawFelt()
	require.NoError(t, err)

	for _, v := range []uint32{q.First.Real.Value(), q.First.Imag.Value(), q.Second.Real.Value(), q.Second.Imag.Value()} {
		assert.Less(t, v, m31ModulusU32)
	}
}

func TestReconstructForChannelDrawCanonicalizesNegativeZero(t *testing.T) {
	cs := core.New()
	s, err := NewStrConstant(cs, []byte{0x80})
	require.NoError(t, err)
	m31, reconstructed, err := s.ReconstructForChannelDraw()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), m31.Value())
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x80}, reconstructed.Value())
}

func TestReconstructForChannelDrawPositiveValue(t *testing.T) {
	cs := core.New()
	s, err := NewStrConstant(cs, []byte{0x05})
	require.NoError(t, err)
	m31, _, err := s.ReconstructForChannelDraw()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), m31.Value())
}

func TestUnpackMultiM31RequiresMatchingHintCount(t *testing.T) {
	cs := core.New()
	var seed [32]byte
	h, err := NewHashConstant(cs, seed)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = h.UnpackMultiM31(4, nil)
	})
}
