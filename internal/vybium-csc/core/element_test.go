package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 127, 128, -128, 255, 256, -256, 1 << 30, -(1 << 30)} {
		enc := NewInt64Element(v).Encode()
		dec, err := DecodeMinimalInt(enc)
		require.NoError(t, err, "v=%d", v)
		assert.Equal(t, big.NewInt(v), dec, "v=%d enc=%x", v, enc)
	}
}

func TestZeroEncodesAsEmptyBytes(t *testing.T) {
	enc := NewInt64Element(0).Encode()
	assert.Empty(t, enc)
}

func TestNegativeZeroEncodingIsAmbiguous(t *testing.T) {
	_, err := DecodeMinimalInt([]byte{0x80})
	assert.Error(t, err)
}

func TestBytesElementCopiesInput(t *testing.T) {
	b := []byte{1, 2, 3}
	el := NewBytesElement(b)
	b[0] = 0xff
	assert.Equal(t, []byte{1, 2, 3}, el.Bytes())
	assert.Equal(t, []byte{1, 2, 3}, el.Encode())
}

func TestIntAccessorPanicsOnBytesElement(t *testing.T) {
	el := NewBytesElement([]byte{1})
	assert.Panics(t, func() {
		_ = el.Int()
	})
}

func TestBytesAccessorPanicsOnIntElement(t *testing.T) {
	el := NewInt64Element(5)
	assert.Panics(t, func() {
		_ = el.Bytes()
	})
}

func TestAllocationModeString(t *testing.T) {
	assert.Equal(t, "Constant", Constant.String())
	assert.Equal(t, "ProgramInput", ProgramInput.String())
	assert.Equal(t, "FunctionOutput", FunctionOutput.String())
	assert.Equal(t, "Hint", Hint.String())
}
