package builtins

import (
	"crypto/sha256"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/options"
	"github.com/vybium/vybium-csc/internal/vybium-csc/script"
)

// DrawDigest advances h to sha256(h.value) in place and returns the drawn
// digest sha256(h.value || 0x00), mirroring the channel's digest-then-draw
// split: the 0x00 suffix keeps the two outputs from colliding even when the
// channel is re-seeded with its own previous digest.
func (h *Hash) DrawDigest() (*Hash, error) {
	var drawBuf [33]byte
	copy(drawBuf[:32], h.value[:])
	drawBuf[32] = 0x00
	drawn := sha256.Sum256(drawBuf[:])
	next := sha256.Sum256(h.value[:])

	if err := h.cs.EmitSubprogram(plain(func() script.Snippet {
		return script.Snippet{
			{Op: script.OpDup}, {Op: script.OpSha256}, {Op: script.OpSwap},
			{Op: script.OpPush, Data: []byte{0x00}}, {Op: script.OpCat}, {Op: script.OpSha256},
		}
	}), []core.ID{h.id}, options.New(), "channel.draw_digest"); err != nil {
		return nil, err
	}
	nextID, err := h.cs.AllocFunctionOutput(core.NewBytesElement(next[:]))
	if err != nil {
		h.cs.DoneOutputs()
		return nil, err
	}
	drawnID, err := h.cs.AllocFunctionOutput(core.NewBytesElement(drawn[:]))
	h.cs.DoneOutputs()
	if err != nil {
		return nil, err
	}

	h.id = nextID
	h.value = next
	return &Hash{cs: h.cs, id: drawnID, value: drawn}, nil
}

// scriptNumAbs returns the minimal scriptnum encoding of |v|, the stack
// machine's existing signed-integer encoding (core.Element.Encode) with the
// sign bit cleared.
func scriptNumAbs(v int64) []byte {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	return core.NewInt64Element(abs).Encode()
}

func scriptNumDecode(b []byte) (int64, error) {
	if len(b) == 1 && b[0] == 0x80 {
		return 0, nil
	}
	v, err := core.DecodeMinimalInt(b)
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

// ReconstructForChannelDraw expands a scriptnum-encoded hint byte string
// into the little-endian 4-byte form a M31 limb draw expects, canonicalizing
// 0x80 (negative zero) to [0x00,0x00,0x00,0x80] since M31 has no signed
// zero.
func (s *Str) ReconstructForChannelDraw() (*M31, *Str, error) {
	var m31Value uint32
	var strValue []byte

	if len(s.value) == 1 && s.value[0] == 0x80 {
		m31Value = 0
		strValue = []byte{0x00, 0x00, 0x00, 0x80}
	} else {
		num, err := scriptNumDecode(s.value)
		if err != nil {
			return nil, nil, err
		}
		abs := num
		if abs < 0 {
			abs = -abs
		}
		m31Value = uint32(m31Reduce(abs))
		absBytes := scriptNumAbs(num)

		if len(absBytes) < 4 {
			str := append([]byte(nil), absBytes...)
			if len(str) < 2 {
				str = append(str, 0x00, 0x00)
			}
			if len(str) < 3 {
				str = append(str, 0x00)
			}
			if num < 0 {
				str = append(str, 0x80)
			} else {
				str = append(str, 0x00)
			}
			strValue = str
		} else {
			strValue = append([]byte(nil), s.value...)
		}
	}

	if err := s.cs.EmitSubprogram(plain(func() script.Snippet {
		return script.Snippet{
			{Op: script.OpDup}, {Op: script.OpPush, Data: []byte{0x80}}, {Op: script.OpEqual},
			{Op: script.OpIf},
			{Op: script.OpDrop},
			{Op: script.OpPush, Data: []byte{0x00, 0x00, 0x00, 0x80}},
			{Op: script.OpElse},
			{Op: script.OpDup}, {Op: script.OpAbs},
			{Op: script.OpEndIf},
		}
	}), []core.ID{s.id}, options.New(), "channel.reconstruct_for_draw"); err != nil {
		return nil, nil, err
	}
	strID, err := s.cs.AllocFunctionOutput(core.NewBytesElement(strValue))
	if err != nil {
		s.cs.DoneOutputs()
		return nil, nil, err
	}
	m31ID, err := s.cs.AllocFunctionOutput(core.NewInt64Element(int64(m31Value)))
	s.cs.DoneOutputs()
	if err != nil {
		return nil, nil, err
	}

	return &M31{cs: s.cs, id: m31ID, value: m31Value}, &Str{cs: s.cs, id: strID, value: strValue}, nil
}

// equalVerifyBytes asserts h's 32 raw bytes equal s's raw bytes, tying a
// Hash and a Str recorded over the same underlying digest together.
func (h *Hash) equalVerifyBytes(s *Str) error {
	if s.value == nil || len(s.value) != 32 || [32]byte(s.value) != h.value {
		panic("builtins: channel hash/str reconstruction mismatch")
	}
	if err := h.cs.EmitSubprogram(plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpEqualVerify}}
	}), []core.ID{s.id, h.id}, options.New(), "channel.equalverify"); err != nil {
		return err
	}
	h.cs.DoneOutputs()
	return nil
}

// UnpackMultiM31 reconstructs n M31 field elements (n in [1,8]) out of a
// 32-byte digest, given the hints that scriptnum-decode each 4-byte chunk:
// n of them individually reconstructed plus, when n<8, one final hint
// carrying the untouched tail bytes verbatim.
func (h *Hash) UnpackMultiM31(n int, hints []*Str) ([]*M31, error) {
	if n < 1 || n > 8 {
		panic("builtins: UnpackMultiM31 n out of range")
	}
	if n == 8 {
		if len(hints) != 8 {
			panic("builtins: UnpackMultiM31 expects 8 hints when n==8")
		}
	} else if len(hints) != n+1 {
		panic("builtins: UnpackMultiM31 expects n+1 hints when n<8")
	}

	m31s := make([]*M31, 0, n)
	var acc *Str
	for i := 0; i < n; i++ {
		if err := hints[i].LenLessThanOrEqual(4); err != nil {
			return nil, err
		}
		m31, reconstructed, err := hints[i].ReconstructForChannelDraw()
		if err != nil {
			return nil, err
		}
		m31s = append(m31s, m31)
		if acc == nil {
			acc = reconstructed
		} else {
			acc, err = acc.Add(reconstructed)
			if err != nil {
				return nil, err
			}
		}
	}
	if n != 8 {
		var err error
		acc, err = acc.Add(hints[n])
		if err != nil {
			return nil, err
		}
	}

	if err := h.equalVerifyBytes(acc); err != nil {
		return nil, err
	}
	return m31s, nil
}

// drawM31Chunk decodes state's i'th raw 4-byte little-endian sign-magnitude
// chunk into the M31 value it represents and the minimally scriptnum-encoded
// hint ReconstructForChannelDraw must reproduce it from. The lone
// all-zero-but-sign-bit chunk is the ambiguous "negative zero" encoding and
// is canonicalized to the single-byte 0x80 hint, matching
// ReconstructForChannelDraw's own handling of it on the way back.
func drawM31Chunk(state [32]byte, i int) (uint32, []byte) {
	chunk := state[4*i : 4*i+4]
	if chunk[0] == 0 && chunk[1] == 0 && chunk[2] == 0 && chunk[3] == 0x80 {
		return 0, []byte{0x80}
	}
	num, err := scriptNumDecode(chunk)
	if err != nil {
		panic("builtins: channel digest chunk is not a valid scriptnum: " + err.Error())
	}
	abs := num
	if abs < 0 {
		abs = -abs
	}
	return uint32(m31Reduce(abs)), core.NewInt64Element(num).Encode()
}

// DrawFelt draws one QM31 field element from the channel, advancing it, and
// returns the witness alongside the recorded reconstruction of its four
// coordinates from the drawn digest's raw bytes.
func (h *Hash) DrawFelt() (*QM31, error) {
	toExtract, err := h.DrawDigest()
	if err != nil {
		return nil, err
	}

	hints := make([]*Str, 0, 5)
	for i := 0; i < 4; i++ {
		_, hintBytes := drawM31Chunk(toExtract.value, i)
		s, herr := NewStrHint(h.cs, hintBytes)
		if herr != nil {
			return nil, herr
		}
		hints = append(hints, s)
	}
	tail, err := NewStrHint(h.cs, append([]byte(nil), toExtract.value[16:]...))
	if err != nil {
		return nil, err
	}
	hints = append(hints, tail)

	m31s, err := toExtract.UnpackMultiM31(4, hints)
	if err != nil {
		return nil, err
	}

	return &QM31{
		First: &CM31{
			Imag: m31s[1],
			Real: m31s[0],
		},
		Second: &CM31{
			Imag: m31s[3],
			Real: m31s[2],
		},
	}, nil
}
