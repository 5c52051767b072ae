package builtins

import (
	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/cserr"
	"github.com/vybium/vybium-csc/internal/vybium-csc/options"
	"github.com/vybium/vybium-csc/internal/vybium-csc/script"
	"github.com/vybium/vybium-csc/internal/vybium-csc/stack"
	"github.com/vybium/vybium-csc/internal/vybium-csc/table"
)

// M31Limbs is an M31 value decomposed into four byte limbs, little-endian:
// value = limb[0] + 256*limb[1] + 256^2*limb[2] + 256^3*limb[3]. Footprint 4.
type M31Limbs struct {
	cs    *core.ConstraintSystem
	ids   [4]core.ID
	value [4]uint32 // entries may temporarily exceed 255 in the "plain" add form
}

func m31ToLimbBytes(v uint32) [4]uint32 {
	return [4]uint32{v & 0xff, (v >> 8) & 0xff, (v >> 16) & 0xff, (v >> 24) & 0xff}
}

func limbsToM31(l [4]uint32) uint32 {
	return l[0] | l[1]<<8 | l[2]<<16 | l[3]<<24
}

func (l *M31Limbs) ID() core.ID          { return l.ids[0] }
func (l *M31Limbs) Length() int          { return 4 }
func (l *M31Limbs) Value() [4]uint32     { return l.value }
func (l *M31Limbs) Variables() []core.ID { return l.ids[:] }

// m31ToLimbsCheckSnippet is the Horner-recomposition-and-verify snippet: for
// each of the 3 most significant limbs, multiply the running accumulator by
// 256 and add the next limb in (each limb checked to lie in [0,256) first),
// concluding with an equality check against the original value.
func m31ToLimbsCheckSnippet() script.Snippet {
	var out script.Snippet
	for i := 0; i < 4; i++ {
		out = out.Append(script.Instr{Op: script.OpDup}, script.Instr{Op: script.OpWithinU8}, script.Instr{Op: script.OpVerify})
		if i > 0 {
			out = out.Append(script256Mul()...)
			out = out.Append(script.Instr{Op: script.OpSwap}, script.Instr{Op: script.OpAdd})
		}
	}
	out = out.Append(script.Instr{Op: script.OpEqualVerify})
	return out
}

// script256Mul emits eight doublings: the bit-shift equivalent of OP_256MUL.
func script256Mul() script.Snippet {
	var out script.Snippet
	for i := 0; i < 8; i++ {
		out = out.Append(script.Instr{Op: script.OpDup}, script.Instr{Op: script.OpAdd})
	}
	return out
}

// NewM31LimbsFromM31 decomposes m into four limb hints and emits a verifier
// that reconstructs limb0 + 256*(limb1 + 256*(limb2 + 256*limb3)) and
// equality-checks the result against m.
func NewM31LimbsFromM31(m *M31) (*M31Limbs, error) {
	limbVals := m31ToLimbBytes(m.value)
	var ids [4]core.ID
	for i, lv := range limbVals {
		id, err := m.cs.AllocHint(core.NewInt64Element(int64(lv)))
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	inputs := append([]core.ID{m.id}, ids[:]...)
	if err := m.cs.EmitSubprogram(plain(m31ToLimbsCheckSnippet), inputs, options.New(), "m31.to_limbs"); err != nil {
		return nil, err
	}
	m.cs.DoneOutputs()

	return &M31Limbs{cs: m.cs, ids: ids, value: limbVals}, nil
}

// ToM31 recomposes the limbs back into a single M31, emitting the mirror
// image of NewM31LimbsFromM31's check (same Horner recomposition, this
// time certifying a fresh output id rather than an existing one). M31 ->
// Limbs -> M31 is the identity round trip SPEC_FULL.md requires.
func (l *M31Limbs) ToM31() (*M31, error) {
	recomposed := limbsToM31(l.value)
	if err := l.cs.EmitSubprogram(plain(func() script.Snippet {
		var out script.Snippet
		for i := 0; i < 4; i++ {
			out = out.Append(script.Instr{Op: script.OpDup}, script.Instr{Op: script.OpWithinU8}, script.Instr{Op: script.OpVerify})
			if i > 0 {
				out = out.Append(script256Mul()...)
				out = out.Append(script.Instr{Op: script.OpSwap}, script.Instr{Op: script.OpAdd})
			}
		}
		return out
	}), l.ids[:], options.New(), "m31.from_limbs"); err != nil {
		return nil, err
	}
	id, err := l.cs.AllocFunctionOutput(core.NewInt64Element(int64(recomposed)))
	l.cs.DoneOutputs()
	if err != nil {
		return nil, err
	}
	return &M31{cs: l.cs, id: id, value: recomposed}, nil
}

// EqualVerify asserts two limb sets carry the same value.
func (l *M31Limbs) EqualVerify(other *M31Limbs) error {
	if l.value != other.value {
		panic("builtins: M31Limbs EqualVerify on unequal values")
	}
	inputs := append(append([]core.ID{}, l.ids[:]...), other.ids[:]...)
	if err := l.cs.EmitSubprogram(plain(func() script.Snippet {
		return script.Snippet{
			{Op: script.OpRoll, N: 4}, {Op: script.OpEqualVerify},
			{Op: script.OpRoll, N: 3}, {Op: script.OpEqualVerify},
			{Op: script.OpRot}, {Op: script.OpEqualVerify},
			{Op: script.OpEqualVerify},
		}
	}), inputs, options.New(), "m31_limbs.equalverify"); err != nil {
		return err
	}
	l.cs.DoneOutputs()
	return nil
}

func (l *M31Limbs) emit2(label string, other *M31Limbs, gen core.Generator, result [4]uint32) (*M31Limbs, error) {
	inputs := append(append([]core.ID{}, l.ids[:]...), other.ids[:]...)
	if err := l.cs.EmitSubprogram(gen, inputs, options.New(), label); err != nil {
		return nil, err
	}
	var ids [4]core.ID
	var err error
	for i, v := range result {
		ids[i], err = l.cs.AllocFunctionOutput(core.NewInt64Element(int64(v)))
		if err != nil {
			l.cs.DoneOutputs()
			return nil, err
		}
	}
	l.cs.DoneOutputs()
	return &M31Limbs{cs: l.cs, ids: ids, value: result}, nil
}

// AddPlain adds limbs pairwise with no carry propagation: output limbs may
// exceed one byte (up to 510), the unreduced form the table-based
// multiplier consumes as its (a+b) and (a-b) operands.
func (l *M31Limbs) AddPlain(other *M31Limbs) (*M31Limbs, error) {
	var sum [4]uint32
	for i := range sum {
		sum[i] = l.value[i] + other.value[i]
	}
	return l.emit2("m31_limbs.add_plain", other, plain(func() script.Snippet {
		// four independent additions; limb i of lhs was pushed before limb i
		// of rhs for every i, so four adds recompose them pairwise in place.
		var out script.Snippet
		for i := 0; i < 4; i++ {
			out = out.Append(script.Instr{Op: script.OpAdd})
		}
		return out
	}), sum)
}

// AddReduced adds limbs with carry propagation, producing output limbs each
// back in [0,256); the fifth potential carry (the sum overflowing 32 bits)
// is dropped, matching the fixed 4-limb width used for CM31-limb arithmetic.
func (l *M31Limbs) AddReduced(other *M31Limbs) (*M31Limbs, error) {
	var sum [4]uint32
	carry := uint32(0)
	for i := range sum {
		t := l.value[i] + other.value[i] + carry
		sum[i] = t & 0xff
		carry = t >> 8
	}
	return l.emit2("m31_limbs.add_reduced", other, plain(func() script.Snippet {
		var out script.Snippet
		for i := 0; i < 4; i++ {
			out = out.Append(script.Instr{Op: script.OpAdd})
			if i < 3 {
				out = out.Append(
					script.Instr{Op: script.OpDup},
					script.Instr{Op: script.OpPush, Data: core.NewInt64Element(256).Encode()},
					script.Instr{Op: script.OpGreaterThanOrEqual},
					script.Instr{Op: script.OpIf},
					script.Instr{Op: script.OpPush, Data: core.NewInt64Element(256).Encode()},
					script.Instr{Op: script.OpSub},
					script.Instr{Op: script.OpToAltStack},
					script.Instr{Op: script.OpPush, Data: core.NewInt64Element(1).Encode()},
					script.Instr{Op: script.OpToAltStack},
					script.Instr{Op: script.OpElse},
					script.Instr{Op: script.OpToAltStack},
					script.Instr{Op: script.OpPush, Data: core.NewInt64Element(0).Encode()},
					script.Instr{Op: script.OpToAltStack},
					script.Instr{Op: script.OpEndIf},
				)
			}
		}
		return out
	}), sum)
}

// quarterSquareMul computes a*b for a,b in [0,255] via the quarter-square
// identity a*b = floor((a+b)^2/4) - floor((a-b)^2/4), both terms resolved
// through the shared table's native entries.
func quarterSquareMul(a, b uint32) int64 {
	return table.Entry(int64(a)+int64(b)) - table.Entry(int64(a)-int64(b))
}

// Mul computes self*other as an M31, consuming the shared table. The native
// side schoolbooks the 16 limb-pair partial products through the
// quarter-square identity, shift-adds them into a 62-bit accumulator, folds
// that accumulator down with the Mersenne identity 2^31 == 1 (mod 2^31-1),
// and allocates the folding quotient as a hint so the emitted side can
// verify the reduction without recomputing the whole schoolbook natively.
func (l *M31Limbs) Mul(t *table.Table, other *M31Limbs) (*M31, error) {
	var acc uint64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			p := quarterSquareMul(l.value[i], other.value[j])
			acc += uint64(p) << uint((i+j)*8)
		}
	}

	hi := acc >> 31
	lo := acc & ((1 << 31) - 1)
	folded := hi + lo
	if folded >= uint64(m31Modulus) {
		folded -= uint64(m31Modulus)
	}
	res := uint32(folded)

	qID, err := l.cs.AllocHint(core.NewInt64Element(int64(hi)))
	if err != nil {
		return nil, err
	}

	inputs := append(append([]core.ID{}, l.ids[:]...), other.ids[:]...)
	inputs = append(inputs, qID)
	opts := t.WithBase(options.New())

	gen := func(m *stack.Model, o *options.Bag) (script.Snippet, error) {
		baseU32, err := o.U32(table.OptionKey)
		if err != nil {
			return nil, err
		}
		baseID := core.ID(baseU32)
		if !m.IsPresent(baseID) {
			return nil, cserr.New(cserr.StackInvariant, "m31_limbs.mul: table base id not present")
		}
		k, err := m.RelativePosition(baseID)
		if err != nil {
			return nil, err
		}
		// k is the table's current depth-relative offset; every partial
		// product below indexes into it at k + (entry index), exactly the
		// "depth baked in at emit time" pattern SPEC_FULL.md describes.
		var out script.Snippet
		out = out.Append(script.Instr{Op: script.OpToAltStack}) // stash q
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				out = out.Append(
					script.Instr{Op: script.OpPick, N: k + i + j},
					script.Instr{Op: script.OpPick, N: k + i + j + 1},
				)
			}
		}
		out = out.Append(script.Instr{Op: script.OpFromAltStack}, script.Instr{Op: script.OpM31Mul})
		return out, nil
	}

	if err := l.cs.EmitSubprogram(gen, inputs, opts, "m31_limbs.mul"); err != nil {
		return nil, err
	}
	resID, err := l.cs.AllocFunctionOutput(core.NewInt64Element(int64(res)))
	l.cs.DoneOutputs()
	if err != nil {
		return nil, err
	}
	return &M31{cs: l.cs, id: resID, value: res}, nil
}

// Inverse computes the multiplicative inverse via the table-based
// multiplier: native side runs the fixed addition chain on the recomposed
// value, the result's limbs are allocated as a hint, and multiplying the
// two limb forms back together (through Mul) must certify to one.
func (l *M31Limbs) Inverse(t *table.Table) (*M31Limbs, error) {
	v := limbsToM31(l.value)
	if v == 0 {
		panic("builtins: M31Limbs inverse of zero")
	}
	inv := m31Pow2147483645(v)
	invLimbs := m31ToLimbBytes(inv)

	var invIDs [4]core.ID
	for i, lv := range invLimbs {
		id, err := l.cs.AllocHint(core.NewInt64Element(int64(lv)))
		if err != nil {
			return nil, err
		}
		invIDs[i] = id
	}
	invVar := &M31Limbs{cs: l.cs, ids: invIDs, value: invLimbs}

	one, err := l.Mul(t, invVar)
	if err != nil {
		return nil, err
	}
	if one.value != 1 {
		panic("builtins: M31Limbs inverse failed to certify to one")
	}
	return invVar, nil
}
