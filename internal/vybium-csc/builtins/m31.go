package builtins

import (
	"fmt"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/options"
	"github.com/vybium/vybium-csc/internal/vybium-csc/script"
)

// m31Modulus is the Mersenne prime 2^31 - 1.
const m31Modulus = (int64(1) << 31) - 1

func m31Reduce(v int64) int64 {
	v %= m31Modulus
	if v < 0 {
		v += m31Modulus
	}
	return v
}

// sqn2n squares v n times modulo m31Modulus, i.e. computes v^(2^n).
func sqn2n(v int64, n int) int64 {
	for i := 0; i < n; i++ {
		v = (v * v) % m31Modulus
	}
	return v
}

// m31Pow2147483645 computes v^(2^31-3) mod (2^31-1): for nonzero v this is
// v's multiplicative inverse, by Fermat's little theorem. Fixed addition
// chain of seven squaring runs (2, 1, 3, 1, 8, 8, 7 squarings), each
// followed by one multiplication (table/utils.rs pow2147483645).
func m31Pow2147483645(v uint32) uint32 {
	iv := int64(v)
	t0 := sqn2n(iv, 2) * iv % m31Modulus
	t1 := sqn2n(t0, 1) * t0 % m31Modulus
	t2 := sqn2n(t1, 3) * t0 % m31Modulus
	t3 := sqn2n(t2, 1) * t0 % m31Modulus
	t4 := sqn2n(t3, 8) * t3 % m31Modulus
	t5 := sqn2n(t4, 8) * t3 % m31Modulus
	return uint32(sqn2n(t5, 7) * t2 % m31Modulus)
}

// M31 is a Mersenne-31 field element: footprint 1, native value in
// [0, 2^31-1).
type M31 struct {
	cs    *core.ConstraintSystem
	id    core.ID
	value uint32
}

func NewM31Constant(cs *core.ConstraintSystem, v uint32) (*M31, error) {
	v = uint32(m31Reduce(int64(v)))
	id, err := cs.AllocConstant(core.NewInt64Element(int64(v)))
	if err != nil {
		return nil, err
	}
	cs.SetDebugName(id, fmt.Sprintf("m31.constant(%d)", v))
	return &M31{cs: cs, id: id, value: v}, nil
}

func NewM31Hint(cs *core.ConstraintSystem, v uint32) (*M31, error) {
	v = uint32(m31Reduce(int64(v)))
	id, err := cs.AllocHint(core.NewInt64Element(int64(v)))
	if err != nil {
		return nil, err
	}
	return &M31{cs: cs, id: id, value: v}, nil
}

func (x *M31) ID() core.ID          { return x.id }
func (x *M31) Value() uint32        { return x.value }
func (x *M31) Length() int          { return 1 }
func (x *M31) Variables() []core.ID { return []core.ID{x.id} }

func (x *M31) emit2(label string, other *M31, gen core.Generator, result uint32) (*M31, error) {
	if err := x.cs.EmitSubprogram(gen, []core.ID{x.id, other.id}, options.New(), label); err != nil {
		return nil, err
	}
	id, err := x.cs.AllocFunctionOutput(core.NewInt64Element(int64(result)))
	x.cs.DoneOutputs()
	if err != nil {
		return nil, err
	}
	return &M31{cs: x.cs, id: id, value: result}, nil
}

// Add emits the native M31 addition snippet: sum, then a single conditional
// subtraction of the modulus (the standard folded reduction since both
// operands are already < modulus, the unreduced sum is < 2*modulus).
func (x *M31) Add(other *M31) (*M31, error) {
	res := uint32(m31Reduce(int64(x.value) + int64(other.value)))
	return x.emit2("m31.add", other, plain(func() script.Snippet {
		return script.Snippet{
			{Op: script.OpAdd},
			{Op: script.OpDup},
			{Op: script.OpPush, Data: core.NewInt64Element(m31Modulus).Encode()},
			{Op: script.OpGreaterThanOrEqual},
			{Op: script.OpIf},
			{Op: script.OpPush, Data: core.NewInt64Element(m31Modulus).Encode()},
			{Op: script.OpSub},
			{Op: script.OpEndIf},
		}
	}), res)
}

// Sub emits the native M31 subtraction snippet: difference, then a single
// conditional addition of the modulus if the result went negative.
func (x *M31) Sub(other *M31) (*M31, error) {
	res := uint32(m31Reduce(int64(x.value) - int64(other.value)))
	return x.emit2("m31.sub", other, plain(func() script.Snippet {
		return script.Snippet{
			{Op: script.OpSub},
			{Op: script.OpDup},
			{Op: script.OpPush, Data: core.NewInt64Element(0).Encode()},
			{Op: script.OpLessThan},
			{Op: script.OpIf},
			{Op: script.OpPush, Data: core.NewInt64Element(m31Modulus).Encode()},
			{Op: script.OpAdd},
			{Op: script.OpEndIf},
		}
	}), res)
}

// Mul emits the native (non-table) M31 multiplication: full 62-bit product
// folded down via the standard Mersenne reduction trick, (hi << 31 | lo)
// reduces to hi + lo mod (2^31-1) since 2^31 == 1 (mod 2^31-1).
func (x *M31) Mul(other *M31) (*M31, error) {
	res := uint32((int64(x.value) * int64(other.value)) % m31Modulus)
	return x.emit2("m31.mul", other, plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpM31Mul}}
	}), res)
}

// Inverse computes x^-1. The native side runs the fixed seven-step
// addition chain (x^(2^31-3) == x^-1 by Fermat, since the group order is
// 2^31-2); the emitted side allocates the result as a hint and verifies
// x * x^-1 == 1, never re-deriving the addition chain on the emitted side.
func (x *M31) Inverse() (*M31, error) {
	if x.value == 0 {
		panic("builtins: M31 inverse of zero")
	}
	inv := m31Pow2147483645(x.value)

	invID, err := x.cs.AllocHint(core.NewInt64Element(int64(inv)))
	if err != nil {
		return nil, err
	}
	invVar := &M31{cs: x.cs, id: invID, value: inv}

	if err := x.cs.EmitSubprogram(plain(func() script.Snippet {
		return script.Snippet{
			{Op: script.OpM31Mul},
			{Op: script.OpPush, Data: core.NewInt64Element(1).Encode()},
			{Op: script.OpEqualVerify},
		}
	}), []core.ID{x.id, invID}, options.New(), "m31.inverse_verify"); err != nil {
		return nil, err
	}
	x.cs.DoneOutputs()
	return invVar, nil
}
