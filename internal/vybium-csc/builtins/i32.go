package builtins

import (
	"fmt"
	"math"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/cserr"
	"github.com/vybium/vybium-csc/internal/vybium-csc/options"
	"github.com/vybium/vybium-csc/internal/vybium-csc/script"
	"github.com/vybium/vybium-csc/internal/vybium-csc/stack"
)

// I32 is a signed 32-bit integer variable: footprint 1. Native arithmetic
// is checked; overflow past int32 range, or landing on math.MinInt32,
// panics at recording time (SPEC_FULL.md §4.5, §8 scenario 2).
type I32 struct {
	cs    *core.ConstraintSystem
	id    core.ID
	value int32
}

func NewI32Constant(cs *core.ConstraintSystem, v int32) (*I32, error) {
	if v == math.MinInt32 {
		panic("builtins: I32 value must be > math.MinInt32")
	}
	id, err := cs.AllocConstant(core.NewInt64Element(int64(v)))
	if err != nil {
		return nil, err
	}
	cs.SetDebugName(id, fmt.Sprintf("i32.constant(%d)", v))
	return &I32{cs: cs, id: id, value: v}, nil
}

func (x *I32) ID() core.ID          { return x.id }
func (x *I32) Value() int32         { return x.value }
func (x *I32) Length() int          { return 1 }
func (x *I32) Variables() []core.ID { return []core.ID{x.id} }

func checkedAdd32(a, b int64) int32 {
	sum := a + b
	if sum > math.MaxInt32 || sum <= math.MinInt32 {
		panic("builtins: I32 add overflow")
	}
	return int32(sum)
}

// Add returns x+other for another *I32; AddU8 is the *U8 counterpart
// (together matching the two native overloads in
// original_source/src/builtins/i32.rs).
func (x *I32) Add(other *I32) (*I32, error) {
	res := checkedAdd32(int64(x.value), int64(other.value))
	return x.emit2("i32.add", other.id, plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpAdd}}
	}), res)
}

func (x *I32) AddU8(other *U8) (*I32, error) {
	res := checkedAdd32(int64(x.value), int64(other.value))
	return x.emit2("i32.add_u8", other.id, plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpAdd}}
	}), res)
}

// Sub returns x-other.
func (x *I32) Sub(other *I32) (*I32, error) {
	res := checkedAdd32(int64(x.value), -int64(other.value))
	return x.emit2("i32.sub", other.id, plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpSub}}
	}), res)
}

func (x *I32) SubU8(other *U8) (*I32, error) {
	res := checkedAdd32(int64(x.value), -int64(other.value))
	return x.emit2("i32.sub_u8", other.id, plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpSub}}
	}), res)
}

func (x *I32) emit2(label string, otherID core.ID, gen core.Generator, result int32) (*I32, error) {
	if err := x.cs.EmitSubprogram(gen, []core.ID{x.id, otherID}, options.New(), label); err != nil {
		return nil, err
	}
	id, err := x.cs.AllocFunctionOutput(core.NewInt64Element(int64(result)))
	x.cs.DoneOutputs()
	if err != nil {
		return nil, err
	}
	return &I32{cs: x.cs, id: id, value: result}, nil
}

// CheckFormat emits `abs drop`: the abs opcode refuses the minimum-value
// encoding, so completion of the snippet certifies x > math.MinInt32.
func (x *I32) CheckFormat() error {
	if err := x.cs.EmitSubprogram(plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpAbs}, {Op: script.OpDrop}}
	}), []core.ID{x.id}, options.New(), "i32.check_format"); err != nil {
		return err
	}
	x.cs.DoneOutputs()
	return nil
}

// ToPositiveLimbs decomposes a non-negative I32 into ceil(32/l) l-bit
// limbs, supplied as hints, with an emitted Horner-style recomposition and
// per-limb bound check (0 <= limb < 2^l).
func (x *I32) ToPositiveLimbs(l int) ([]*U8, error) {
	if l < 1 || l > 8 {
		panic("builtins: ToPositiveLimbs requires 1 <= l <= 8")
	}
	if x.value < 0 {
		panic("builtins: ToPositiveLimbs requires a non-negative value")
	}

	n := (32 + l - 1) / l
	v := uint32(x.value)
	limbs := make([]uint8, n)
	for i := 0; i < n; i++ {
		limbs[i] = uint8(v & uint32((1<<uint(l))-1))
		v >>= uint(l)
	}

	hintIDs := make([]core.ID, 0, n)
	res := make([]*U8, 0, n)
	for _, lv := range limbs {
		id, err := x.cs.AllocHint(core.NewInt64Element(int64(lv)))
		if err != nil {
			return nil, err
		}
		hintIDs = append(hintIDs, id)
		res = append(res, &U8{cs: x.cs, id: id, value: lv})
	}

	ids := append([]core.ID{x.id}, hintIDs...)
	opts := options.New().With("n", uint32(n)).With("l", uint32(l))

	if err := x.cs.EmitSubprogram(i32LimbsCheckGenerator(n, l), ids, opts, "i32.to_positive_limbs_check"); err != nil {
		return nil, err
	}
	x.cs.DoneOutputs()
	return res, nil
}

// i32LimbsCheckGenerator is a complex generator: it re-derives n and l from
// the options bag rather than closing over them, so the snippet it emits is
// reproducible purely from the trace entry it was attached to.
func i32LimbsCheckGenerator(wantN, wantL int) core.Generator {
	return func(_ *stack.Model, opts *options.Bag) (script.Snippet, error) {
		n32, err := opts.U32("n")
		if err != nil {
			return nil, err
		}
		l32, err := opts.U32("l")
		if err != nil {
			return nil, err
		}
		n, l := int(n32), int(l32)
		if n != wantN || l != wantL {
			return nil, cserr.New(cserr.OptionMissing, "i32.to_positive_limbs_check: options disagree with recorded shape")
		}

		var out script.Snippet
		bound := int64(1) << uint(l)
		for i := 0; i < n; i++ {
			out = out.Append(
				script.Instr{Op: script.OpDup},
				script.Instr{Op: script.OpPush, Data: core.NewInt64Element(0).Encode()},
				script.Instr{Op: script.OpGreaterThanOrEqual},
				script.Instr{Op: script.OpVerify},
				script.Instr{Op: script.OpDup},
				script.Instr{Op: script.OpPush, Data: core.NewInt64Element(bound).Encode()},
				script.Instr{Op: script.OpLessThan},
				script.Instr{Op: script.OpVerify},
			)
			if i != 0 {
				out = out.Append(script.Instr{Op: script.OpFromAltStack}, script.Instr{Op: script.OpAdd})
			}
			if i != n-1 {
				for s := 0; s < l; s++ {
					out = out.Append(script.Instr{Op: script.OpDup}, script.Instr{Op: script.OpAdd})
				}
				out = out.Append(script.Instr{Op: script.OpToAltStack})
			}
		}
		out = out.Append(script.Instr{Op: script.OpEqualVerify})
		return out, nil
	}
}
