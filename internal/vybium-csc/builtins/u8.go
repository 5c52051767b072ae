package builtins

import (
	"fmt"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/cserr"
	"github.com/vybium/vybium-csc/internal/vybium-csc/options"
	"github.com/vybium/vybium-csc/internal/vybium-csc/script"
)

// U8 is an unsigned 8-bit integer variable: footprint 1, native value in
// [0, 255]. Arithmetic is checked on the recording side; overflow is fatal
// (SPEC_FULL.md §4.5, §8 scenario 2 precedent).
type U8 struct {
	cs    *core.ConstraintSystem
	id    core.ID
	value uint8
}

func NewU8Constant(cs *core.ConstraintSystem, v uint8) (*U8, error) {
	id, err := cs.AllocConstant(core.NewInt64Element(int64(v)))
	if err != nil {
		return nil, err
	}
	cs.SetDebugName(id, fmt.Sprintf("u8.constant(%d)", v))
	return &U8{cs: cs, id: id, value: v}, nil
}

func NewU8Hint(cs *core.ConstraintSystem, v uint8) (*U8, error) {
	id, err := cs.AllocHint(core.NewInt64Element(int64(v)))
	if err != nil {
		return nil, err
	}
	return &U8{cs: cs, id: id, value: v}, nil
}

func (u *U8) ID() core.ID          { return u.id }
func (u *U8) Value() uint8         { return u.value }
func (u *U8) Length() int          { return 1 }
func (u *U8) Variables() []core.ID { return []core.ID{u.id} }

// Add returns u+other, panicking on overflow past 255 the same way the
// recorder panics on I32 overflow (SPEC_FULL.md §4 AMBIENT notes).
func (u *U8) Add(other *U8) (*U8, error) {
	sum := int(u.value) + int(other.value)
	if sum > 255 {
		panic("builtins: U8 add overflow")
	}
	return u.emit2("u8.add", other, plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpAdd}}
	}), uint8(sum))
}

// Sub returns u-other, panicking on underflow below 0.
func (u *U8) Sub(other *U8) (*U8, error) {
	diff := int(u.value) - int(other.value)
	if diff < 0 {
		panic("builtins: U8 sub overflow")
	}
	return u.emit2("u8.sub", other, plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpSub}}
	}), uint8(diff))
}

// CheckFormat emits the narrowing verifier 0 <= x <= 255.
func (u *U8) CheckFormat() error {
	if err := u.cs.EmitSubprogram(plain(func() script.Snippet {
		return script.Snippet{
			{Op: script.OpDup}, {Op: script.OpWithinU8}, {Op: script.OpVerify},
		}
	}), []core.ID{u.id}, options.New(), "u8.check_format"); err != nil {
		return err
	}
	u.cs.DoneOutputs()
	return nil
}

func (u *U8) emit2(label string, other *U8, gen core.Generator, result uint8) (*U8, error) {
	if u.cs == nil || other.cs == nil {
		return nil, cserr.New(cserr.TypeMismatch, "operation on zero-value U8")
	}
	if err := u.cs.EmitSubprogram(gen, []core.ID{u.id, other.id}, options.New(), label); err != nil {
		return nil, err
	}
	id, err := u.cs.AllocFunctionOutput(core.NewInt64Element(int64(result)))
	u.cs.DoneOutputs()
	if err != nil {
		return nil, err
	}
	return &U8{cs: u.cs, id: id, value: result}, nil
}
