package builtins

import (
	"fmt"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/options"
	"github.com/vybium/vybium-csc/internal/vybium-csc/script"
	"github.com/vybium/vybium-csc/internal/vybium-csc/stack"
)

// Str is an arbitrary byte-string variable: footprint 1, used for
// channel-draw byte packets and as the general-purpose string form other
// builtins fold through (SPEC_FULL.md §4.5 supplemented feature).
type Str struct {
	cs    *core.ConstraintSystem
	id    core.ID
	value []byte
}

func NewStrConstant(cs *core.ConstraintSystem, v []byte) (*Str, error) {
	id, err := cs.AllocConstant(core.NewBytesElement(v))
	if err != nil {
		return nil, err
	}
	cs.SetDebugName(id, fmt.Sprintf("str.constant(len=%d)", len(v)))
	return &Str{cs: cs, id: id, value: append([]byte(nil), v...)}, nil
}

func NewStrHint(cs *core.ConstraintSystem, v []byte) (*Str, error) {
	id, err := cs.AllocHint(core.NewBytesElement(v))
	if err != nil {
		return nil, err
	}
	return &Str{cs: cs, id: id, value: append([]byte(nil), v...)}, nil
}

func (s *Str) ID() core.ID          { return s.id }
func (s *Str) Value() []byte        { return append([]byte(nil), s.value...) }
func (s *Str) Length() int          { return 1 }
func (s *Str) Variables() []core.ID { return []core.ID{s.id} }

// Add concatenates self then other (OP_CAT order: self stays deepest).
func (s *Str) Add(other *Str) (*Str, error) {
	res := append(append([]byte(nil), s.value...), other.value...)
	if err := s.cs.EmitSubprogram(plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpCat}}
	}), []core.ID{s.id, other.id}, options.New(), "str.add"); err != nil {
		return nil, err
	}
	id, err := s.cs.AllocFunctionOutput(core.NewBytesElement(res))
	s.cs.DoneOutputs()
	if err != nil {
		return nil, err
	}
	return &Str{cs: s.cs, id: id, value: res}, nil
}

// LenEqualVerify asserts the byte length equals l exactly.
func (s *Str) LenEqualVerify(l int) error {
	if len(s.value) != l {
		panic("builtins: Str LenEqualVerify length mismatch")
	}
	return s.lenCheck(l, "str.len_equalverify", lenEqualSnippet)
}

// LenLessThan asserts the byte length is strictly less than l.
func (s *Str) LenLessThan(l int) error {
	if len(s.value) >= l {
		panic("builtins: Str LenLessThan bound violated")
	}
	return s.lenCheck(l, "str.len_lessthan", lenLessThanSnippet)
}

// LenLessThanOrEqual asserts the byte length is at most l.
func (s *Str) LenLessThanOrEqual(l int) error {
	return s.LenLessThan(l + 1)
}

func lenEqualSnippet(ln uint32) script.Snippet {
	return script.Snippet{
		{Op: script.OpSize},
		{Op: script.OpPush, Data: core.NewInt64Element(int64(ln)).Encode()},
		{Op: script.OpEqualVerify},
		{Op: script.OpDrop},
	}
}

func lenLessThanSnippet(ln uint32) script.Snippet {
	return script.Snippet{
		{Op: script.OpSize},
		{Op: script.OpPush, Data: core.NewInt64Element(int64(ln)).Encode()},
		{Op: script.OpLessThan},
		{Op: script.OpVerify},
		{Op: script.OpDrop},
	}
}

// lenCheck is a complex generator: it re-derives the bound from the options
// bag rather than closing over it, following the i32 limb-check pattern.
func (s *Str) lenCheck(l int, label string, build func(uint32) script.Snippet) error {
	opts := options.New().With("len", uint32(l))
	gen := func(_ *stack.Model, o *options.Bag) (script.Snippet, error) {
		v, err := o.U32("len")
		if err != nil {
			return nil, err
		}
		return build(v), nil
	}
	if err := s.cs.EmitSubprogram(gen, []core.ID{s.id}, opts, label); err != nil {
		return err
	}
	s.cs.DoneOutputs()
	return nil
}
