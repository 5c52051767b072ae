// Package builtins is the typed-variable algebra: BVar-shaped wrappers
// (Bool, U8, I32, M31, M31Limbs, CM31, CM31Limbs, QM31, Hash, Channel, Str)
// that each expose operations computing a native result, recording one or
// more emitted subprograms against the owning ConstraintSystem, and
// returning fresh result variables (SPEC_FULL.md §4.5).
package builtins

import (
	"fmt"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/cserr"
	"github.com/vybium/vybium-csc/internal/vybium-csc/options"
	"github.com/vybium/vybium-csc/internal/vybium-csc/script"
	"github.com/vybium/vybium-csc/internal/vybium-csc/stack"
)

// plain wraps a fixed-shape generator that ignores the stack model and
// options, matching the "plain" subprogram shape of SPEC_FULL.md §4.4.
func plain(fn func() script.Snippet) core.Generator {
	return func(*stack.Model, *options.Bag) (script.Snippet, error) {
		return fn(), nil
	}
}

// Bool is a boolean variable: footprint 1, native value always 0 or 1.
type Bool struct {
	cs    *core.ConstraintSystem
	id    core.ID
	value bool
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// NewBoolConstant allocates a boolean constant.
func NewBoolConstant(cs *core.ConstraintSystem, v bool) (*Bool, error) {
	id, err := cs.AllocConstant(core.NewInt64Element(boolInt(v)))
	if err != nil {
		return nil, err
	}
	cs.SetDebugName(id, fmt.Sprintf("bool.constant(%t)", v))
	return &Bool{cs: cs, id: id, value: v}, nil
}

// NewBoolHint allocates a boolean hint; the emitted program treats it as
// untrusted until some consuming verify enforces it.
func NewBoolHint(cs *core.ConstraintSystem, v bool) (*Bool, error) {
	id, err := cs.AllocHint(core.NewInt64Element(boolInt(v)))
	if err != nil {
		return nil, err
	}
	return &Bool{cs: cs, id: id, value: v}, nil
}

func (b *Bool) ID() core.ID  { return b.id }
func (b *Bool) Value() bool  { return b.value }
func (b *Bool) Length() int  { return 1 }
func (b *Bool) Variables() []core.ID { return []core.ID{b.id} }

func (b *Bool) emit1(label string, gen core.Generator, result bool) (*Bool, error) {
	if err := b.cs.EmitSubprogram(gen, []core.ID{b.id}, options.New(), label); err != nil {
		return nil, err
	}
	id, err := b.cs.AllocFunctionOutput(core.NewInt64Element(boolInt(result)))
	b.cs.DoneOutputs()
	if err != nil {
		return nil, err
	}
	return &Bool{cs: b.cs, id: id, value: result}, nil
}

func (b *Bool) emit2(label string, other *Bool, gen core.Generator, result bool) (*Bool, error) {
	if err := b.cs.EmitSubprogram(gen, []core.ID{b.id, other.id}, options.New(), label); err != nil {
		return nil, err
	}
	id, err := b.cs.AllocFunctionOutput(core.NewInt64Element(boolInt(result)))
	b.cs.DoneOutputs()
	if err != nil {
		return nil, err
	}
	return &Bool{cs: b.cs, id: id, value: result}, nil
}

// Not returns the logical negation.
func (b *Bool) Not() (*Bool, error) {
	return b.emit1("bool.not", plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpNot}}
	}), !b.value)
}

// And returns the logical conjunction.
func (b *Bool) And(other *Bool) (*Bool, error) {
	return b.emit2("bool.and", other, plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpBoolAnd}}
	}), b.value && other.value)
}

// Or returns the logical disjunction.
func (b *Bool) Or(other *Bool) (*Bool, error) {
	return b.emit2("bool.or", other, plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpBoolOr}}
	}), b.value || other.value)
}

// Xor returns the logical exclusive-or.
func (b *Bool) Xor(other *Bool) (*Bool, error) {
	result := b.value != other.value
	return b.emit2("bool.xor", other, plain(func() script.Snippet {
		return script.Snippet{
			{Op: script.OpNumEqual},
			{Op: script.OpNot},
		}
	}), result)
}

// Verify consumes the variable and fails the emitted program if it is 0.
func (b *Bool) Verify() error {
	if b.cs == nil {
		return cserr.New(cserr.TypeMismatch, "Verify called on zero-value Bool")
	}
	if err := b.cs.EmitSubprogram(plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpVerify}}
	}), []core.ID{b.id}, options.New(), "bool.verify"); err != nil {
		return err
	}
	b.cs.DoneOutputs()
	return nil
}
