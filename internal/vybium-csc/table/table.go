// Package table builds the shared lookup table used to realise byte
// multiplication through the quarter-square identity
// a*b = floor((a+b)^2/4) - floor((a-b)^2/4) (SPEC_FULL.md §3, §4.6).
package table

import (
	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/options"
)

// Size is the number of entries: floor(i^2/4) for i in [0, 512].
const Size = 513

// OptionKey is the options-bag key under which a Table's base id is
// recorded for any generator that needs a depth-relative offset into it.
const OptionKey = "table_base_id"

// Table is a distinguished, immutable constant: Size consecutive memory ids
// each holding one entry, allocated once per ConstraintSystem.
type Table struct {
	ids []core.ID // ids[i] holds floor(i*i/4), allocated in increasing i order
}

// New allocates the table's Size constants in cs; every call allocates a
// fresh set of ids.
func New(cs *core.ConstraintSystem) (*Table, error) {
	ids := make([]core.ID, Size)
	for i := 0; i < Size; i++ {
		v := int64(i*i) / 4
		id, err := cs.AllocConstant(core.NewInt64Element(v))
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return &Table{ids: ids}, nil
}

// BaseID is the id of entry 0, the table's shallowest... no: its *deepest*
// stack position, since it was allocated (and thus pushed) first among its
// own ids. Every dependent generator computes its lookup offsets relative
// to this id via the stack model, so the snippet stays correct no matter
// what has been pushed on top of the table since.
func (t *Table) BaseID() core.ID { return t.ids[0] }

// IDAt returns the memory id holding floor(i*i/4).
func (t *Table) IDAt(i int) core.ID { return t.ids[i] }

// WithBase returns a copy of opts carrying this table's base id, for
// generators that need to resolve a depth-relative offset into it.
func (t *Table) WithBase(opts *options.Bag) *options.Bag {
	if opts == nil {
		opts = options.New()
	}
	return opts.With(OptionKey, uint32(t.BaseID()))
}

// Entry computes floor(i*i/4) natively, used by the recording side of the
// limb multiplier to compute hints.
func Entry(i int64) int64 {
	if i < 0 {
		i = -i
	}
	return (i * i) / 4
}
