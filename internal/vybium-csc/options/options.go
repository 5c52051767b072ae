// Package options implements the typed heterogeneous side-channel attached
// to each emitted subprogram (SPEC_FULL.md §4, "Options bag").
package options

import (
	"fmt"

	"github.com/vybium/vybium-csc/internal/vybium-csc/cserr"
)

// Bag is a string-keyed map of typed values. Missing-key lookups fail
// loudly with cserr.OptionMissing rather than returning a zero value.
type Bag struct {
	values map[string]any
}

// New returns an empty Bag.
func New() *Bag { return &Bag{values: make(map[string]any)} }

// With returns a copy of the bag with key set to v, leaving the receiver
// untouched (bags are threaded through EmitSubprogram by value semantics at
// the call site).
func (b *Bag) With(key string, v any) *Bag {
	nb := &Bag{values: make(map[string]any, len(b.values)+1)}
	for k, val := range b.values {
		nb.values[k] = val
	}
	nb.values[key] = v
	return nb
}

func (b *Bag) get(key string) (any, error) {
	if b == nil {
		return nil, cserr.New(cserr.OptionMissing, fmt.Sprintf("option %q not present (nil bag)", key))
	}
	v, ok := b.values[key]
	if !ok {
		return nil, cserr.New(cserr.OptionMissing, fmt.Sprintf("option %q not present", key))
	}
	return v, nil
}

func typed[T any](b *Bag, key string) (T, error) {
	var zero T
	v, err := b.get(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, cserr.New(cserr.OptionMissing, fmt.Sprintf("option %q has unexpected type", key))
	}
	return t, nil
}

func (b *Bag) String(key string) (string, error)        { return typed[string](b, key) }
func (b *Bag) Bytes(key string) ([]byte, error)          { return typed[[]byte](b, key) }
func (b *Bag) MultiBytes(key string) ([][]byte, error)   { return typed[[][]byte](b, key) }
func (b *Bag) U32(key string) (uint32, error)            { return typed[uint32](b, key) }
func (b *Bag) MultiU32(key string) ([]uint32, error)     { return typed[[]uint32](b, key) }
func (b *Bag) U64(key string) (uint64, error)            { return typed[uint64](b, key) }
func (b *Bag) MultiU64(key string) ([]uint64, error)     { return typed[[]uint64](b, key) }
