package builtins

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/options"
	"github.com/vybium/vybium-csc/internal/vybium-csc/script"
)

// Hash is a 32-byte digest variable: footprint 1.
type Hash struct {
	cs    *core.ConstraintSystem
	id    core.ID
	value [32]byte
}

func NewHashConstant(cs *core.ConstraintSystem, v [32]byte) (*Hash, error) {
	id, err := cs.AllocConstant(core.NewBytesElement(v[:]))
	if err != nil {
		return nil, err
	}
	cs.SetDebugName(id, fmt.Sprintf("hash.constant(%s)", hex.EncodeToString(v[:4])))
	return &Hash{cs: cs, id: id, value: v}, nil
}

func NewHashHint(cs *core.ConstraintSystem, v [32]byte) (*Hash, error) {
	id, err := cs.AllocHint(core.NewBytesElement(v[:]))
	if err != nil {
		return nil, err
	}
	return &Hash{cs: cs, id: id, value: v}, nil
}

// NewHashInput allocates a hash supplied on the initial stack as a program
// input, used by LDM to carry its accumulator hashes across the boundary
// between two cooperating programs.
func NewHashInput(cs *core.ConstraintSystem, v [32]byte) (*Hash, error) {
	id, err := cs.AllocInput(core.NewBytesElement(v[:]))
	if err != nil {
		return nil, err
	}
	return &Hash{cs: cs, id: id, value: v}, nil
}

func (h *Hash) ID() core.ID          { return h.id }
func (h *Hash) Value() [32]byte      { return h.value }
func (h *Hash) Length() int          { return 1 }
func (h *Hash) Variables() []core.ID { return []core.ID{h.id} }

// Cat concatenates other then self (matching the recorder's own
// [other, self] input order) and hashes: SHA-256(other ‖ self).
func (h *Hash) Cat(other *Hash) (*Hash, error) {
	var buf [64]byte
	copy(buf[:32], other.value[:])
	copy(buf[32:], h.value[:])
	sum := sha256.Sum256(buf[:])

	if err := h.cs.EmitSubprogram(plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpCat}, {Op: script.OpSha256}}
	}), []core.ID{other.id, h.id}, options.New(), "hash.cat"); err != nil {
		return nil, err
	}
	id, err := h.cs.AllocFunctionOutput(core.NewBytesElement(sum[:]))
	h.cs.DoneOutputs()
	if err != nil {
		return nil, err
	}
	return &Hash{cs: h.cs, id: id, value: sum}, nil
}

// EqualVerify asserts two hashes carry the same value.
func (h *Hash) EqualVerify(other *Hash) error {
	if h.value != other.value {
		panic("builtins: Hash EqualVerify on unequal values")
	}
	if err := h.cs.EmitSubprogram(plain(func() script.Snippet {
		return script.Snippet{{Op: script.OpEqualVerify}}
	}), []core.ID{other.id, h.id}, options.New(), "hash.equalverify"); err != nil {
		return err
	}
	h.cs.DoneOutputs()
	return nil
}

// variable is any recorded value that can be folded into a hash: its
// memory ids plus access to their elements through the owning system.
type variable interface {
	Variables() []core.ID
}

// HashFrom folds v's ids into a single hash via the defined reduction:
// start with SHA-256 of the byte encoding of len(v.Variables()), then for
// each id in order, h <- SHA-256(encode(element) || h).
func HashFrom(cs *core.ConstraintSystem, v variable) (*Hash, error) {
	ids := v.Variables()
	lenElement := core.NewInt64Element(int64(len(ids)))
	cur := sha256.Sum256(lenElement.Encode())

	for _, id := range ids {
		el, err := cs.ElementAt(id)
		if err != nil {
			return nil, err
		}
		var buf []byte
		buf = append(buf, el.Encode()...)
		buf = append(buf, cur[:]...)
		cur = sha256.Sum256(buf)
	}

	opts := options.New().With("len", uint32(len(ids)))
	if err := cs.EmitSubprogram(hashManyGenerator(len(ids)), ids, opts, "hash.from"); err != nil {
		return nil, err
	}
	id, err := cs.AllocFunctionOutput(core.NewBytesElement(cur[:]))
	cs.DoneOutputs()
	if err != nil {
		return nil, err
	}
	return &Hash{cs: cs, id: id, value: cur}, nil
}

func hashManyGenerator(n int) core.Generator {
	return plain(func() script.Snippet {
		var out script.Snippet
		out = out.Append(
			script.Instr{Op: script.OpPush, Data: core.NewInt64Element(int64(n)).Encode()},
			script.Instr{Op: script.OpSha256},
		)
		for i := 0; i < n; i++ {
			out = out.Append(script.Instr{Op: script.OpCat}, script.Instr{Op: script.OpSha256})
		}
		return out
	})
}
