// Package stack implements the planner's live model of the stack machine's
// main stack: a per-id state vector plus a Fenwick tree over footprints so
// that depth-from-top for any live id resolves in O(log N) (SPEC_FULL.md §3
// "Stack model", §9 "Fenwick tree indexing").
package stack

import (
	"fmt"

	"github.com/vybium/vybium-csc/internal/vybium-csc/cserr"
	"github.com/vybium/vybium-csc/internal/vybium-csc/vid"
)

type state int

const (
	absent state = iota
	present
	pulled
)

// Model is the planner's live view of the stack. It is not safe for
// concurrent use; a single planner owns one Model for the duration of a
// Compile call.
type Model struct {
	states    map[vid.ID]state
	footprint map[vid.ID]int
	tree      *fenwick
	maxID     int
}

// New returns an empty Model sized to hold ids up to capacity-1.
func New(capacity int) *Model {
	if capacity < 1 {
		capacity = 1
	}
	return &Model{
		states:    make(map[vid.ID]state, capacity),
		footprint: make(map[vid.ID]int, capacity),
		tree:      newFenwick(capacity),
		maxID:     capacity,
	}
}

func (m *Model) ensure(id vid.ID) error {
	if int(id) < 0 || int(id) >= m.maxID {
		return cserr.New(cserr.MemoryCorruption, fmt.Sprintf("stack model: id %d out of range", id))
	}
	return nil
}

// Push marks id Present with the given footprint (always 1 for this stack
// machine's element shapes, but kept general per SPEC_FULL.md §3).
func (m *Model) Push(id vid.ID, footprint int) error {
	if err := m.ensure(id); err != nil {
		return err
	}
	if m.states[id] == present {
		return cserr.New(cserr.MemoryCorruption, fmt.Sprintf("stack model: id %d pushed while already present", id))
	}
	m.states[id] = present
	m.footprint[id] = footprint
	m.tree.add(int(id), footprint)
	return nil
}

// Pull transitions id from Present to Pulled, removing it from the tree.
// Fails (StackInvariant) on an absent id or a double pull.
func (m *Model) Pull(id vid.ID) error {
	if err := m.ensure(id); err != nil {
		return err
	}
	if m.states[id] != present {
		return cserr.New(cserr.StackInvariant, fmt.Sprintf("stack model: pull of non-present id %d", id))
	}
	m.states[id] = pulled
	m.tree.add(int(id), -m.footprint[id])
	return nil
}

// IsPresent reports whether id is currently Present.
func (m *Model) IsPresent(id vid.ID) bool {
	return m.states[id] == present
}

// RelativePosition returns the zero-based depth from the top of the stack
// for a Present id: (prefixSum[id..end]) - 1. Defined only for Present ids.
func (m *Model) RelativePosition(id vid.ID) (int, error) {
	if err := m.ensure(id); err != nil {
		return 0, err
	}
	if m.states[id] != present {
		return 0, cserr.New(cserr.StackInvariant, fmt.Sprintf("stack model: position requested for non-present id %d", id))
	}
	suffixSum := m.tree.sumRange(int(id), m.maxID-1)
	return suffixSum - 1, nil
}

// NumPresent returns the sum of footprints of all Present ids, i.e. the
// live stack height.
func (m *Model) NumPresent() int {
	return m.tree.sumRange(0, m.maxID-1)
}

// fenwick is a standard 1-indexed Fenwick (binary indexed) tree over a
// dense integer domain [0, n).
type fenwick struct {
	tree []int
	n    int
}

func newFenwick(n int) *fenwick {
	return &fenwick{tree: make([]int, n+1), n: n}
}

// add applies delta at position i (0-indexed).
func (f *fenwick) add(i, delta int) {
	for i++; i <= f.n; i += i & (-i) {
		f.tree[i] += delta
	}
}

// prefixSum returns the sum over [0, i] (0-indexed, inclusive).
func (f *fenwick) prefixSum(i int) int {
	sum := 0
	for i++; i > 0; i -= i & (-i) {
		sum += f.tree[i]
	}
	return sum
}

// sumRange returns the sum over [lo, hi] (0-indexed, inclusive).
func (f *fenwick) sumRange(lo, hi int) int {
	if hi < lo {
		return 0
	}
	s := f.prefixSum(hi)
	if lo > 0 {
		s -= f.prefixSum(lo - 1)
	}
	return s
}
