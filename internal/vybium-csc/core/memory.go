package core

import (
	"fmt"
	"math/big"

	"github.com/dolthub/swiss"

	"github.com/vybium/vybium-csc/internal/vybium-csc/cserr"
	"github.com/vybium/vybium-csc/internal/vybium-csc/vid"
)

// ID addresses a single Element in Memory.
type ID = vid.ID

// Memory is an insertion-ordered, append-only table of typed values.
type Memory struct {
	elements []Element
	modes    []AllocationMode

	sealedInputs bool // true once a non-ProgramInput id has been allocated
	numInputs    int

	// debugNames is an id->name index, populated by SetDebugName (the
	// builtins constant constructors call it); it is read only for log
	// output when Compile runs with planner.WithDebugNames and is never
	// consulted by Compile's semantics.
	debugNames *swiss.Map[ID, string]
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{debugNames: swiss.NewMap[ID, string](8)}
}

// SetDebugName records a human-readable name for id, for log output only.
func (m *Memory) SetDebugName(id ID, name string) {
	m.debugNames.Put(id, name)
}

// DebugName returns the name set for id via SetDebugName, if any.
func (m *Memory) DebugName(id ID) (string, bool) {
	return m.debugNames.Get(id)
}

// Size returns the number of allocated ids.
func (m *Memory) Size() int { return len(m.elements) }

// NumInputs returns the number of program inputs allocated so far; it
// stops changing once the first non-input id is allocated.
func (m *Memory) NumInputs() int { return m.numInputs }

// Alloc appends a new Element under the given mode and returns its id.
// FunctionOutput ids are allocated the same way at the storage layer; the
// restriction that only the EmitSubprogram registration path may produce
// them is enforced by ConstraintSystem, not Memory.
func (m *Memory) Alloc(el Element, mode AllocationMode) (ID, error) {
	if mode == ProgramInput {
		if m.sealedInputs {
			return 0, cserr.New(cserr.OrderViolation, "program input allocated after a non-input id")
		}
		m.numInputs++
	} else {
		m.sealedInputs = true
	}
	id := ID(len(m.elements))
	m.elements = append(m.elements, el)
	m.modes = append(m.modes, mode)
	return id, nil
}

// ElementAt returns the Element stored at id.
func (m *Memory) ElementAt(id ID) (Element, error) {
	if int(id) < 0 || int(id) >= len(m.elements) {
		return Element{}, cserr.New(cserr.MemoryCorruption, fmt.Sprintf("reference to unknown id %d", id))
	}
	return m.elements[id], nil
}

// ModeAt returns the AllocationMode stored at id.
func (m *Memory) ModeAt(id ID) (AllocationMode, error) {
	if int(id) < 0 || int(id) >= len(m.modes) {
		return 0, cserr.New(cserr.MemoryCorruption, fmt.Sprintf("reference to unknown id %d", id))
	}
	return m.modes[id], nil
}

// IntAt and BytesAt are read-only typed accessors used by the planner and
// by tests; they return MemoryCorruption if id is unknown and TypeMismatch
// if the stored element is the wrong kind.
func (m *Memory) IntAt(id ID) (*big.Int, error) {
	el, err := m.ElementAt(id)
	if err != nil {
		return nil, err
	}
	if el.Kind() != KindInteger {
		return nil, cserr.New(cserr.TypeMismatch, fmt.Sprintf("id %d is not an integer element", id))
	}
	return el.Int(), nil
}

func (m *Memory) BytesAt(id ID) ([]byte, error) {
	el, err := m.ElementAt(id)
	if err != nil {
		return nil, err
	}
	if el.Kind() != KindBytes {
		return nil, cserr.New(cserr.TypeMismatch, fmt.Sprintf("id %d is not a byte-string element", id))
	}
	return el.Bytes(), nil
}
