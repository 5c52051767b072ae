package core

import (
	"fmt"
	"math/big"

	"github.com/vybium/vybium-csc/internal/vybium-csc/cserr"
	"github.com/vybium/vybium-csc/internal/vybium-csc/options"
)

// ConstraintSystem uniquely owns a Memory and a Trace. Builtin variables
// (BVar) hold a shared *ConstraintSystem; all mutation goes through it.
// Lifecycle: construct empty -> inputs allocated -> any mix of
// constants/hints/subprogram emissions -> Finalize latches it -> the
// planner consumes it exactly once.
type ConstraintSystem struct {
	memory     *Memory
	trace      []TraceEntry
	finalized  bool
	outputs    []ID
	pendingOut int // nonzero while AllocFunctionOutput may register outputs of the latest EmitSubprogram
}

// New returns an empty ConstraintSystem.
func New() *ConstraintSystem {
	return &ConstraintSystem{memory: NewMemory()}
}

func (cs *ConstraintSystem) checkMutable() error {
	if cs.finalized {
		return cserr.New(cserr.FinalizedMutation, "mutation attempted after Finalize")
	}
	return nil
}

// AllocConstant records a DeclareConstant event and returns the fresh id.
func (cs *ConstraintSystem) AllocConstant(el Element) (ID, error) {
	if err := cs.checkMutable(); err != nil {
		return 0, err
	}
	id, err := cs.memory.Alloc(el, Constant)
	if err != nil {
		return 0, err
	}
	cs.trace = append(cs.trace, DeclareConstant{ID: id})
	return id, nil
}

// AllocInput records a program input. Must happen before any non-input id
// is allocated, enforced by Memory.Alloc.
func (cs *ConstraintSystem) AllocInput(el Element) (ID, error) {
	if err := cs.checkMutable(); err != nil {
		return 0, err
	}
	return cs.memory.Alloc(el, ProgramInput)
}

// AllocHint records a RequestHint event. The element carries the native
// value the recording layer already computed; the emitted program must
// still treat it as untrusted and any claim about it enforced explicitly.
func (cs *ConstraintSystem) AllocHint(el Element) (ID, error) {
	if err := cs.checkMutable(); err != nil {
		return 0, err
	}
	id, err := cs.memory.Alloc(el, Hint)
	if err != nil {
		return 0, err
	}
	cs.trace = append(cs.trace, RequestHint{ID: id})
	return id, nil
}

// EmitSubprogram records one EmitSubprogram event. It does not itself
// allocate outputs; call AllocFunctionOutput immediately afterwards for
// each result id, in stack order, then DoneOutputs. The number of outputs
// is not limited.
func (cs *ConstraintSystem) EmitSubprogram(gen Generator, inputs []ID, opts *options.Bag, label string) error {
	if err := cs.checkMutable(); err != nil {
		return err
	}
	for _, id := range inputs {
		if int(id) < 0 || int(id) >= cs.memory.Size() {
			return cserr.New(cserr.MemoryCorruption, fmt.Sprintf("emitSubprogram: unknown input id %d", id))
		}
	}
	cs.trace = append(cs.trace, EmitSubprogram{Generator: gen, Inputs: append([]ID(nil), inputs...), Options: opts, Label: label})
	cs.pendingOut++
	return nil
}

// AllocFunctionOutput allocates a FunctionOutput id and records the
// corresponding DeclareOutput event. Internal to the builtins package: it
// must only be called immediately after EmitSubprogram, for the outputs of
// that same call, deepest-first.
func (cs *ConstraintSystem) AllocFunctionOutput(el Element) (ID, error) {
	if err := cs.checkMutable(); err != nil {
		return 0, err
	}
	if cs.pendingOut == 0 {
		return 0, cserr.New(cserr.MemoryCorruption, "AllocFunctionOutput called with no pending EmitSubprogram")
	}
	id, err := cs.memory.Alloc(el, FunctionOutput)
	if err != nil {
		return 0, err
	}
	cs.trace = append(cs.trace, DeclareOutput{ID: id})
	return id, nil
}

// DoneOutputs signals that the caller has finished allocating outputs for
// the most recent EmitSubprogram, re-arming the pending-output guard.
func (cs *ConstraintSystem) DoneOutputs() {
	cs.pendingOut = 0
}

// SetProgramOutput appends a SystemOutput event for each id, deepest first.
func (cs *ConstraintSystem) SetProgramOutput(ids ...ID) error {
	if err := cs.checkMutable(); err != nil {
		return err
	}
	for _, id := range ids {
		if int(id) < 0 || int(id) >= cs.memory.Size() {
			return cserr.New(cserr.MemoryCorruption, fmt.Sprintf("setProgramOutput: unknown id %d", id))
		}
		cs.trace = append(cs.trace, SystemOutput{ID: id})
		cs.outputs = append(cs.outputs, id)
	}
	return nil
}

// Finalize latches the system against further mutation.
func (cs *ConstraintSystem) Finalize() error {
	if cs.finalized {
		return cserr.New(cserr.FinalizedMutation, "Finalize called twice")
	}
	for _, e := range cs.trace {
		if es, ok := e.(EmitSubprogram); ok {
			for _, id := range es.Inputs {
				if int(id) < 0 || int(id) >= cs.memory.Size() {
					return cserr.New(cserr.MemoryCorruption, fmt.Sprintf("finalize: trace references unknown id %d", id))
				}
			}
		}
	}
	cs.finalized = true
	return nil
}

func (cs *ConstraintSystem) Finalized() bool { return cs.finalized }

// Trace returns the recorded event log in order. The planner consumes it
// exactly once.
func (cs *ConstraintSystem) Trace() []TraceEntry { return cs.trace }

// Memory exposes the read-only memory accessors.
func (cs *ConstraintSystem) Memory() *Memory { return cs.memory }

func (cs *ConstraintSystem) ElementAt(id ID) (Element, error)  { return cs.memory.ElementAt(id) }
func (cs *ConstraintSystem) IntAt(id ID) (*big.Int, error)     { return cs.memory.IntAt(id) }
func (cs *ConstraintSystem) BytesAt(id ID) ([]byte, error)     { return cs.memory.BytesAt(id) }

// SetDebugName records a human-readable name for id, surfaced by
// planner.WithDebugNames in Compile's log output only.
func (cs *ConstraintSystem) SetDebugName(id ID, name string) { cs.memory.SetDebugName(id, name) }
