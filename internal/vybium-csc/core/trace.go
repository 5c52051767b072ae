package core

import (
	"github.com/vybium/vybium-csc/internal/vybium-csc/options"
	"github.com/vybium/vybium-csc/internal/vybium-csc/script"
	"github.com/vybium/vybium-csc/internal/vybium-csc/stack"
)

// Generator is a registered subprogram: given the planner's current stack
// model (read-only) and an options bag, it returns the snippet to splice
// into the program. A "plain" generator ignores both arguments; a "complex"
// one inspects the stack model to bake in a depth-relative offset (e.g. the
// shared lookup table's current depth). Both shapes share this one
// signature (SPEC_FULL.md §4.4).
type Generator func(stack *stack.Model, opts *options.Bag) (script.Snippet, error)

// TraceEntry is one elementary recording event. The concrete variants are
// DeclareConstant, RequestHint, DeclareOutput, EmitSubprogram and
// SystemOutput.
type TraceEntry interface {
	isTraceEntry()
}

type DeclareConstant struct{ ID ID }

func (DeclareConstant) isTraceEntry() {}

type RequestHint struct{ ID ID }

func (RequestHint) isTraceEntry() {}

type DeclareOutput struct{ ID ID }

func (DeclareOutput) isTraceEntry() {}

// EmitSubprogram records a generator call against an ordered list of input
// ids. The planner brings each input to the top of the stack (copy or move)
// before appending Generator's snippet.
type EmitSubprogram struct {
	Generator Generator
	Inputs    []ID
	Options   *options.Bag
	// Label is a short human-readable name used only for log/debug output.
	Label string
}

func (EmitSubprogram) isTraceEntry() {}

type SystemOutput struct{ ID ID }

func (SystemOutput) isTraceEntry() {}
