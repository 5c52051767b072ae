// Package planner walks a finalized ConstraintSystem's trace exactly once
// and compiles it into a linear stack-machine program, resolving each
// virtual variable to a positional stack offset at use time (SPEC_FULL.md
// §4.3).
package planner

import (
	"fmt"
	"log/slog"

	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/cserr"
	"github.com/vybium/vybium-csc/internal/vybium-csc/script"
	"github.com/vybium/vybium-csc/internal/vybium-csc/stack"
)

// CompiledProgram is the planner's output: the resolved input vector, the
// hint vector (in RequestHint order) and the linear script.
type CompiledProgram struct {
	Inputs []core.Element
	Hints  []core.Element
	Script script.Snippet
}

type config struct {
	logger     *slog.Logger
	debugNames bool
}

// CompileOption configures a single Compile call.
type CompileOption func(*config)

// WithLogger attaches a structured logger; Compile emits one debug record
// per EmitSubprogram event and a summary record at the end. Defaults to a no-op
// (discard) logger.
func WithLogger(l *slog.Logger) CompileOption {
	return func(c *config) { c.logger = l }
}

// WithDebugNames resolves each EmitSubprogram's input ids to the names set
// via core.Memory.SetDebugName in the per-event debug log line, falling
// back to "id<N>" for ids with no recorded name. Only affects WithLogger's
// output; never consulted when resolving the emitted script, inputs or
// hints.
func WithDebugNames() CompileOption {
	return func(c *config) { c.debugNames = true }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Compile consumes cs's trace exactly once and produces a CompiledProgram.
// cs must already be finalized.
func Compile(cs *core.ConstraintSystem, opts ...CompileOption) (*CompiledProgram, error) {
	if !cs.Finalized() {
		return nil, cserr.New(cserr.FinalizedMutation, "Compile requires a finalized ConstraintSystem")
	}
	cfg := &config{logger: discardLogger()}
	for _, o := range opts {
		o(cfg)
	}

	mem := cs.Memory()
	trace := cs.Trace()

	// 1. Liveness precomputation.
	lastTouch := make(map[core.ID]int)
	ts := 0
	for _, e := range trace {
		if es, ok := e.(core.EmitSubprogram); ok {
			ts++
			for _, id := range es.Inputs {
				lastTouch[id] = ts
			}
		}
	}

	// 2. Input determination. Memory counts inputs as they are allocated, so
	// NumInputs already equals the memory size when no other id exists.
	numInputs := mem.NumInputs()
	inputs := make([]core.Element, 0, numInputs)
	for i := 0; i < numInputs; i++ {
		el, err := mem.ElementAt(core.ID(i))
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, el)
	}

	// 3. Initial stack.
	model := stack.New(mem.Size())
	for i := 0; i < numInputs; i++ {
		if err := model.Push(core.ID(i), 1); err != nil {
			return nil, err
		}
	}

	// 4. Output set collection.
	var outputs []core.ID
	for _, e := range trace {
		if so, ok := e.(core.SystemOutput); ok {
			outputs = append(outputs, so.ID)
		}
	}
	isOutput := make(map[core.ID]bool, len(outputs))
	for _, id := range outputs {
		isOutput[id] = true
	}

	var out script.Snippet
	var hints []core.Element
	ts = 0

	// 5. Main walk.
	for _, e := range trace {
		switch ev := e.(type) {
		case core.DeclareConstant:
			el, err := mem.ElementAt(ev.ID)
			if err != nil {
				return nil, err
			}
			out = out.Append(script.Push(el.Encode())...)
			if err := model.Push(ev.ID, 1); err != nil {
				return nil, err
			}

		case core.RequestHint:
			out = out.Append(script.HintLoad()...)
			if err := model.Push(ev.ID, 1); err != nil {
				return nil, err
			}
			el, err := mem.ElementAt(ev.ID)
			if err != nil {
				return nil, err
			}
			hints = append(hints, el)

		case core.DeclareOutput:
			if err := model.Push(ev.ID, 1); err != nil {
				return nil, err
			}

		case core.EmitSubprogram:
			ts++
			for k, id := range ev.Inputs {
				if !model.IsPresent(id) {
					return nil, cserr.New(cserr.StackInvariant, fmt.Sprintf("planner: input id %d not present at use (%s)", id, ev.Label))
				}
				pos, err := model.RelativePosition(id)
				if err != nil {
					return nil, err
				}
				pos += k

				appearsLater := false
				for _, later := range ev.Inputs[k+1:] {
					if later == id {
						appearsLater = true
						break
					}
				}
				useRoll := lastTouch[id] == ts && !appearsLater && !isOutput[id]

				if useRoll {
					out = out.Append(script.Roll(pos)...)
					if err := model.Pull(id); err != nil {
						return nil, err
					}
				} else {
					out = out.Append(script.Pick(pos)...)
				}
			}
			snippet, err := ev.Generator(model, ev.Options)
			if err != nil {
				return nil, fmt.Errorf("planner: generator %q: %w", ev.Label, err)
			}
			out = out.Append(snippet...)
			if cfg.debugNames {
				names := make([]string, len(ev.Inputs))
				for i, id := range ev.Inputs {
					if n, ok := mem.DebugName(id); ok {
						names[i] = n
					} else {
						names[i] = fmt.Sprintf("id%d", id)
					}
				}
				cfg.logger.Debug("emit subprogram", "label", ev.Label, "inputs", len(ev.Inputs), "input_names", names, "stack_height", model.NumPresent())
			} else {
				cfg.logger.Debug("emit subprogram", "label", ev.Label, "inputs", len(ev.Inputs), "stack_height", model.NumPresent())
			}

		case core.SystemOutput:
			// no script action at declaration time
		}
	}

	// 6. Output routing (reversed).
	footprintMoved := 0
	for i := len(outputs) - 1; i >= 0; i-- {
		id := outputs[i]
		if !model.IsPresent(id) {
			return nil, cserr.New(cserr.StackInvariant, fmt.Sprintf("planner: output id %d not present at routing time", id))
		}
		pos, err := model.RelativePosition(id)
		if err != nil {
			return nil, err
		}
		appearsEarlierInRemaining := false
		for _, earlier := range outputs[:i] {
			if earlier == id {
				appearsEarlierInRemaining = true
				break
			}
		}
		if appearsEarlierInRemaining {
			out = out.Append(script.Pick(pos)...)
		} else {
			out = out.Append(script.Roll(pos)...)
			if err := model.Pull(id); err != nil {
				return nil, err
			}
		}
		out = out.Append(script.ToAltStack(1)...)
		footprintMoved++
	}

	// 7. Garbage drop.
	remaining := model.NumPresent()
	if remaining > 0 {
		out = out.Append(script.Drop(remaining)...)
		model.PullAll()
	}

	// 8. Output restoration.
	out = out.Append(script.FromAltStack(footprintMoved)...)

	cfg.logger.Debug("compile summary", "inputs", len(inputs), "hints", len(hints), "script_len", len(out), "outputs_moved", footprintMoved, "garbage_dropped", remaining)

	return &CompiledProgram{Inputs: inputs, Hints: hints, Script: out}, nil
}
