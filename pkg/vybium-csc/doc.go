// Package vybiumcsc is a constraint-system compiler: it records a typed,
// high-level computation over bools, bounded integers, Mersenne-31 field
// elements (and their CM31/QM31 extensions, plain or limb-decomposed),
// hashes and byte strings as an ordered trace of elementary events, then
// compiles that trace exactly once into a single linear stack-machine
// program plus a hint vector and an input vector.
//
// # Quick Start
//
// Build a constraint system, record a small computation against the typed
// variable algebra in internal/vybium-csc/builtins, finalize, and compile:
//
//	cs := core.New()
//	a, err := builtins.NewM31Constant(cs, 2)
//	b, err := builtins.NewM31Constant(cs, 3)
//	c, err := a.Mul(b)
//	cs.SetProgramOutput(c.ID())
//	cs.Finalize()
//
//	program, err := planner.Compile(cs, planner.WithLogger(myLogger))
//	// program.Script is the emitted stack-machine program; program.Inputs
//	// and program.Hints are the input and hint vectors it expects.
//
// # Architecture
//
//   - internal/vybium-csc/core: the recording layer. Memory (the
//     append-only id -> Element table), Trace (the ordered event log) and
//     ConstraintSystem, the single owner of both.
//   - internal/vybium-csc/builtins: the typed variable algebra (Bool, U8,
//     I32, M31, M31Limbs, CM31, CM31Limbs, QM31, QM31Limbs, Hash, Str).
//     Every operation appends to the trace and returns a fresh result
//     variable carrying its own native value.
//   - internal/vybium-csc/table: the once-per-system ⌊i²/4⌋ lookup table
//     backing quarter-square multiplication.
//   - internal/vybium-csc/stack: the planner's per-id liveness and depth
//     model (Fenwick-indexed footprint tracking).
//   - internal/vybium-csc/planner: the single-pass compiler from a
//     finalized trace to a linear script.Snippet program.
//   - internal/vybium-csc/ldm: the log-data memory, a key-addressed store
//     whose writes and reads chain into two hash commitments so a build can
//     be split across two cooperating constraint systems.
//   - internal/vybium-csc/script: the opcode vocabulary and Snippet type
//     subprogram generators and the planner both emit into. No executor is
//     implemented; script.Snippet is the documented operational contract a
//     conforming one would run.
//
// # Errors
//
// Every exported operation that can fail returns an *Error (an alias of the
// internal cserr.Error type) carrying one of the ErrorCode values in this
// package. Recording a native value the algebra cannot represent or certify
// panics instead: I32 and U8 arithmetic overflow, an I32 constant equal to
// math.MinInt32, an out-of-range ToPositiveLimbs width, and value
// assertions whose native values already fail (EqualVerify on unequal
// values, inverting zero, IsOne/IsZero).
package vybiumcsc
