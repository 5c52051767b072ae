package vybiumcsc

import (
	"log/slog"

	"github.com/vybium/vybium-csc/internal/vybium-csc/builtins"
	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/ldm"
	"github.com/vybium/vybium-csc/internal/vybium-csc/planner"
	"github.com/vybium/vybium-csc/internal/vybium-csc/script"
	"github.com/vybium/vybium-csc/internal/vybium-csc/table"
)

// ConstraintSystem is the recording layer a build records its trace
// against: construct with NewConstraintSystem, record variables through the
// builtins.* constructors and their methods, then Finalize and Compile.
type ConstraintSystem = core.ConstraintSystem

// ID is a memory-cell identifier within a ConstraintSystem.
type ID = core.ID

// CompiledProgram is the planner's output: resolved input and hint vectors
// alongside the linear emitted script.
type CompiledProgram = planner.CompiledProgram

// CompileOption configures a single Compile call: WithLogger here, or
// planner.WithDebugNames.
type CompileOption = planner.CompileOption

// Snippet is an ordered, immutable sequence of stack-machine instructions;
// the concrete stand-in for the "conforming executor" contract no party in
// this module implements.
type Snippet = script.Snippet

// Table is the once-per-system ⌊i²/4⌋ lookup table backing quarter-square
// multiplication; obtained via NewTable and threaded into any M31Limbs or
// CM31Limbs multiply.
type Table = table.Table

// LDM is the log-data memory: a key-addressed store chaining writes and
// reads into two hash commitments so a build can be split across two
// cooperating constraint systems.
type LDM = ldm.LDM

// Bool, U8, I32, M31, M31Limbs, CM31, CM31Limbs, QM31, QM31Limbs, Hash and
// Str are the typed variable algebra: each wraps one or more ConstraintSystem
// ids and a native mirror value, and exposes operations that record a
// subprogram and return a fresh result variable.
type (
	Bool      = builtins.Bool
	U8        = builtins.U8
	I32       = builtins.I32
	M31       = builtins.M31
	M31Limbs  = builtins.M31Limbs
	CM31      = builtins.CM31
	CM31Limbs = builtins.CM31Limbs
	QM31      = builtins.QM31
	QM31Limbs = builtins.QM31Limbs
	Hash      = builtins.Hash
	Str       = builtins.Str
)

// NewConstraintSystem returns an empty ConstraintSystem ready to record a
// build against.
func NewConstraintSystem() *ConstraintSystem {
	return core.New()
}

// NewTable allocates the shared lookup-table constant once per
// ConstraintSystem.
func NewTable(cs *ConstraintSystem) (*Table, error) {
	return table.New(cs)
}

// NewLDM returns an empty LDM, not yet bound to a ConstraintSystem.
func NewLDM() *LDM {
	return ldm.New()
}

// NewM31Constant allocates a Mersenne-31 field element constant, reducing v
// modulo 2^31-1 first.
func NewM31Constant(cs *ConstraintSystem, v uint32) (*M31, error) {
	return builtins.NewM31Constant(cs, v)
}

// NewCM31Constant allocates a Mersenne-complex field element constant.
func NewCM31Constant(cs *ConstraintSystem, real, imag uint32) (*CM31, error) {
	return builtins.NewCM31Constant(cs, real, imag)
}

// NewHashConstant allocates a 32-byte digest constant.
func NewHashConstant(cs *ConstraintSystem, v [32]byte) (*Hash, error) {
	return builtins.NewHashConstant(cs, v)
}

// WithLogger attaches a structured diagnostic logger to Compile.
func WithLogger(l *slog.Logger) CompileOption {
	return planner.WithLogger(l)
}

// Compile consumes cs's trace exactly once and produces a CompiledProgram.
// cs must already be finalized.
func Compile(cs *ConstraintSystem, opts ...CompileOption) (*CompiledProgram, error) {
	return planner.Compile(cs, opts...)
}
