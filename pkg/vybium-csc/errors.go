// Package vybiumcsc is the public facade over the constraint-system
// compiler: the ConstraintSystem recorder, the Compile planner, and the
// typed variable algebra, re-exported from internal/vybium-csc so the
// implementation packages can evolve without breaking callers.
package vybiumcsc

import "github.com/vybium/vybium-csc/internal/vybium-csc/cserr"

// ErrorCode identifies the kind of failure: nine failure codes, with I32 and
// U8 overflow kept apart, plus the zero value ErrUnknown.
type ErrorCode = cserr.Code

const (
	ErrUnknown           = cserr.Unknown
	ErrFinalizedMutation = cserr.FinalizedMutation
	ErrOrderViolation    = cserr.OrderViolation
	ErrMemoryCorruption  = cserr.MemoryCorruption
	ErrTypeMismatch      = cserr.TypeMismatch
	ErrStackInvariant    = cserr.StackInvariant
	ErrOverflowI32       = cserr.OverflowI32
	ErrOverflowU8        = cserr.OverflowU8
	ErrOptionMissing     = cserr.OptionMissing
	ErrEncodingAmbiguous = cserr.EncodingAmbiguous
)

// Error is the structured failure type returned by every exported
// operation: a type alias over cserr.Error so errors.As/errors.Is work
// uniformly whether callers import this package or reach into internal
// error values surfaced through it.
type Error = cserr.Error

// NewError constructs an Error with no wrapped cause.
func NewError(code ErrorCode, message string) *Error {
	return cserr.New(code, message)
}

// WrapError constructs an Error wrapping cause.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return cserr.Wrap(code, message, cause)
}
