package builtins

import (
	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/table"
)

// QM31Limbs is a QM31 value with both CM31 halves held in limb form:
// footprint 16.
type QM31Limbs struct {
	First  *CM31Limbs
	Second *CM31Limbs
}

func (q *QM31Limbs) Length() int { return 16 }
func (q *QM31Limbs) Variables() []core.ID {
	return append(append([]core.ID{}, q.Second.Variables()...), q.First.Variables()...)
}

// NewQM31LimbsFromQM31 decomposes both CM31 halves independently.
func NewQM31LimbsFromQM31(q *QM31) (*QM31Limbs, error) {
	first, err := NewCM31LimbsFromCM31(q.First)
	if err != nil {
		return nil, err
	}
	second, err := NewCM31LimbsFromCM31(q.Second)
	if err != nil {
		return nil, err
	}
	return &QM31Limbs{First: first, Second: second}, nil
}

// Mul computes self*other as a QM31 via the same first/second*v expansion
// QM31.Mul uses, with every CM31 multiplication routed through the
// table-based CM31Limbs.Mul rather than the opaque native gadget.
func (q *QM31Limbs) Mul(t *table.Table, other *QM31Limbs) (*QM31, error) {
	afbf, err := q.First.Mul(t, other.First)
	if err != nil {
		return nil, err
	}
	asbs, err := q.Second.Mul(t, other.Second)
	if err != nil {
		return nil, err
	}

	cs := afbf.Real.cs
	beta, err := NewCM31Constant(cs, qm31BetaReal, qm31BetaImag)
	if err != nil {
		return nil, err
	}
	asbsLimbs, err := NewCM31LimbsFromCM31(asbs)
	if err != nil {
		return nil, err
	}
	betaLimbs, err := NewCM31LimbsFromCM31(beta)
	if err != nil {
		return nil, err
	}
	betaTerm, err := asbsLimbs.Mul(t, betaLimbs)
	if err != nil {
		return nil, err
	}

	first, err := afbf.Add(betaTerm)
	if err != nil {
		return nil, err
	}

	afbs, err := q.First.Mul(t, other.Second)
	if err != nil {
		return nil, err
	}
	asbf, err := q.Second.Mul(t, other.First)
	if err != nil {
		return nil, err
	}
	second, err := afbs.Add(asbf)
	if err != nil {
		return nil, err
	}

	return &QM31{First: first, Second: second}, nil
}
