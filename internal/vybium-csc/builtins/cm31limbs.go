package builtins

import (
	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/table"
)

// CM31Limbs is a CM31 value with both components held in limb form:
// footprint 8 (imag limbs then real limbs, matching CM31's own ordering).
type CM31Limbs struct {
	Imag *M31Limbs
	Real *M31Limbs
}

func (z *CM31Limbs) Length() int          { return 8 }
func (z *CM31Limbs) Variables() []core.ID { return append(append([]core.ID{}, z.Imag.Variables()...), z.Real.Variables()...) }

// NewCM31LimbsFromCM31 decomposes both components independently.
func NewCM31LimbsFromCM31(z *CM31) (*CM31Limbs, error) {
	imag, err := NewM31LimbsFromM31(z.Imag)
	if err != nil {
		return nil, err
	}
	real, err := NewM31LimbsFromM31(z.Real)
	if err != nil {
		return nil, err
	}
	return &CM31Limbs{Imag: imag, Real: real}, nil
}

// AddReduced adds both components independently, each limb carried back
// into [0,256) (CM31Limbs::add_limbs in the source delegates to the
// reduced M31Limbs add for each half).
func (z *CM31Limbs) AddReduced(other *CM31Limbs) (*CM31Limbs, error) {
	imag, err := z.Imag.AddReduced(other.Imag)
	if err != nil {
		return nil, err
	}
	real, err := z.Real.AddReduced(other.Real)
	if err != nil {
		return nil, err
	}
	return &CM31Limbs{Imag: imag, Real: real}, nil
}

// Mul computes self*other as a CM31 via the Karatsuba decomposition used by
// the source's CM31MultGadget: aR*bR and aI*bI each go through the
// table-based limb multiplier; the cross term (aR+aI)*(bR+bI) is computed
// by recomposing to plain M31 first, since the unreduced limb sum can
// exceed the table's single-byte domain.
func (z *CM31Limbs) Mul(t *table.Table, other *CM31Limbs) (*CM31, error) {
	aRbR, err := z.Real.Mul(t, other.Real)
	if err != nil {
		return nil, err
	}
	aIbI, err := z.Imag.Mul(t, other.Imag)
	if err != nil {
		return nil, err
	}

	aRealM31, err := z.Real.ToM31()
	if err != nil {
		return nil, err
	}
	aImagM31, err := z.Imag.ToM31()
	if err != nil {
		return nil, err
	}
	bRealM31, err := other.Real.ToM31()
	if err != nil {
		return nil, err
	}
	bImagM31, err := other.Imag.ToM31()
	if err != nil {
		return nil, err
	}

	aSum, err := aRealM31.Add(aImagM31)
	if err != nil {
		return nil, err
	}
	bSum, err := bRealM31.Add(bImagM31)
	if err != nil {
		return nil, err
	}
	cross, err := aSum.Mul(bSum)
	if err != nil {
		return nil, err
	}

	real, err := aRbR.Sub(aIbI)
	if err != nil {
		return nil, err
	}
	crossMinusReal, err := cross.Sub(aRbR)
	if err != nil {
		return nil, err
	}
	imag, err := crossMinusReal.Sub(aIbI)
	if err != nil {
		return nil, err
	}
	return &CM31{Imag: imag, Real: real}, nil
}
