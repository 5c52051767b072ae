package builtins

import (
	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
	"github.com/vybium/vybium-csc/internal/vybium-csc/options"
	"github.com/vybium/vybium-csc/internal/vybium-csc/script"
	"github.com/vybium/vybium-csc/internal/vybium-csc/table"
)

// QM31 is an element of the degree-4 extension of M31: footprint 4, built
// as two CM31 halves (first, second) with QM31 = first + second*v where v
// satisfies v^2 = 2+i over CM31.
type QM31 struct {
	First  *CM31
	Second *CM31
}

func NewQM31Constant(cs *core.ConstraintSystem, firstReal, firstImag, secondReal, secondImag uint32) (*QM31, error) {
	second, err := NewCM31Constant(cs, secondReal, secondImag)
	if err != nil {
		return nil, err
	}
	first, err := NewCM31Constant(cs, firstReal, firstImag)
	if err != nil {
		return nil, err
	}
	return &QM31{First: first, Second: second}, nil
}

func (q *QM31) Length() int { return 4 }
func (q *QM31) Variables() []core.ID {
	return append(append([]core.ID{}, q.Second.Variables()...), q.First.Variables()...)
}

// Add is componentwise CM31 addition.
func (q *QM31) Add(other *QM31) (*QM31, error) {
	second, err := q.Second.Add(other.Second)
	if err != nil {
		return nil, err
	}
	first, err := q.First.Add(other.First)
	if err != nil {
		return nil, err
	}
	return &QM31{First: first, Second: second}, nil
}

// AddCM31 adds a bare CM31 to the first half.
func (q *QM31) AddCM31(other *CM31) (*QM31, error) {
	first, err := q.First.Add(other)
	if err != nil {
		return nil, err
	}
	return &QM31{First: first, Second: q.Second}, nil
}

// Sub is componentwise CM31 subtraction.
func (q *QM31) Sub(other *QM31) (*QM31, error) {
	second, err := q.Second.Sub(other.Second)
	if err != nil {
		return nil, err
	}
	first, err := q.First.Sub(other.First)
	if err != nil {
		return nil, err
	}
	return &QM31{First: first, Second: second}, nil
}

// SubCM31 subtracts a bare CM31 from the first half.
func (q *QM31) SubCM31(other *CM31) (*QM31, error) {
	first, err := q.First.Sub(other)
	if err != nil {
		return nil, err
	}
	return &QM31{First: first, Second: q.Second}, nil
}

// Neg negates both halves.
func (q *QM31) Neg() (*QM31, error) {
	first, err := q.First.Neg()
	if err != nil {
		return nil, err
	}
	second, err := q.Second.Neg()
	if err != nil {
		return nil, err
	}
	return &QM31{First: first, Second: second}, nil
}

// qm31Beta is the extension constant v^2 = 2+i.
const qm31BetaReal, qm31BetaImag = 2, 1

func qm31MulValues(aFirstReal, aFirstImag, aSecondReal, aSecondImag, bFirstReal, bFirstImag, bSecondReal, bSecondImag uint32) (firstReal, firstImag, secondReal, secondImag uint32) {
	// (af + as*v)(bf + bs*v) = af*bf + as*bs*(2+i) + (af*bs + as*bf)*v
	afbfReal := uint32(m31Reduce(int64(aFirstReal)*int64(bFirstReal) - int64(aFirstImag)*int64(bFirstImag)))
	afbfImag := uint32(m31Reduce(int64(aFirstReal)*int64(bFirstImag) + int64(aFirstImag)*int64(bFirstReal)))

	asbsReal := uint32(m31Reduce(int64(aSecondReal)*int64(bSecondReal) - int64(aSecondImag)*int64(bSecondImag)))
	asbsImag := uint32(m31Reduce(int64(aSecondReal)*int64(bSecondImag) + int64(aSecondImag)*int64(bSecondReal)))

	// asbs * (2+i)
	betaReal := uint32(m31Reduce(int64(asbsReal)*qm31BetaReal - int64(asbsImag)*qm31BetaImag))
	betaImag := uint32(m31Reduce(int64(asbsReal)*qm31BetaImag + int64(asbsImag)*qm31BetaReal))

	firstReal = uint32(m31Reduce(int64(afbfReal) + int64(betaReal)))
	firstImag = uint32(m31Reduce(int64(afbfImag) + int64(betaImag)))

	afbsReal := uint32(m31Reduce(int64(aFirstReal)*int64(bSecondReal) - int64(aFirstImag)*int64(bSecondImag)))
	afbsImag := uint32(m31Reduce(int64(aFirstReal)*int64(bSecondImag) + int64(aFirstImag)*int64(bSecondReal)))
	asbfReal := uint32(m31Reduce(int64(aSecondReal)*int64(bFirstReal) - int64(aSecondImag)*int64(bFirstImag)))
	asbfImag := uint32(m31Reduce(int64(aSecondReal)*int64(bFirstImag) + int64(aSecondImag)*int64(bFirstReal)))

	secondReal = uint32(m31Reduce(int64(afbsReal) + int64(asbfReal)))
	secondImag = uint32(m31Reduce(int64(afbsImag) + int64(asbfImag)))
	return
}

// Mul computes (aFirst + aSecond*v)(bFirst + bSecond*v) = aFirst*bFirst +
// aSecond*bSecond*beta + (aFirst*bSecond + aSecond*bFirst)*v, where beta =
// 2+i is the extension constant satisfying v^2 = beta. Entirely built from
// genuine CM31.Mul/Add calls (five CM31 multiplications), never a table.
func (q *QM31) Mul(other *QM31) (*QM31, error) {
	afbf, err := q.First.Mul(other.First)
	if err != nil {
		return nil, err
	}
	asbs, err := q.Second.Mul(other.Second)
	if err != nil {
		return nil, err
	}
	beta, err := NewCM31Constant(q.First.Real.cs, qm31BetaReal, qm31BetaImag)
	if err != nil {
		return nil, err
	}
	asbsBeta, err := asbs.Mul(beta)
	if err != nil {
		return nil, err
	}
	first, err := afbf.Add(asbsBeta)
	if err != nil {
		return nil, err
	}

	afbs, err := q.First.Mul(other.Second)
	if err != nil {
		return nil, err
	}
	asbf, err := q.Second.Mul(other.First)
	if err != nil {
		return nil, err
	}
	second, err := afbs.Add(asbf)
	if err != nil {
		return nil, err
	}

	return &QM31{First: first, Second: second}, nil
}

// MulWithTable computes the product through the limb-based table
// multiplier, by first decomposing both operands and delegating to
// QM31Limbs.Mul (which itself follows the CM31Limbs Karatsuba path).
func (q *QM31) MulWithTable(t *table.Table, other *QM31) (*QM31, error) {
	qLimbs, err := NewQM31LimbsFromQM31(q)
	if err != nil {
		return nil, err
	}
	otherLimbs, err := NewQM31LimbsFromQM31(other)
	if err != nil {
		return nil, err
	}
	return qLimbs.Mul(t, otherLimbs)
}

// Add1 adds one to the first-half real component only.
func (q *QM31) Add1() (*QM31, error) {
	one, err := NewM31Constant(q.First.Real.cs, 1)
	if err != nil {
		return nil, err
	}
	newReal, err := q.First.Real.Add(one)
	if err != nil {
		return nil, err
	}
	return &QM31{First: &CM31{Imag: q.First.Imag, Real: newReal}, Second: q.Second}, nil
}

// Sub1 subtracts one from the first-half real component only.
func (q *QM31) Sub1() (*QM31, error) {
	one, err := NewM31Constant(q.First.Real.cs, 1)
	if err != nil {
		return nil, err
	}
	newReal, err := q.First.Real.Sub(one)
	if err != nil {
		return nil, err
	}
	return &QM31{First: &CM31{Imag: q.First.Imag, Real: newReal}, Second: q.Second}, nil
}

// ShiftByI multiplies by the CM31 imaginary unit componentwise.
func (q *QM31) ShiftByI() (*QM31, error) {
	first, err := q.First.ShiftByI()
	if err != nil {
		return nil, err
	}
	second, err := q.Second.ShiftByI()
	if err != nil {
		return nil, err
	}
	return &QM31{First: first, Second: second}, nil
}

// ShiftByJ multiplies by the quartic extension element v.
func (q *QM31) ShiftByJ() (*QM31, error) {
	// (first + second*v)*v = second*(2+i) + first*v
	newSecond := q.First

	doubled, err := q.Second.Add(q.Second)
	if err != nil {
		return nil, err
	}
	newFirstReal, err := doubled.Real.Sub(q.Second.Imag)
	if err != nil {
		return nil, err
	}
	newFirstImag, err := doubled.Imag.Add(q.Second.Real)
	if err != nil {
		return nil, err
	}

	return &QM31{First: &CM31{Imag: newFirstImag, Real: newFirstReal}, Second: newSecond}, nil
}

// ShiftByIJ applies ShiftByI then ShiftByJ.
func (q *QM31) ShiftByIJ() (*QM31, error) {
	i, err := q.ShiftByI()
	if err != nil {
		return nil, err
	}
	return i.ShiftByJ()
}

// IsOne panics unless the value is exactly ((1,0),(0,0)).
func (q *QM31) IsOne() {
	q.First.IsOne()
	q.Second.IsZero()
}

func qm31InverseNative(firstReal, firstImag, secondReal, secondImag uint32) (uint32, uint32, uint32, uint32) {
	// Conjugate-by-v trick: q * conj(q) collapses the v-dependence into a
	// CM31 norm, then CM31 inversion plus one multiply recovers q^-1.
	// conj(q) = first - second*v
	normFirstReal, normFirstImag, _, _ := qm31MulValues(
		firstReal, firstImag, secondReal, secondImag,
		firstReal, firstImag, uint32(m31Reduce(-int64(secondReal))), uint32(m31Reduce(-int64(secondImag))),
	)
	norm := int64(normFirstReal)*int64(normFirstReal) + int64(normFirstImag)*int64(normFirstImag)
	normInv := m31Pow2147483645(uint32(m31Reduce(norm)))

	negSecondReal := uint32(m31Reduce(-int64(secondReal)))
	negSecondImag := uint32(m31Reduce(-int64(secondImag)))

	// CM31 inverse of the norm: conj(N) / |N|^2.
	nInvReal := uint32(m31Reduce(int64(normFirstReal) * int64(normInv)))
	nInvImag := uint32(m31Reduce(-int64(normFirstImag) * int64(normInv)))

	fr, fi, sr, si := qm31MulValues(firstReal, firstImag, negSecondReal, negSecondImag, nInvReal, nInvImag, 0, 0)
	return fr, fi, sr, si
}

// Inverse computes q^-1 via the table-based multiplier: the native side
// runs the fixed inversion formula, allocates the result as a hint, and
// the emitted side certifies res*q == 1 through MulWithTable.
func (q *QM31) Inverse(t *table.Table) (*QM31, error) {
	fr, fi, sr, si := qm31InverseNative(q.First.Real.value, q.First.Imag.value, q.Second.Real.value, q.Second.Imag.value)

	cs := q.First.Real.cs
	resIDs := make([]core.ID, 4)
	vals := []uint32{si, sr, fi, fr}
	for i, v := range vals {
		id, err := cs.AllocHint(core.NewInt64Element(int64(v)))
		if err != nil {
			return nil, err
		}
		resIDs[i] = id
	}
	resVar := &QM31{
		First:  &CM31{Imag: &M31{cs: cs, id: resIDs[2], value: fi}, Real: &M31{cs: cs, id: resIDs[3], value: fr}},
		Second: &CM31{Imag: &M31{cs: cs, id: resIDs[0], value: si}, Real: &M31{cs: cs, id: resIDs[1], value: sr}},
	}

	one, err := resVar.MulWithTable(t, q)
	if err != nil {
		return nil, err
	}
	one.IsOne()
	return resVar, nil
}

// InverseWithoutTable mirrors Inverse but certifies through the table-free
// Mul gadget instead, for contexts without a table in scope.
func (q *QM31) InverseWithoutTable() (*QM31, error) {
	fr, fi, sr, si := qm31InverseNative(q.First.Real.value, q.First.Imag.value, q.Second.Real.value, q.Second.Imag.value)

	cs := q.First.Real.cs
	resIDs := make([]core.ID, 4)
	vals := []uint32{si, sr, fi, fr}
	for i, v := range vals {
		id, err := cs.AllocHint(core.NewInt64Element(int64(v)))
		if err != nil {
			return nil, err
		}
		resIDs[i] = id
	}
	resVar := &QM31{
		First:  &CM31{Imag: &M31{cs: cs, id: resIDs[2], value: fi}, Real: &M31{cs: cs, id: resIDs[3], value: fr}},
		Second: &CM31{Imag: &M31{cs: cs, id: resIDs[0], value: si}, Real: &M31{cs: cs, id: resIDs[1], value: sr}},
	}

	one, err := resVar.Mul(q)
	if err != nil {
		return nil, err
	}
	one.IsOne()
	return resVar, nil
}

// ConditionalSwap takes a bit variable (value checked to be 0 or 1 by
// construction) and emits `if swap endif`, returning (self, other) when bit
// is 0 and (other, self) when bit is 1.
func (q *QM31) ConditionalSwap(other *QM31, bit *M31) (*QM31, *QM31, error) {
	if bit.value != 0 && bit.value != 1 {
		panic("builtins: ConditionalSwap bit must be 0 or 1")
	}

	cs := q.First.Real.cs
	inputs := append(append(append([]core.ID{}, q.Variables()...), other.Variables()...), bit.id)
	if err := cs.EmitSubprogram(plain(func() script.Snippet {
		return script.Snippet{
			{Op: script.OpIf},
			{Op: script.OpSwap},
			{Op: script.OpEndIf},
		}
	}), inputs, options.New(), "qm31.conditional_swap"); err != nil {
		return nil, nil, err
	}

	outA, outB := q, other
	if bit.value == 1 {
		outA, outB = other, q
	}

	allocCopy := func(v *QM31) (*QM31, error) {
		ids := make([]core.ID, 4)
		vals := []uint32{v.Second.Imag.value, v.Second.Real.value, v.First.Imag.value, v.First.Real.value}
		for i, val := range vals {
			id, err := cs.AllocFunctionOutput(core.NewInt64Element(int64(val)))
			if err != nil {
				return nil, err
			}
			ids[i] = id
		}
		return &QM31{
			First:  &CM31{Imag: &M31{cs: cs, id: ids[2], value: vals[2]}, Real: &M31{cs: cs, id: ids[3], value: vals[3]}},
			Second: &CM31{Imag: &M31{cs: cs, id: ids[0], value: vals[0]}, Real: &M31{cs: cs, id: ids[1], value: vals[1]}},
		}, nil
	}

	res1, err := allocCopy(outA)
	if err != nil {
		cs.DoneOutputs()
		return nil, nil, err
	}
	res2, err := allocCopy(outB)
	cs.DoneOutputs()
	if err != nil {
		return nil, nil, err
	}
	return res1, res2, nil
}
