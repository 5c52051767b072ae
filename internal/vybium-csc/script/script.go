// Package script defines the stack machine's opcode vocabulary and the
// Snippet type that subprogram generators and the planner both emit into.
// It is the concrete stand-in for SPEC_FULL.md's "conforming executor"
// non-goal: we never execute a Snippet, only build one deterministically.
package script

// Op is one opcode from the stack machine's fixed repertoire (SPEC_FULL.md
// §1/§6): duplicate, pick, roll, swap, (from/to)altstack, arithmetic and
// comparison, concatenation, hash, conditional verify. OpM31Mul is the one
// domain-specific opcode: Mersenne-31 multiplication with reduction folded
// into a single primitive, mirroring rust_bitcoin_m31's m31_mul gadget.
type Op byte

const (
	OpNop Op = iota
	OpPush
	OpDup
	OpOver
	OpRot
	OpPick
	OpSwap
	OpRoll
	OpDrop
	Op2Drop
	OpToAltStack
	OpFromAltStack
	OpAdd
	OpSub
	OpMul
	OpAbs
	OpEqual
	OpEqualVerify
	OpVerify
	OpNot
	OpBoolAnd
	OpBoolOr
	OpNumEqual
	OpLessThan
	OpGreaterThanOrEqual
	OpCat
	OpSha256
	OpIf
	OpElse
	OpEndIf
	OpDepth
	OpSub1
	OpWithinU8
	OpM31Mul
	OpSize
)

// Instr is one instruction in a Snippet: an opcode plus, for OpPush, the
// literal bytes to push, and for OpPick/OpRoll with a dynamic (table- or
// depth-relative) distance, the resolved integer distance.
type Instr struct {
	Op   Op
	Data []byte // literal payload for OpPush
	N    int    // resolved distance for OpPick/OpRoll
}

// Snippet is an ordered, immutable concatenation of instructions.
type Snippet []Instr

// Append returns a new Snippet with more appended after s.
func (s Snippet) Append(more ...Instr) Snippet {
	out := make(Snippet, 0, len(s)+len(more))
	out = append(out, s...)
	out = append(out, more...)
	return out
}

// Concat concatenates snippets in order.
func Concat(snippets ...Snippet) Snippet {
	var out Snippet
	for _, s := range snippets {
		out = out.Append(s...)
	}
	return out
}

func one(op Op) Snippet { return Snippet{{Op: op}} }

// Push emits the literal push of an already-encoded element.
func Push(data []byte) Snippet {
	return Snippet{{Op: OpPush, Data: append([]byte(nil), data...)}}
}

// Pick brings a copy of the element `distance` deep (0 = top) to the top,
// using the cheapest available macro: distance 0 is a nop/dup, 1 an OVER,
// else a positional n-PICK.
func Pick(distance int) Snippet {
	switch {
	case distance < 0:
		panic("script: negative pick distance")
	case distance == 0:
		return one(OpDup)
	case distance == 1:
		return one(OpOver)
	default:
		return Snippet{{Op: OpPick, N: distance}}
	}
}

// Roll moves the element `distance` deep to the top, consuming its old
// slot. distance 0 is a nop, 1 a SWAP, 2 a ROT, else a positional n-ROLL.
func Roll(distance int) Snippet {
	switch {
	case distance < 0:
		panic("script: negative roll distance")
	case distance == 0:
		return one(OpNop)
	case distance == 1:
		return one(OpSwap)
	case distance == 2:
		return one(OpRot)
	default:
		return Snippet{{Op: OpRoll, N: distance}}
	}
}

// Drop removes the top n elements.
func Drop(n int) Snippet {
	var out Snippet
	for n >= 2 {
		out = out.Append(Instr{Op: Op2Drop})
		n -= 2
	}
	for n > 0 {
		out = out.Append(Instr{Op: OpDrop})
		n--
	}
	return out
}

// ToAltStack moves the top n elements to the auxiliary stack, one at a
// time, preserving order (first moved ends up deepest on the alt stack).
func ToAltStack(n int) Snippet {
	var out Snippet
	for i := 0; i < n; i++ {
		out = out.Append(Instr{Op: OpToAltStack})
	}
	return out
}

// FromAltStack brings n elements back from the auxiliary stack to the top.
func FromAltStack(n int) Snippet {
	var out Snippet
	for i := 0; i < n; i++ {
		out = out.Append(Instr{Op: OpFromAltStack})
	}
	return out
}

// HintLoad emits the depth·1-sub·roll triplet that transfers the hint
// currently at the bottom of the main stack to the top (SPEC_FULL.md §6).
func HintLoad() Snippet {
	return Snippet{
		{Op: OpDepth},
		{Op: OpSub1},
		{Op: OpRoll, N: -1}, // N=-1: distance is the just-computed depth, resolved at execution time, not compile time
	}
}
