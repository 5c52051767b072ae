// Package ldm implements the log-data memory: a key-addressed store whose
// writes and reads chain into two hash commitments (SPEC_FULL.md §4.7), so a
// build recorded as two separate constraint systems can be bound together by
// a replayed check() in the second.
package ldm

import (
	"crypto/sha256"
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/vybium/vybium-csc/internal/vybium-csc/builtins"
	"github.com/vybium/vybium-csc/internal/vybium-csc/cserr"
	"github.com/vybium/vybium-csc/internal/vybium-csc/core"
)

var defaultSeed = sha256.Sum256([]byte("ldm"))

// LDM is a key-addressed store. write(name, v) assigns v a fresh index and
// folds its hash into a running write-hash accumulator; read(name) hints the
// same value back and folds it into a parallel read-hash accumulator.
// Check runs in the second constraint system, after a later Init on the same
// LDM: it replays the hinted per-write hashes in read order and verifies the
// result equals the read-hash accumulator.
type LDM struct {
	cs *core.ConstraintSystem

	writeHash *builtins.Hash
	readHash  *builtins.Hash

	nameToIndex *swiss.Map[string, int]
	valueMap    [][32]byte
	hashMap     [][32]byte
	readLog     []int

	initialized bool
}

// New returns an empty LDM, not yet bound to a constraint system.
func New() *LDM {
	return &LDM{nameToIndex: swiss.NewMap[string, int](8)}
}

// Init binds the LDM to a constraint system. The first Init seeds both
// accumulators with a fixed constant; a subsequent Init on the same LDM
// (continuing into a second, cooperating constraint system) carries the
// current accumulator values forward as program inputs instead.
func (l *LDM) Init(cs *core.ConstraintSystem) error {
	if !l.initialized {
		wh, err := builtins.NewHashConstant(cs, defaultSeed)
		if err != nil {
			return err
		}
		rh, err := builtins.NewHashConstant(cs, defaultSeed)
		if err != nil {
			return err
		}
		l.cs = cs
		l.writeHash = wh
		l.readHash = rh
		l.initialized = true
		return nil
	}

	wh, err := builtins.NewHashInput(cs, l.writeHash.Value())
	if err != nil {
		return err
	}
	rh, err := builtins.NewHashInput(cs, l.readHash.Value())
	if err != nil {
		return err
	}
	l.cs = cs
	l.writeHash = wh
	l.readHash = rh
	return nil
}

// Write assigns v a fresh index under name and folds its hash into the
// write-hash accumulator.
func (l *LDM) Write(name string, v *builtins.Hash) error {
	idx := len(l.valueMap)
	l.nameToIndex.Put(name, idx)
	l.valueMap = append(l.valueMap, v.Value())

	entryHash, err := builtins.HashFrom(l.cs, v)
	if err != nil {
		return err
	}
	l.hashMap = append(l.hashMap, entryHash.Value())

	combined, err := l.writeHash.Cat(entryHash)
	if err != nil {
		return err
	}
	l.writeHash = combined
	return nil
}

// Read hints back the value previously written under name and folds its
// hash into the read-hash accumulator. name must name a prior Write in this
// LDM's history (possibly from an earlier constraint system sharing this
// LDM instance).
func (l *LDM) Read(name string) (*builtins.Hash, error) {
	idx, ok := l.nameToIndex.Get(name)
	if !ok {
		return nil, cserr.New(cserr.MemoryCorruption, fmt.Sprintf("ldm: read of unwritten key %q", name))
	}

	v, err := builtins.NewHashHint(l.cs, l.valueMap[idx])
	if err != nil {
		return nil, err
	}

	entryHash, err := builtins.HashFrom(l.cs, v)
	if err != nil {
		return nil, err
	}
	combined, err := l.readHash.Cat(entryHash)
	if err != nil {
		return nil, err
	}
	l.readHash = combined
	l.readLog = append(l.readLog, idx)
	return v, nil
}

// Save exposes both accumulators as program outputs.
func (l *LDM) Save() error {
	return l.cs.SetProgramOutput(l.writeHash.ID(), l.readHash.ID())
}

// Check replays the recorded log against hinted write-hashes and asserts the
// recomputed read-hash accumulator equals readHash: every read's write
// index must be strictly less than the number of writes replayed so far
// (the read-log prefix property, SPEC_FULL.md §8).
func (l *LDM) Check() error {
	recomputed, err := builtins.NewHashConstant(l.cs, defaultSeed)
	if err != nil {
		return err
	}

	nextIndexToLoad := 0
	loaded := make([]*builtins.Hash, 0, len(l.valueMap))
	logPos := 0

	for nextIndexToLoad < len(l.valueMap) {
		h, err := builtins.NewHashHint(l.cs, l.hashMap[nextIndexToLoad])
		if err != nil {
			return err
		}
		loaded = append(loaded, h)
		nextIndexToLoad++

		for logPos < len(l.readLog) && l.readLog[logPos] < nextIndexToLoad {
			id := l.readLog[logPos]
			recomputed, err = recomputed.Cat(loaded[id])
			if err != nil {
				return err
			}
			logPos++
		}
	}

	return l.readHash.EqualVerify(recomputed)
}
