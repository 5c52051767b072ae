package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocAssignsSequentialIDs(t *testing.T) {
	m := NewMemory()
	id0, err := m.Alloc(NewInt64Element(1), Constant)
	require.NoError(t, err)
	id1, err := m.Alloc(NewInt64Element(2), Constant)
	require.NoError(t, err)
	assert.Equal(t, ID(0), id0)
	assert.Equal(t, ID(1), id1)
	assert.Equal(t, 2, m.Size())
}

func TestProgramInputAfterNonInputFails(t *testing.T) {
	m := NewMemory()
	_, err := m.Alloc(NewInt64Element(1), Constant)
	require.NoError(t, err)
	_, err = m.Alloc(NewInt64Element(2), ProgramInput)
	assert.Error(t, err)
}

func TestProgramInputsBeforeAnythingElseSucceed(t *testing.T) {
	m := NewMemory()
	_, err := m.Alloc(NewInt64Element(1), ProgramInput)
	require.NoError(t, err)
	_, err = m.Alloc(NewInt64Element(2), ProgramInput)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumInputs())

	_, err = m.Alloc(NewInt64Element(3), Constant)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumInputs(), "sealing inputs must not change the already-latched count")
}

func TestElementAtUnknownIDFails(t *testing.T) {
	m := NewMemory()
	_, err := m.ElementAt(ID(0))
	assert.Error(t, err)
}

func TestIntAtRejectsBytesElement(t *testing.T) {
	m := NewMemory()
	id, err := m.Alloc(NewBytesElement([]byte("x")), Constant)
	require.NoError(t, err)
	_, err = m.IntAt(id)
	assert.Error(t, err)
}

func TestBytesAtRejectsIntElement(t *testing.T) {
	m := NewMemory()
	id, err := m.Alloc(NewInt64Element(1), Constant)
	require.NoError(t, err)
	_, err = m.BytesAt(id)
	assert.Error(t, err)
}

func TestDebugNameRoundTrip(t *testing.T) {
	m := NewMemory()
	id, err := m.Alloc(NewInt64Element(1), Constant)
	require.NoError(t, err)
	m.SetDebugName(id, "foo")
	name, ok := m.DebugName(id)
	assert.True(t, ok)
	assert.Equal(t, "foo", name)

	_, ok = m.DebugName(ID(99))
	assert.False(t, ok)
}

func TestModeAtReturnsAllocationMode(t *testing.T) {
	m := NewMemory()
	id, err := m.Alloc(NewInt64Element(1), Hint)
	require.NoError(t, err)
	mode, err := m.ModeAt(id)
	require.NoError(t, err)
	assert.Equal(t, Hint, mode)
}
