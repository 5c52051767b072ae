package vybiumcsc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeMatching(t *testing.T) {
	err := NewError(ErrOptionMissing, "missing option \"len\"")
	assert.True(t, errors.Is(err, NewError(ErrOptionMissing, "different message")))
	assert.False(t, errors.Is(err, NewError(ErrTypeMismatch, "missing option \"len\"")))
}

func TestWrapErrorPreservesCause(t *testing.T) {
	cause := errors.New("underlying failure")
	err := WrapError(ErrMemoryCorruption, "lookup failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "underlying failure")
}
