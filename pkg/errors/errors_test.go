package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatching(t *testing.T) {
	assert.ErrorIs(t, NewValidation("bad input", nil), Validation)
	assert.ErrorIs(t, NewNotFound("appointment", nil), NotFound)
	assert.ErrorIs(t, NewSlotUnavailable("taken"), SlotUnavailable)
	assert.ErrorIs(t, NewConflict("duplicate", nil), Conflict)
	assert.ErrorIs(t, NewInvalidTransition("nope"), InvalidTransition)

	assert.NotErrorIs(t, NewConflict("duplicate", nil), SlotUnavailable)
	assert.NotErrorIs(t, stderrors.New("plain"), Conflict)
}

func TestSentinelMatchingThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("insert failed: %w", NewConflict("duplicate", nil))
	assert.ErrorIs(t, wrapped, Conflict)
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewInternal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNotFoundMessage(t *testing.T) {
	assert.EqualError(t, NewNotFound("schedule", nil), "schedule not found")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrValidation, CodeOf(NewValidation("bad", nil)))
	assert.Equal(t, ErrConflict, CodeOf(fmt.Errorf("wrap: %w", NewConflict("dup", nil))))
	assert.Equal(t, ErrInternal, CodeOf(stderrors.New("plain")))
}
