package xerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesSentinelByKind(t *testing.T) {
	err := E("InitiateSettlement", ErrAmountMismatch)

	assert.True(t, errors.Is(err, ErrAmountMismatch))
	assert.False(t, errors.Is(err, ErrNothingToSettle))
	assert.Equal(t, "InitiateSettlement: amount must equal the pending settlement", err.Error())
}

func TestKindOfWrapped(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", E("CompleteSettlement", ErrAlreadyCompleted))

	assert.Equal(t, KindAlreadyCompleted, KindOf(wrapped))
	assert.True(t, Is(wrapped, ErrAlreadyCompleted))
	assert.Equal(t, Kind(""), KindOf(errors.New("connection reset")))
}

func TestNewFallsBackToSentinelMessage(t *testing.T) {
	err := New(KindNotFound, "GetStation", "")
	assert.Equal(t, "GetStation: resource not found", err.Error())

	custom := New(KindValidation, "", "reason is too short")
	assert.Equal(t, "reason is too short", custom.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.EqualError(t, Wrap(errors.New("boom"), "save"), "save: boom")
}
