package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/scout/internal/protocol"
)

func TestGameError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, protocol.ErrCodeNotYourTurn, ErrNotYourTurn.Code)
	assert.Equal(t, protocol.ErrorMessages[protocol.ErrCodeNotYourTurn], ErrNotYourTurn.Error())
}

func TestIsSilent(t *testing.T) {
	t.Parallel()

	assert.True(t, IsSilent(ErrRoomNotFound))
	assert.True(t, IsSilent(fmt.Errorf("wrapped: %w", ErrNotInRoom)))
	assert.False(t, IsSilent(ErrTooWeak))
	assert.False(t, IsSilent(nil))
}

func TestCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, protocol.ErrCodeTooWeak, Code(ErrTooWeak))
	assert.Equal(t, protocol.ErrCodeIllegalScout, Code(fmt.Errorf("wrapped: %w", ErrIllegalScout)))
	assert.Equal(t, protocol.ErrCodeUnknown, Code(errors.New("boom")))
}
