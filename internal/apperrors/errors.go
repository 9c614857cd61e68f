package apperrors

import (
	"errors"

	"github.com/palemoky/scout/internal/protocol"
)

// GameError 游戏错误（房间和出牌规则共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

func newGameError(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	ErrRoomNotFound     = newGameError(protocol.ErrCodeRoomNotFound)
	ErrRoomFull         = newGameError(protocol.ErrCodeRoomFull)
	ErrNotInRoom        = newGameError(protocol.ErrCodeNotInRoom)
	ErrRoundStarted     = newGameError(protocol.ErrCodeRoundStarted)
	ErrNotHost          = newGameError(protocol.ErrCodeNotHost)
	ErrPlayersNotReady  = newGameError(protocol.ErrCodePlayersNotReady)
	ErrNotEnoughPlayers = newGameError(protocol.ErrCodeNotEnoughPlayers)
	ErrRoundNotStarted  = newGameError(protocol.ErrCodeRoundNotStarted)
	ErrNotYourTurn      = newGameError(protocol.ErrCodeNotYourTurn)
	ErrCardsNotInHand   = newGameError(protocol.ErrCodeCardsNotInHand)
	ErrInvalidCombo     = newGameError(protocol.ErrCodeInvalidCombo)
	ErrTooWeak          = newGameError(protocol.ErrCodeTooWeak)
	ErrIllegalScout     = newGameError(protocol.ErrCodeIllegalScout)
	ErrInvalidSide      = newGameError(protocol.ErrCodeInvalidSide)
)

// IsSilent 判断错误是否应该静默丢弃（未知房间或未知玩家）
func IsSilent(err error) bool {
	return errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrNotInRoom)
}

// Code 提取错误码，非 GameError 返回 ErrCodeUnknown
func Code(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return protocol.ErrCodeUnknown
}
