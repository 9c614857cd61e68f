package protocol

// 错误码
const (
	ErrCodeUnknown           = 1000
	ErrCodeInvalidMsg        = 1001
	ErrCodeRateLimit         = 1002 // 速率限制
	ErrCodeRoomNotFound      = 2001
	ErrCodeRoomFull          = 2002
	ErrCodeNotInRoom         = 2003
	ErrCodeRoundStarted      = 2004 // 本局已开始
	ErrCodeNotHost           = 2005
	ErrCodePlayersNotReady   = 2006
	ErrCodeNotEnoughPlayers  = 2007
	ErrCodeRoundNotStarted   = 3001
	ErrCodeNotYourTurn       = 3002
	ErrCodeCardsNotInHand    = 3003
	ErrCodeInvalidCombo      = 3004
	ErrCodeTooWeak           = 3005
	ErrCodeIllegalScout      = 3006
	ErrCodeInvalidSide       = 3007
	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "未知错误",
	ErrCodeInvalidMsg:        "无效的消息格式",
	ErrCodeRateLimit:         "请求过于频繁",
	ErrCodeRoomNotFound:      "房间不存在",
	ErrCodeRoomFull:          "房间已满",
	ErrCodeNotInRoom:         "您不在房间中",
	ErrCodeRoundStarted:      "本局已开始",
	ErrCodeNotHost:           "只有房主可以开局",
	ErrCodePlayersNotReady:   "还有玩家未准备",
	ErrCodeNotEnoughPlayers:  "玩家人数不足",
	ErrCodeRoundNotStarted:   "本局尚未开始",
	ErrCodeNotYourTurn:       "还没轮到您",
	ErrCodeCardsNotInHand:    "非法操作：所选的牌不在您的手中",
	ErrCodeInvalidCombo:      "不是有效的同点或顺子",
	ErrCodeTooWeak:           "您的牌组不够大",
	ErrCodeIllegalScout:      "只有桌面恰好一张牌时才能侦察",
	ErrCodeInvalidSide:       "无效的牌面选择",
	ErrCodeServerMaintenance: "服务器维护中",
}
