package room

// RoomState 房间状态
type RoomState int

const (
	RoomStateLobby   RoomState = iota // 等待开局
	RoomStateInRound                  // 对局中
)

func (s RoomState) String() string {
	switch s {
	case RoomStateLobby:
		return "lobby"
	case RoomStateInRound:
		return "in_round"
	default:
		return "unknown"
	}
}
