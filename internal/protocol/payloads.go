package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomID   string `json:"room_id"`
	Nickname string `json:"nickname"`
}

// ShowPayload 出牌请求
type ShowPayload struct {
	Cards []CardInfo `json:"cards"`
}

// ScoutPayload 侦察请求
type ScoutPayload struct {
	ChosenSide string `json:"chosen_side"` // top/bottom
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"` // 随机昵称，加入房间时可覆盖
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// PlayerListUpdatePayload 玩家列表更新
type PlayerListUpdatePayload struct {
	RoomID   string       `json:"room_id"`
	Players  []PlayerInfo `json:"players"`
	CanStart bool         `json:"can_start"` // 非房主玩家是否都已准备
}

// RoundStartPayload 开局通知
type RoundStartPayload struct {
	Round          int          `json:"round"`
	Players        []PlayerInfo `json:"players"`
	StartingPlayer string       `json:"starting_player"`
}

// YourHandPayload 私发手牌
type YourHandPayload struct {
	Cards []CardInfo `json:"cards"`
}

// TableUpdatePayload 桌面更新
type TableUpdatePayload struct {
	Cards     []CardInfo `json:"cards"`
	PlayerID  string     `json:"player_id"` // 触发更新的玩家
	ComboType string     `json:"combo_type,omitempty"`
}

// HandCountUpdatePayload 手牌数量更新
type HandCountUpdatePayload struct {
	Counts map[string]int `json:"counts"`
}

// TurnChangePayload 轮次变更
type TurnChangePayload struct {
	PlayerID string `json:"player_id"`
}

// StatsResultPayload 个人统计
type StatsResultPayload struct {
	PlayerID string `json:"player_id"`
	Shows    int64  `json:"shows"`
	Scouts   int64  `json:"scouts"`
	Passes   int64  `json:"passes"`
	Rounds   int64  `json:"rounds"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// --- 通用数据结构 ---

// CardInfo 牌信息
type CardInfo struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// PlayerInfo 公开的玩家信息（不含手牌）
type PlayerInfo struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	IsHost    bool   `json:"is_host"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
	HandCount int    `json:"hand_count"`
	Score     int    `json:"score"`
}
