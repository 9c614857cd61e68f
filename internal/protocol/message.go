package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	MsgPing MessageType = "ping" // 心跳 ping

	// 房间操作
	MsgJoinRoom    MessageType = "join_room"    // 加入房间（不存在时创建）
	MsgToggleReady MessageType = "toggle_ready" // 切换准备状态
	MsgStartRound  MessageType = "start_round"  // 房主开局

	// 游戏操作
	MsgShow  MessageType = "show"  // 出牌组
	MsgScout MessageType = "scout" // 侦察：拿走桌面唯一的一张牌
	MsgPass  MessageType = "pass"  // 跳过

	// 信息查询
	MsgGetStats MessageType = "get_stats" // 查询个人统计
)

// 服务端 → 客户端 消息类型
const (
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	// 房间相关
	MsgPlayerListUpdate MessageType = "player_list_update" // 玩家列表更新

	// 游戏流程
	MsgRoundStart      MessageType = "round_start"       // 开局
	MsgYourHand        MessageType = "your_hand"         // 私发手牌
	MsgTableUpdate     MessageType = "table_update"      // 桌面更新
	MsgHandCountUpdate MessageType = "hand_count_update" // 手牌数量更新
	MsgTurnChange      MessageType = "turn_change"       // 轮到某玩家

	// 查询结果
	MsgStatsResult MessageType = "stats_result" // 个人统计

	// 错误
	MsgError MessageType = "error" // 错误消息
)
