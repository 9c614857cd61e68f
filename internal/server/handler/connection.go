package handler

import (
	"time"

	"github.com/palemoky/scout/internal/protocol"
	"github.com/palemoky/scout/internal/protocol/codec"
	"github.com/palemoky/scout/internal/types"
)

// handlePing 处理心跳消息
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	// 立即回复 pong
	client.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// Disconnect 连接断开时通知房间
// 连接未绑定房间时按玩家 ID 查找，避免留下在线状态的座位
func (h *Handler) Disconnect(client types.ClientInterface) {
	roomID := client.GetRoom()
	if roomID == "" {
		room := h.roomManager.GetRoomByPlayerID(client.GetID())
		if room == nil {
			return
		}
		roomID = room.ID
	}
	_ = h.roomManager.Disconnect(roomID, client.GetID())
	client.SetRoom("")
}
