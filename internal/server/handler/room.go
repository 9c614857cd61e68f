package handler

import (
	"strings"
	"unicode/utf8"

	"github.com/palemoky/scout/internal/protocol"
	"github.com/palemoky/scout/internal/protocol/codec"
	"github.com/palemoky/scout/internal/types"
)

const (
	maxRoomIDLength   = 32
	maxNicknameLength = 16
)

// handleJoinRoom 处理加入房间，房间不存在时自动创建
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	roomID := strings.TrimSpace(payload.RoomID)
	if roomID == "" || utf8.RuneCountInString(roomID) > maxRoomIDLength {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// 维护模式下只允许回到原房间
	current := client.GetRoom()
	if h.server != nil && h.server.IsMaintenanceMode() && current != roomID {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeServerMaintenance, "服务器维护中，暂停加入房间"))
		return
	}

	name := client.GetName()
	if nickname := strings.TrimSpace(payload.Nickname); nickname != "" {
		if utf8.RuneCountInString(nickname) > maxNicknameLength {
			nickname = string([]rune(nickname)[:maxNicknameLength])
		}
		name = nickname
	}

	// 先绑定房间，加入时广播的玩家列表才能送达自己
	client.SetRoom(roomID)
	if _, err := h.roomManager.Join(roomID, client.GetID(), name); err != nil {
		// 加入失败时保持原房间不变
		client.SetRoom(current)
		respondError(client, err)
		return
	}
	client.SetName(name)

	// 加入成功后再离开原房间
	if current != "" && current != roomID {
		_ = h.roomManager.Disconnect(current, client.GetID())
	}
}

// handleToggleReady 处理切换准备
func (h *Handler) handleToggleReady(client types.ClientInterface) {
	respondError(client, h.roomManager.ToggleReady(client.GetRoom(), client.GetID()))
}

// handleStartRound 处理房主开局
func (h *Handler) handleStartRound(client types.ClientInterface) {
	if h.server != nil && h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeServerMaintenance, "服务器维护中，暂停开局"))
		return
	}
	respondError(client, h.roomManager.StartRound(client.GetRoom(), client.GetID()))
}
