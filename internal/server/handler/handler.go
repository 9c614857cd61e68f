package handler

import (
	"context"

	"github.com/palemoky/scout/internal/apperrors"
	"github.com/palemoky/scout/internal/game/room"
	"github.com/palemoky/scout/internal/logger"
	"github.com/palemoky/scout/internal/protocol"
	"github.com/palemoky/scout/internal/protocol/codec"
	"github.com/palemoky/scout/internal/types"
)

// StatsReader 玩家统计查询
type StatsReader interface {
	GetStats(ctx context.Context, playerID string) (map[string]int64, error)
}

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server      types.ServerInterface
	RoomManager *room.RoomManager
	Stats       StatsReader
}

// Handler 消息处理器
type Handler struct {
	server      types.ServerInterface
	roomManager *room.RoomManager
	stats       StatsReader
	handlers    map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:      deps.Server,
		roomManager: deps.RoomManager,
		stats:       deps.Stats,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing: h.handlePing,

		// 房间操作
		protocol.MsgJoinRoom:    h.handleJoinRoom,
		protocol.MsgToggleReady: func(c types.ClientInterface, _ *protocol.Message) { h.handleToggleReady(c) },
		protocol.MsgStartRound:  func(c types.ClientInterface, _ *protocol.Message) { h.handleStartRound(c) },

		// 游戏操作
		protocol.MsgShow:  h.handleShow,
		protocol.MsgScout: h.handleScout,
		protocol.MsgPass:  func(c types.ClientInterface, _ *protocol.Message) { h.handlePass(c) },

		// 信息查询
		protocol.MsgGetStats: func(c types.ClientInterface, _ *protocol.Message) { h.handleGetStats(c) },
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	logger.Warn("⚠️ 未知消息类型: '%s' (来自玩家: %s, ID: %s, Payload长度=%d bytes)",
		msg.Type, client.GetName(), client.GetID(), len(msg.Payload))
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// respondError 将错误回复给操作者
// 未知房间或未知玩家的操作静默忽略
func respondError(client types.ClientInterface, err error) {
	if err == nil {
		return
	}
	if apperrors.IsSilent(err) {
		logger.Debug("🔇 忽略玩家 %s 的操作: %v", client.GetID(), err)
		return
	}

	code := apperrors.Code(err)
	if code == protocol.ErrCodeUnknown {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
		return
	}
	client.SendMessage(codec.NewErrorMessage(code))
}
