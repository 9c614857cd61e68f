package server

import (
	"github.com/palemoky/scout/internal/game/room"
	"github.com/palemoky/scout/internal/logger"
	"github.com/palemoky/scout/internal/protocol"
	"github.com/palemoky/scout/internal/protocol/codec"
)

// GetOnlineCount 获取在线人数（按需调用）
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Emit 投递房间事件，实现 room.Emitter
//
// 在房间锁内被调用，只做非阻塞的入队。
func (s *Server) Emit(roomID string, ev room.Event) {
	msg, err := codec.NewMessage(ev.Type, ev.Payload)
	if err != nil {
		logger.Error("房间 %s 事件 %s 编码失败: %v", roomID, ev.Type, err)
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if ev.Private() {
		if c, ok := s.clients[ev.To]; ok && c.GetRoom() == roomID {
			c.SendMessage(msg)
		}
		return
	}

	for _, c := range s.clients {
		if c.GetRoom() == roomID {
			c.SendMessage(msg)
		}
	}
}

// Broadcast 广播消息给所有客户端
func (s *Server) Broadcast(msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		client.SendMessage(msg)
	}
}

// BroadcastToLobby 广播消息给未在房间内的玩家
func (s *Server) BroadcastToLobby(msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		if client.GetRoom() == "" {
			client.SendMessage(msg)
		}
	}
}
