package server

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/palemoky/scout/internal/logger"
	"github.com/palemoky/scout/internal/server/storage"
)

// roomsResponse 房间列表
type roomsResponse struct {
	Live      []string `json:"live"`                // 内存中的房间
	Persisted []string `json:"persisted,omitempty"` // Redis 中仍保留快照的房间
}

// handleRooms 列出房间
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	resp := roomsResponse{Live: s.roomManager.RoomIDs()}

	ids, err := s.redisStore.GetAllRoomIDs(r.Context())
	if err != nil {
		logger.Warn("读取房间快照列表失败: %v", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	slices.Sort(ids)
	resp.Persisted = ids

	writeJSON(w, resp)
}

// handleRoom 查看单个房间
// 内存中不存在时回退到 Redis 快照，例如重启前遗留的房间
func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")

	var data *storage.RoomData
	if live := s.roomManager.GetRoom(roomID); live != nil {
		data = live.ToRoomData()
	} else {
		loaded, err := s.redisStore.LoadRoom(r.Context(), roomID)
		if err != nil {
			logger.Warn("读取房间 %s 快照失败: %v", roomID, err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		data = loaded
	}

	if data == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, data)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
