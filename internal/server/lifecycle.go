package server

import (
	"context"
	"runtime"
	"time"

	"github.com/palemoky/scout/internal/logger"
	"github.com/palemoky/scout/internal/protocol"
	"github.com/palemoky/scout/internal/protocol/codec"
)

const (
	monitorInterval       = 30 * time.Second
	shutdownCheckInterval = time.Second
)

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		logger.Info("📊 [监控] 在线: %d | 房间: %d | 对局中: %d | Goroutines: %d | 活跃连接: %d/%d | 内存: %.2f MB",
			s.GetOnlineCount(),
			s.roomManager.RoomCount(),
			s.roomManager.GetActiveGamesCount(),
			runtime.NumGoroutine(),
			len(s.semaphore),
			s.maxConnections,
			float64(m.Alloc)/1024/1024)
	}
}

// EnterMaintenanceMode 进入维护模式：拒绝新连接和新房间，进行中的对局不受影响
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()

	// 通知大厅用户
	s.BroadcastToLobby(codec.NewErrorMessageWithText(
		protocol.ErrCodeServerMaintenance, "👷🏻‍♂️ 维护模式：停止新的房间创建"))

	logger.Info("🔧 进入维护模式：停止新连接和房间创建")
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown 进入维护模式，等待进行中的对局结束或 ctx 到期后关闭
func (s *Server) GracefulShutdown(ctx context.Context) error {
	s.EnterMaintenanceMode()

	ticker := time.NewTicker(shutdownCheckInterval)
	defer ticker.Stop()

wait:
	for {
		activeGames := s.roomManager.GetActiveGamesCount()
		if activeGames == 0 {
			logger.Info("✅ 所有对局已结束")
			break
		}
		logger.Info("⏳ 等待 %d 个房间结束...", activeGames)

		select {
		case <-ctx.Done():
			logger.Warn("⚠️ 超时，仍有 %d 个房间进行中，强制关闭", s.roomManager.GetActiveGamesCount())
			break wait
		case <-ticker.C:
		}
	}

	s.Broadcast(codec.NewErrorMessageWithText(protocol.ErrCodeServerMaintenance, "🚧 服务器即将停机维护"))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown 关闭 HTTP 服务、所有连接和后台协程
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)

		err = s.httpServer.Shutdown(ctx)

		// 关闭所有客户端连接，读协程退出时会通知房间
		s.clientsMu.RLock()
		for _, client := range s.clients {
			client.Close()
			_ = client.conn.Close()
		}
		s.clientsMu.RUnlock()

		s.roomManager.Close()
		s.rateLimiter.Stop()

		// 关闭 Redis
		if s.redis != nil {
			_ = s.redis.Close()
		}

		logger.Info("服务器已关闭")
	})
	return err
}
