package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/arl/statsviz"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/scout/internal/config"
	"github.com/palemoky/scout/internal/game/room"
	"github.com/palemoky/scout/internal/game/rule"
	"github.com/palemoky/scout/internal/logger"
	"github.com/palemoky/scout/internal/protocol/codec"
	"github.com/palemoky/scout/internal/server/handler"
	"github.com/palemoky/scout/internal/server/storage"
)

// Server WebSocket 服务器
type Server struct {
	config      *config.Config
	redis       *redis.Client
	redisStore  *storage.RedisStore
	roomManager *room.RoomManager
	handler     *handler.Handler
	codec       codec.Codec
	upgrader    websocket.Upgrader

	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 安全组件
	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex

	httpServer *http.Server
	done       chan struct{}
	closeOnce  sync.Once
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	frameCodec, err := codec.New(cfg.Server.Codec)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:  cfg,
		codec:   frameCodec,
		clients: make(map[string]*Client),
		// 初始化安全组件
		rateLimiter: NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		// 初始化连接控制
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
		done:           make(chan struct{}),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// 来源在 handleWebSocket 中由 originChecker 校验
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	if cfg.Redis.Enabled {
		// 初始化 Redis 客户端
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.redisStore = storage.NewRedisStore(s.redis)

		// 测试 Redis 连接
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.redisStore.Ping(ctx); err != nil {
			s.rateLimiter.Stop()
			_ = s.redis.Close()
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}
	} else {
		s.redisStore = storage.NewRedisStore(nil)
	}

	// 初始化房间管理器，房间事件经由 Emit 投递到连接
	s.roomManager = room.NewRoomManager(room.ManagerOptions{
		Store:       s.redisStore,
		Emitter:     s,
		Rules:       rule.Ruleset{SingleCardRun: cfg.Game.SingleCardRun},
		MinPlayers:  cfg.Game.MinPlayers,
		MaxPlayers:  cfg.Game.MaxPlayers,
		IdleTimeout: cfg.Game.RoomIdleTimeoutDuration(),
	})

	// 初始化消息处理器
	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:      s,
		RoomManager: s.roomManager,
		Stats:       s.redisStore,
	})

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("🔒 安全配置: 连接限制=%d/s, 消息限制=%d/s, 最大连接数=%d, 编码=%s",
		cfg.Security.RateLimit.MaxPerSecond, cfg.Security.MessageLimit.MaxPerSecond,
		cfg.Server.MaxConnections, s.codec.Name())

	return s, nil
}

// Handler 返回服务器的 HTTP 路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	if s.config.Server.Metrics {
		if err := statsviz.Register(mux); err != nil {
			logger.Error("注册 statsviz 失败: %v", err)
		}
		mux.HandleFunc("GET /debug/rooms", s.handleRooms)
		mux.HandleFunc("GET /debug/rooms/{id}", s.handleRoom)
	}
	return mux
}

// Start 启动服务器，阻塞直到服务器关闭
func (s *Server) Start() error {
	// 启动监控 goroutine
	go s.monitorStats()

	addr := s.httpServer.Addr
	logger.Info("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	if s.config.Server.Metrics {
		logger.Info("📈 运行时监控: http://%s/debug/statsviz/", addr)
	}

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// healthResponse 健康检查响应
type healthResponse struct {
	Status      string `json:"status"`
	Online      int    `json:"online"`
	Rooms       int    `json:"rooms"`
	ActiveGames int    `json:"active_games"`
	Maintenance bool   `json:"maintenance"`

	Stats map[string]int64 `json:"stats,omitempty"` // 全局操作计数，需开启 Redis
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:      "ok",
		Online:      s.GetOnlineCount(),
		Rooms:       s.roomManager.RoomCount(),
		ActiveGames: s.roomManager.GetActiveGamesCount(),
		Maintenance: s.IsMaintenanceMode(),
	}

	if stats, err := s.redisStore.GetGlobalStats(r.Context()); err != nil {
		logger.Warn("获取全局统计失败: %v", err)
	} else {
		resp.Stats = stats
	}

	writeJSON(w, resp)
}
