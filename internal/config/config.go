package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
	Codec          string `yaml:"codec"`   // json / protobuf
	Metrics        bool   `yaml:"metrics"` // 是否开启 /debug/statsviz
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	MinPlayers      int  `yaml:"min_players"`
	MaxPlayers      int  `yaml:"max_players"`
	SingleCardRun   bool `yaml:"single_card_run"`   // 单张是否视为顺子
	RoomIdleTimeout int  `yaml:"room_idle_timeout"` // 无人在线房间的清理时间（分钟），0 不清理
}

// RoomIdleTimeoutDuration 返回房间空闲超时时长
func (c *GameConfig) RoomIdleTimeoutDuration() time.Duration {
	return time.Duration(c.RoomIdleTimeout) * time.Minute
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit"`
}

// RateLimitConfig 连接速率限制
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 封禁时长（秒）
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// MessageLimitConfig 消息速率限制
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load 加载配置文件，未填写的字段使用默认值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           1780,
			MaxConnections: 10000,
			Codec:          "json",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Game: GameConfig{
			MinPlayers:    2,
			MaxPlayers:    5,
			SingleCardRun: true,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				MaxPerSecond: 10,
				MaxPerMinute: 60,
				BanDuration:  60,
			},
			MessageLimit: MessageLimitConfig{
				MaxPerSecond: 20,
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port 无效: %d", c.Server.Port))
	}
	if c.Server.MaxConnections <= 0 {
		errs = append(errs, fmt.Errorf("server.max_connections 必须大于 0: %d", c.Server.MaxConnections))
	}
	switch c.Server.Codec {
	case "", "json", "protobuf":
	default:
		errs = append(errs, fmt.Errorf("server.codec 不支持: %q", c.Server.Codec))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr 不能为空"))
	}
	if c.Game.MinPlayers < 1 {
		errs = append(errs, fmt.Errorf("game.min_players 必须大于 0: %d", c.Game.MinPlayers))
	}
	if c.Game.MaxPlayers != 0 && c.Game.MaxPlayers < c.Game.MinPlayers {
		errs = append(errs, fmt.Errorf("game.max_players (%d) 小于 game.min_players (%d)", c.Game.MaxPlayers, c.Game.MinPlayers))
	}
	if c.Game.RoomIdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("game.room_idle_timeout 不能为负数: %d", c.Game.RoomIdleTimeout))
	}
	if c.Security.RateLimit.MaxPerSecond <= 0 || c.Security.RateLimit.MaxPerMinute <= 0 {
		errs = append(errs, errors.New("security.rate_limit 必须大于 0"))
	}
	if c.Security.MessageLimit.MaxPerSecond <= 0 {
		errs = append(errs, errors.New("security.message_limit.max_per_second 必须大于 0"))
	}

	return errors.Join(errs...)
}
