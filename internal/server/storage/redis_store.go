package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	roomKeyPrefix  = "room:"
	statsKeyPrefix = "stats:"
	globalStatsKey = "stats:_global"

	// 房间数据过期时间
	roomExpiration = 2 * time.Hour
)

// 玩家统计字段
const (
	StatShows  = "shows"
	StatScouts = "scouts"
	StatPasses = "passes"
	StatRounds = "rounds"
)

// RoomData 房间快照（用于 Redis 序列化，不包含手牌）
type RoomData struct {
	ID          string       `json:"id"`
	State       string       `json:"state"`
	Round       int          `json:"round"`
	Players     []PlayerData `json:"players"`
	PlayerOrder []string     `json:"player_order"`
	TurnOrder   []string     `json:"turn_order,omitempty"`
	TurnIndex   int          `json:"turn_index"`
	Table       []CardData   `json:"table,omitempty"`
	Dealt       int          `json:"dealt"`
	CreatedAt   int64        `json:"created_at"`
	UpdatedAt   int64        `json:"updated_at"`
}

// PlayerData 玩家数据
type PlayerData struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	IsHost    bool   `json:"is_host"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
	HandCount int    `json:"hand_count"`
	Score     int    `json:"score"`
}

// CardData 牌数据
type CardData struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// RedisStore Redis 存储
// 零值或 nil client 时所有写操作都是空操作，便于在未启用 Redis 时直接使用
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Enabled 是否连接了 Redis
func (rs *RedisStore) Enabled() bool {
	return rs != nil && rs.client != nil
}

// Ping 检查 Redis 连接
func (rs *RedisStore) Ping(ctx context.Context) error {
	if !rs.Enabled() {
		return nil
	}
	return rs.client.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func (rs *RedisStore) Close() error {
	if !rs.Enabled() {
		return nil
	}
	return rs.client.Close()
}

// --- 房间存储 ---

// SaveRoom 保存房间到 Redis
func (rs *RedisStore) SaveRoom(ctx context.Context, roomID string, data *RoomData) error {
	if data == nil || !rs.Enabled() {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化房间数据失败: %w", err)
	}

	key := roomKeyPrefix + roomID
	return rs.client.Set(ctx, key, jsonData, roomExpiration).Err()
}

// LoadRoom 从 Redis 加载房间快照，房间不存在时返回 nil
func (rs *RedisStore) LoadRoom(ctx context.Context, roomID string) (*RoomData, error) {
	if !rs.Enabled() {
		return nil, nil
	}

	key := roomKeyPrefix + roomID
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var roomData RoomData
	if err := json.Unmarshal(data, &roomData); err != nil {
		return nil, fmt.Errorf("反序列化房间数据失败: %w", err)
	}

	return &roomData, nil
}

// DeleteRoom 从 Redis 删除房间
func (rs *RedisStore) DeleteRoom(ctx context.Context, roomID string) error {
	if !rs.Enabled() {
		return nil
	}
	return rs.client.Del(ctx, roomKeyPrefix+roomID).Err()
}

// GetAllRoomIDs 获取所有房间号
func (rs *RedisStore) GetAllRoomIDs(ctx context.Context) ([]string, error) {
	if !rs.Enabled() {
		return nil, nil
	}

	keys, err := rs.client.Keys(ctx, roomKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(keys))
	for i, key := range keys {
		ids[i] = key[len(roomKeyPrefix):]
	}
	return ids, nil
}

// --- 玩家统计 ---

// IncrStat 玩家统计计数 +1，同时累加全局计数
func (rs *RedisStore) IncrStat(ctx context.Context, playerID, field string) error {
	if !rs.Enabled() {
		return nil
	}

	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, statsKeyPrefix+playerID, field, 1)
		pipe.HIncrBy(ctx, globalStatsKey, field, 1)
		return nil
	})
	return err
}

// GetStats 获取玩家统计
func (rs *RedisStore) GetStats(ctx context.Context, playerID string) (map[string]int64, error) {
	if !rs.Enabled() {
		return map[string]int64{}, nil
	}
	return rs.hgetInts(ctx, statsKeyPrefix+playerID)
}

// GetGlobalStats 获取全局统计
func (rs *RedisStore) GetGlobalStats(ctx context.Context) (map[string]int64, error) {
	if !rs.Enabled() {
		return map[string]int64{}, nil
	}
	return rs.hgetInts(ctx, globalStatsKey)
}

func (rs *RedisStore) hgetInts(ctx context.Context, key string) (map[string]int64, error) {
	raw, err := rs.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(raw))
	for field, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("解析统计字段 %s 失败: %w", field, err)
		}
		stats[field] = n
	}
	return stats, nil
}
