package room

import (
	"context"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/palemoky/scout/internal/apperrors"
	"github.com/palemoky/scout/internal/game/card"
	"github.com/palemoky/scout/internal/game/rule"
	"github.com/palemoky/scout/internal/logger"
	"github.com/palemoky/scout/internal/server/storage"
)

const storeTimeout = 3 * time.Second

// Store 房间快照与玩家统计的持久化
type Store interface {
	SaveRoom(ctx context.Context, roomID string, data *storage.RoomData) error
	DeleteRoom(ctx context.Context, roomID string) error
	IncrStat(ctx context.Context, playerID, field string) error
}

// ManagerOptions 房间管理器参数
type ManagerOptions struct {
	Store       Store // nil 时不持久化
	Emitter     Emitter
	Rules       rule.Ruleset
	MinPlayers  int
	MaxPlayers  int
	IdleTimeout time.Duration // >0 时定期清理无人在线的房间
	Rand        *rand.Rand    // 非 nil 时为每个房间派生独立的随机源
}

// RoomManager 房间管理器
type RoomManager struct {
	opts  ManagerOptions
	store Store
	rooms map[string]*Room
	mu    sync.RWMutex

	done      chan struct{}
	closeOnce sync.Once
}

// NewRoomManager 创建房间管理器
func NewRoomManager(opts ManagerOptions) *RoomManager {
	store := opts.Store
	if store == nil {
		store = storage.NewRedisStore(nil)
	}

	rm := &RoomManager{
		opts:  opts,
		store: store,
		rooms: make(map[string]*Room),
		done:  make(chan struct{}),
	}

	if opts.IdleTimeout > 0 {
		// 启动房间清理协程
		go rm.cleanupLoop()
	}

	return rm
}

// GetOrCreate 获取房间，不存在时创建
func (rm *RoomManager) GetOrCreate(roomID string) *Room {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if room, ok := rm.rooms[roomID]; ok {
		return room
	}

	room := NewRoom(roomID, Options{
		Rules:      rm.opts.Rules,
		MinPlayers: rm.opts.MinPlayers,
		MaxPlayers: rm.opts.MaxPlayers,
		Emitter:    rm.opts.Emitter,
		Rand:       rm.roomRand(),
	})
	rm.rooms[roomID] = room

	logger.Info("🏠 房间 %s 已创建", roomID)
	return room
}

// roomRand 从管理器的随机源派生房间随机源，调用方需持有 rm.mu
// 各房间在各自的锁内发牌，不能共享同一个 *rand.Rand
func (rm *RoomManager) roomRand() *rand.Rand {
	if rm.opts.Rand == nil {
		return nil
	}
	return rand.New(rand.NewPCG(rm.opts.Rand.Uint64(), rm.opts.Rand.Uint64()))
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(roomID string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[roomID]
}

// RoomCount 房间数量
func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// RoomIDs 当前内存中的房间号，已排序
func (rm *RoomManager) RoomIDs() []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return slices.Sorted(maps.Keys(rm.rooms))
}

// snapshot 复制房间列表，避免持有管理器锁时进入房间锁
func (rm *RoomManager) snapshot() []*Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// GetActiveGamesCount 获取对局中且仍有玩家在线的房间数量
// 玩家全部离线的对局不会再推进，不计入
func (rm *RoomManager) GetActiveGamesCount() int {
	count := 0
	for _, room := range rm.snapshot() {
		if room.InPlay() {
			count++
		}
	}
	return count
}

// GetRoomByPlayerID 通过玩家 ID 获取房间
func (rm *RoomManager) GetRoomByPlayerID(playerID string) *Room {
	for _, room := range rm.snapshot() {
		if room.HasPlayer(playerID) {
			return room
		}
	}
	return nil
}

// lookup 查找已存在的房间
func (rm *RoomManager) lookup(roomID string) (*Room, error) {
	room := rm.GetRoom(roomID)
	if room == nil {
		return nil, apperrors.ErrRoomNotFound
	}
	return room, nil
}

// --- 房间操作路由 ---

// Join 加入房间，房间不存在时创建
// 加入期间房间被清理时，在新建的房间中重新加入
func (rm *RoomManager) Join(roomID, uid, nickname string) (*Room, error) {
	for {
		room := rm.GetOrCreate(roomID)
		if err := room.Join(uid, nickname); err != nil {
			return nil, err
		}
		if rm.GetRoom(roomID) == room {
			rm.persist(room)
			return room, nil
		}
		logger.Debug("房间 %s 在加入时被清理，重新加入", roomID)
	}
}

// ToggleReady 切换准备状态
func (rm *RoomManager) ToggleReady(roomID, uid string) error {
	return rm.apply(roomID, "", func(room *Room) error {
		return room.ToggleReady(uid)
	})
}

// StartRound 开局
func (rm *RoomManager) StartRound(roomID, uid string) error {
	room, err := rm.lookup(roomID)
	if err != nil {
		return err
	}
	if err := room.StartRound(uid); err != nil {
		return err
	}

	data := rm.persist(room)
	for _, id := range data.TurnOrder {
		rm.incrStat(id, storage.StatRounds)
	}
	return nil
}

// Show 出牌
func (rm *RoomManager) Show(roomID, uid string, cards []card.Card) error {
	return rm.apply(roomID, uid, func(room *Room) error {
		return room.ApplyShow(uid, cards)
	}, storage.StatShows)
}

// Scout 侦察
func (rm *RoomManager) Scout(roomID, uid, side string) error {
	return rm.apply(roomID, uid, func(room *Room) error {
		return room.ApplyScout(uid, side)
	}, storage.StatScouts)
}

// Pass 跳过
func (rm *RoomManager) Pass(roomID, uid string) error {
	return rm.apply(roomID, uid, func(room *Room) error {
		return room.Pass(uid)
	}, storage.StatPasses)
}

// Disconnect 玩家断线
func (rm *RoomManager) Disconnect(roomID, uid string) error {
	return rm.apply(roomID, "", func(room *Room) error {
		return room.Disconnect(uid)
	})
}

// apply 查找房间并执行操作，成功后保存快照并累加统计
func (rm *RoomManager) apply(roomID, uid string, fn func(*Room) error, stats ...string) error {
	room, err := rm.lookup(roomID)
	if err != nil {
		return err
	}
	if err := fn(room); err != nil {
		return err
	}

	rm.persist(room)
	for _, field := range stats {
		rm.incrStat(uid, field)
	}
	return nil
}

// persist 异步保存房间快照
func (rm *RoomManager) persist(room *Room) *storage.RoomData {
	data := room.ToRoomData()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := rm.store.SaveRoom(ctx, data.ID, data); err != nil {
			logger.Warn("⚠️ 保存房间 %s 失败: %v", data.ID, err)
		}
	}()
	return data
}

func (rm *RoomManager) incrStat(uid, field string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := rm.store.IncrStat(ctx, uid, field); err != nil {
			logger.Warn("⚠️ 更新玩家 %s 统计失败: %v", uid, err)
		}
	}()
}

// --- 清理 ---

// cleanupLoop 定期清理无人在线的房间
func (rm *RoomManager) cleanupLoop() {
	ticker := time.NewTicker(min(rm.opts.IdleTimeout, time.Minute))
	defer ticker.Stop()

	for {
		select {
		case <-rm.done:
			return
		case now := <-ticker.C:
			rm.cleanup(now)
		}
	}
}

// cleanup 清理空闲超时的房间
func (rm *RoomManager) cleanup(now time.Time) {
	var idle []*Room
	for _, room := range rm.snapshot() {
		if room.IdleFor(now) > rm.opts.IdleTimeout {
			idle = append(idle, room)
		}
	}
	if len(idle) == 0 {
		return
	}

	for _, room := range rm.removeIdle(idle, now) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()
			_ = rm.store.DeleteRoom(ctx, room.ID)
		}()
	}
}

// removeIdle 在管理器锁内复查并移除仍然空闲的房间
// 锁顺序固定为 rm.mu -> room.mu
func (rm *RoomManager) removeIdle(candidates []*Room, now time.Time) []*Room {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	removed := make([]*Room, 0, len(candidates))
	for _, room := range candidates {
		if rm.rooms[room.ID] != room || room.IdleFor(now) <= rm.opts.IdleTimeout {
			continue
		}
		delete(rm.rooms, room.ID)
		removed = append(removed, room)
		logger.Info("🧹 房间 %s 空闲超时已清理", room.ID)
	}
	return removed
}

// Close 停止后台清理
func (rm *RoomManager) Close() {
	rm.closeOnce.Do(func() {
		close(rm.done)
	})
}
