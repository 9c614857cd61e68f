package room

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/palemoky/scout/internal/game/card"
	"github.com/palemoky/scout/internal/game/rule"
)

const (
	DefaultMinPlayers = 2
	DefaultMaxPlayers = 5
)

// RoomPlayer 房间中的玩家
type RoomPlayer struct {
	UID       string
	Nickname  string
	IsHost    bool
	Ready     bool
	Connected bool
	Hand      []card.Card // 仅服务端持有，不广播
	Captured  []card.Card // 压过的牌，计分用
	Score     int
	JoinedAt  time.Time
}

// Room 游戏房间
//
// 所有状态变更都必须通过 Room 的方法完成，每次变更在持有 mu 的情况下
// 完成校验、修改和事件发送，校验失败时状态保持不变。
type Room struct {
	ID          string                 // 房间号
	State       RoomState              // 房间状态
	Players     map[string]*RoomPlayer // 玩家列表
	PlayerOrder []string               // 加入顺序
	TurnOrder   []string               // 本局出牌顺序，开局时确定
	TurnIndex   int                    // 当前出牌玩家在 TurnOrder 中的下标
	Table       []card.Card            // 桌面上的牌组
	Round       int                    // 局数
	Dealt       int                    // 本局实际发出的牌数
	CreatedAt   time.Time              // 创建时间

	rules      rule.Ruleset
	minPlayers int
	maxPlayers int
	emitter    Emitter
	rng        *rand.Rand
	emptySince time.Time // 最后一名在线玩家离开的时间

	mu sync.Mutex
}

// Options 房间参数
type Options struct {
	Rules      rule.Ruleset
	MinPlayers int
	MaxPlayers int // 0 表示不限
	Emitter    Emitter
	Rand       *rand.Rand // nil 时使用全局随机源
}

// NewRoom 创建房间
func NewRoom(id string, opts Options) *Room {
	if opts.MinPlayers <= 0 {
		opts.MinPlayers = DefaultMinPlayers
	}
	if opts.Emitter == nil {
		opts.Emitter = nopEmitter{}
	}
	now := time.Now()
	return &Room{
		ID:          id,
		State:       RoomStateLobby,
		Players:     make(map[string]*RoomPlayer),
		PlayerOrder: make([]string, 0, max(opts.MaxPlayers, DefaultMaxPlayers)),
		CreatedAt:   now,
		emptySince:  now,
		rules:       opts.Rules,
		minPlayers:  opts.MinPlayers,
		maxPlayers:  opts.MaxPlayers,
		emitter:     opts.Emitter,
		rng:         opts.Rand,
	}
}

// activePlayerLocked 当前出牌玩家，调用方需持有锁
func (r *Room) activePlayerLocked() string {
	if r.State != RoomStateInRound || len(r.TurnOrder) == 0 {
		return ""
	}
	return r.TurnOrder[r.TurnIndex]
}

// hostLocked 当前房主
func (r *Room) hostLocked() *RoomPlayer {
	for _, uid := range r.PlayerOrder {
		if p := r.Players[uid]; p.IsHost {
			return p
		}
	}
	return nil
}

// connectedCountLocked 在线玩家数
func (r *Room) connectedCountLocked() int {
	n := 0
	for _, p := range r.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// IdleFor 房间无人在线的时长，有玩家在线时为 0
func (r *Room) IdleFor(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.connectedCountLocked() > 0 {
		return 0
	}
	return now.Sub(r.emptySince)
}

// InPlay 对局进行中且仍有玩家在线
func (r *Room) InPlay() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.State == RoomStateInRound && r.connectedCountLocked() > 0
}
