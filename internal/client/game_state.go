package client

import (
	"maps"
	"slices"
	"sync"

	"github.com/palemoky/scout/internal/game/card"
	"github.com/palemoky/scout/internal/protocol"
	"github.com/palemoky/scout/internal/protocol/codec"
	"github.com/palemoky/scout/internal/protocol/convert"
)

// GameState 客户端视角的对局状态，由服务端消息驱动
type GameState struct {
	mu sync.RWMutex

	roomID      string
	round       int
	players     []protocol.PlayerInfo
	canStart    bool
	hand        []card.Card
	handCounts  map[string]int
	table       []card.Card
	tableBy     string
	comboType   string
	currentTurn string
	lastError   *protocol.ErrorPayload
}

// NewGameState creates a new game state
func NewGameState() *GameState {
	return &GameState{handCounts: make(map[string]int)}
}

// Apply 根据服务端消息更新状态，无法解析的消息忽略
func (gs *GameState) Apply(selfID string, msg *protocol.Message) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	switch msg.Type {
	case protocol.MsgPlayerListUpdate:
		if p, err := codec.ParsePayload[protocol.PlayerListUpdatePayload](msg); err == nil {
			gs.roomID = p.RoomID
			gs.players = p.Players
			gs.canStart = p.CanStart
		}

	case protocol.MsgRoundStart:
		if p, err := codec.ParsePayload[protocol.RoundStartPayload](msg); err == nil {
			gs.round = p.Round
			gs.players = p.Players
			gs.currentTurn = p.StartingPlayer
			gs.table = nil
			gs.tableBy = ""
			gs.comboType = ""
			gs.handCounts = make(map[string]int, len(p.Players))
			for _, player := range p.Players {
				gs.handCounts[player.ID] = player.HandCount
			}
		}

	case protocol.MsgYourHand:
		if p, err := codec.ParsePayload[protocol.YourHandPayload](msg); err == nil {
			gs.hand = convert.InfosToCards(p.Cards)
			if selfID != "" {
				gs.handCounts[selfID] = len(gs.hand)
			}
		}

	case protocol.MsgTableUpdate:
		if p, err := codec.ParsePayload[protocol.TableUpdatePayload](msg); err == nil {
			gs.table = convert.InfosToCards(p.Cards)
			gs.tableBy = p.PlayerID
			gs.comboType = p.ComboType
		}

	case protocol.MsgHandCountUpdate:
		if p, err := codec.ParsePayload[protocol.HandCountUpdatePayload](msg); err == nil {
			maps.Copy(gs.handCounts, p.Counts)
		}

	case protocol.MsgTurnChange:
		if p, err := codec.ParsePayload[protocol.TurnChangePayload](msg); err == nil {
			gs.currentTurn = p.PlayerID
		}

	case protocol.MsgError:
		if p, err := codec.ParsePayload[protocol.ErrorPayload](msg); err == nil {
			gs.lastError = p
		}
	}
}

// RoomID 当前房间
func (gs *GameState) RoomID() string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.roomID
}

// Round 当前局数
func (gs *GameState) Round() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.round
}

// Players 玩家列表副本
func (gs *GameState) Players() []protocol.PlayerInfo {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return slices.Clone(gs.players)
}

// CanStart 非房主玩家是否都已准备
func (gs *GameState) CanStart() bool {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.canStart
}

// Hand 自己的手牌副本
func (gs *GameState) Hand() []card.Card {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return slices.Clone(gs.hand)
}

// HandCount 某玩家的手牌数
func (gs *GameState) HandCount(uid string) int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.handCounts[uid]
}

// Table 桌面牌副本、出牌者和牌型
func (gs *GameState) Table() (cards []card.Card, playerID, comboType string) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return slices.Clone(gs.table), gs.tableBy, gs.comboType
}

// CurrentTurn 当前行动玩家
func (gs *GameState) CurrentTurn() string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.currentTurn
}

// IsMyTurn 是否轮到 selfID
func (gs *GameState) IsMyTurn(selfID string) bool {
	return selfID != "" && gs.CurrentTurn() == selfID
}

// LastError 最近一次收到的错误
func (gs *GameState) LastError() *protocol.ErrorPayload {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.lastError
}

// Reset clears all game state
func (gs *GameState) Reset() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.roomID = ""
	gs.round = 0
	gs.players = nil
	gs.canStart = false
	gs.hand = nil
	gs.handCounts = make(map[string]int)
	gs.table = nil
	gs.tableBy = ""
	gs.comboType = ""
	gs.currentTurn = ""
	gs.lastError = nil
}
