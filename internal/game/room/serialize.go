package room

import (
	"slices"
	"time"

	"github.com/palemoky/scout/internal/game/card"
	"github.com/palemoky/scout/internal/protocol"
	"github.com/palemoky/scout/internal/server/storage"
)

// PlayersInfo 公开的玩家列表（按加入顺序，不含手牌）
func (r *Room) PlayersInfo() []protocol.PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playersInfoLocked()
}

func (r *Room) playersInfoLocked() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, len(r.PlayerOrder))
	for _, uid := range r.PlayerOrder {
		p := r.Players[uid]
		infos = append(infos, protocol.PlayerInfo{
			ID:        p.UID,
			Nickname:  p.Nickname,
			IsHost:    p.IsHost,
			Ready:     p.Ready,
			Connected: p.Connected,
			HandCount: len(p.Hand),
			Score:     p.Score,
		})
	}
	return infos
}

// TableCards 桌面牌的副本
func (r *Room) TableCards() []card.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.Table)
}

// HandOf 玩家手牌的副本，玩家不存在时返回 nil
func (r *Room) HandOf(uid string) []card.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.Players[uid]; ok {
		return slices.Clone(p.Hand)
	}
	return nil
}

// ActivePlayer 当前出牌玩家，未开局时为空
func (r *Room) ActivePlayer() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activePlayerLocked()
}

// CardCount 手牌、桌面和得分区的总张数，恒等于本局发出的牌数
func (r *Room) CardCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := len(r.Table)
	for _, p := range r.Players {
		total += len(p.Hand) + len(p.Captured)
	}
	return total
}

// HasPlayer 玩家是否在房间中
func (r *Room) HasPlayer(uid string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.Players[uid]
	return ok
}

// ToRoomData 将 Room 转换为可序列化的 RoomData，手牌只保留张数
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := &storage.RoomData{
		ID:          r.ID,
		State:       r.State.String(),
		Round:       r.Round,
		Players:     make([]storage.PlayerData, 0, len(r.PlayerOrder)),
		PlayerOrder: slices.Clone(r.PlayerOrder),
		TurnOrder:   slices.Clone(r.TurnOrder),
		TurnIndex:   r.TurnIndex,
		Dealt:       r.Dealt,
		CreatedAt:   r.CreatedAt.Unix(),
		UpdatedAt:   time.Now().Unix(),
	}

	for _, info := range r.playersInfoLocked() {
		data.Players = append(data.Players, storage.PlayerData{
			ID:        info.ID,
			Nickname:  info.Nickname,
			IsHost:    info.IsHost,
			Ready:     info.Ready,
			Connected: info.Connected,
			HandCount: info.HandCount,
			Score:     info.Score,
		})
	}
	for _, c := range r.Table {
		data.Table = append(data.Table, storage.CardData{Top: c.Top, Bottom: c.Bottom})
	}

	return data
}
