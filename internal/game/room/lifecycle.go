package room

import (
	"slices"
	"time"

	"github.com/palemoky/scout/internal/apperrors"
	"github.com/palemoky/scout/internal/game/card"
	"github.com/palemoky/scout/internal/logger"
	"github.com/palemoky/scout/internal/protocol"
)

// Join 玩家加入房间
// 重复加入只会更新昵称并标记为在线；对局中加入的玩家不参与本局出牌
func (r *Room) Join(uid, nickname string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.Players[uid]; ok {
		if nickname != "" {
			p.Nickname = nickname
		}
		p.Connected = true
		r.emptySince = time.Time{}
		r.emitRoster()
		return nil
	}

	if r.maxPlayers > 0 && len(r.Players) >= r.maxPlayers {
		return apperrors.ErrRoomFull
	}

	p := &RoomPlayer{
		UID:       uid,
		Nickname:  nickname,
		IsHost:    r.hostLocked() == nil,
		Connected: true,
		JoinedAt:  time.Now(),
	}
	r.Players[uid] = p
	r.PlayerOrder = append(r.PlayerOrder, uid)
	r.emptySince = time.Time{}

	logger.Info("👤 玩家 %s 加入房间 %s", nickname, r.ID)

	r.emitRoster()
	return nil
}

// ToggleReady 切换准备状态
func (r *Room) ToggleReady(uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.Players[uid]
	if !ok {
		return apperrors.ErrNotInRoom
	}
	p.Ready = !p.Ready

	r.emitRoster()
	return nil
}

// CanStart 是否满足开局条件：在线人数足够且非房主玩家全部准备
func (r *Room) CanStart() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canStartLocked() == nil
}

func (r *Room) canStartLocked() error {
	if r.connectedCountLocked() < r.minPlayers {
		return apperrors.ErrNotEnoughPlayers
	}
	for _, p := range r.Players {
		if p.Connected && !p.IsHost && !p.Ready {
			return apperrors.ErrPlayersNotReady
		}
	}
	return nil
}

// StartRound 房主开局：确定出牌顺序并发牌
func (r *Room) StartRound(uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.Players[uid]
	if !ok {
		return apperrors.ErrNotInRoom
	}
	if !p.IsHost {
		return apperrors.ErrNotHost
	}
	if r.State != RoomStateLobby {
		return apperrors.ErrRoundStarted
	}
	if err := r.canStartLocked(); err != nil {
		return err
	}

	order := make([]string, 0, len(r.PlayerOrder))
	for _, id := range r.PlayerOrder {
		if r.Players[id].Connected {
			order = append(order, id)
		}
	}

	hands, dealt := card.Deal(order, r.rng)
	for id, player := range r.Players {
		player.Hand = hands[id]
		player.Captured = nil
		player.Score = 0
	}

	r.TurnOrder = order
	r.TurnIndex = 0
	r.Table = nil
	r.Dealt = dealt
	r.Round++
	r.State = RoomStateInRound

	logger.Info("🃏 房间 %s 第 %d 局开始，%d 名玩家，每人 %d 张", r.ID, r.Round, len(order), dealt/len(order))

	r.broadcast(protocol.MsgRoundStart, protocol.RoundStartPayload{
		Round:          r.Round,
		Players:        r.playersInfoLocked(),
		StartingPlayer: r.activePlayerLocked(),
	})
	for _, id := range order {
		r.emitHand(id)
	}
	return nil
}

// Disconnect 玩家断开连接
//
// 等待阶段直接移出房间，房主离开时由最早加入的玩家接任；
// 对局中保留座位和手牌，仅标记离线，轮到该玩家时跳过。
func (r *Room) Disconnect(uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.Players[uid]
	if !ok {
		return apperrors.ErrNotInRoom
	}
	defer func() {
		if r.connectedCountLocked() == 0 {
			r.emptySince = time.Now()
		}
	}()

	if r.State == RoomStateLobby {
		delete(r.Players, uid)
		r.PlayerOrder = slices.DeleteFunc(r.PlayerOrder, func(id string) bool { return id == uid })
		if p.IsHost && len(r.PlayerOrder) > 0 {
			r.Players[r.PlayerOrder[0]].IsHost = true
		}
		logger.Info("👋 玩家 %s 离开房间 %s", p.Nickname, r.ID)
		r.emitRoster()
		return nil
	}

	p.Connected = false
	logger.Info("📴 玩家 %s 在房间 %s 中掉线", p.Nickname, r.ID)
	r.emitRoster()
	if r.activePlayerLocked() == uid {
		r.nextTurn()
	}
	return nil
}
