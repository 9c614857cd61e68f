package room

import (
	"slices"

	"github.com/palemoky/scout/internal/apperrors"
	"github.com/palemoky/scout/internal/game/card"
	"github.com/palemoky/scout/internal/game/rule"
)

// 侦察时选择的牌面
const (
	SideTop    = "top"
	SideBottom = "bottom"
)

// checkTurn 校验玩家在房间内、对局进行中且轮到该玩家
func (r *Room) checkTurn(uid string) (*RoomPlayer, error) {
	p, ok := r.Players[uid]
	if !ok {
		return nil, apperrors.ErrNotInRoom
	}
	if r.State != RoomStateInRound {
		return nil, apperrors.ErrRoundNotStarted
	}
	if r.activePlayerLocked() != uid {
		return nil, apperrors.ErrNotYourTurn
	}
	return p, nil
}

// ApplyShow 出牌
// 被压过的桌面牌进入出牌玩家的得分区
func (r *Room) ApplyShow(uid string, cards []card.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.checkTurn(uid)
	if err != nil {
		return err
	}
	if !card.ContainsAll(p.Hand, cards) {
		return apperrors.ErrCardsNotInHand
	}
	if err := rule.ValidateShow(r.rules, cards, r.Table); err != nil {
		return err
	}

	combo := slices.Clone(cards)
	p.Hand = card.RemoveCards(p.Hand, combo)
	p.Captured = append(p.Captured, r.Table...)
	p.Score = len(p.Captured)
	r.Table = combo

	r.emitTable(uid, combo)
	r.emitHandCounts()
	r.emitHand(uid)
	r.nextTurn()
	return nil
}

// ApplyScout 侦察：拿走桌面唯一的一张牌，以选择的一面朝上放入手牌
func (r *Room) ApplyScout(uid, side string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.checkTurn(uid)
	if err != nil {
		return err
	}
	if len(r.Table) != 1 {
		return apperrors.ErrIllegalScout
	}

	taken := r.Table[0]
	switch side {
	case SideTop:
	case SideBottom:
		taken = taken.Flip()
	default:
		return apperrors.ErrInvalidSide
	}

	p.Hand = append(p.Hand, taken)
	r.Table = nil

	r.emitTable(uid, nil)
	r.emitHandCounts()
	r.emitHand(uid)
	r.nextTurn()
	return nil
}

// Pass 跳过本轮
func (r *Room) Pass(uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.checkTurn(uid); err != nil {
		return err
	}
	r.nextTurn()
	return nil
}

// nextTurn 轮到下一位在线玩家，调用方需持有锁
// 所有人都离线时仍前进一位
func (r *Room) nextTurn() {
	n := len(r.TurnOrder)
	if n == 0 {
		return
	}

	next := (r.TurnIndex + 1) % n
	for i := 1; i <= n; i++ {
		idx := (r.TurnIndex + i) % n
		if p, ok := r.Players[r.TurnOrder[idx]]; ok && p.Connected {
			next = idx
			break
		}
	}
	r.TurnIndex = next
	r.emitTurn()
}
