package room

import (
	"github.com/palemoky/scout/internal/game/card"
	"github.com/palemoky/scout/internal/protocol"
	"github.com/palemoky/scout/internal/protocol/convert"
)

// Event 房间事件
type Event struct {
	Type    protocol.MessageType
	To      string // 为空时广播给整个房间，否则只发给该玩家
	Payload any
}

// Private 是否为私发事件
func (e Event) Private() bool {
	return e.To != ""
}

// Emitter 房间事件的投递方
// Emit 在房间锁内调用，实现不能阻塞，也不能回调 Room 的方法
type Emitter interface {
	Emit(roomID string, ev Event)
}

// EmitterFunc 函数适配器
type EmitterFunc func(roomID string, ev Event)

func (f EmitterFunc) Emit(roomID string, ev Event) {
	f(roomID, ev)
}

type nopEmitter struct{}

func (nopEmitter) Emit(string, Event) {}

// --- 以下方法都需要持有房间锁 ---

func (r *Room) broadcast(msgType protocol.MessageType, payload any) {
	r.emitter.Emit(r.ID, Event{Type: msgType, Payload: payload})
}

func (r *Room) sendTo(uid string, msgType protocol.MessageType, payload any) {
	if p, ok := r.Players[uid]; !ok || !p.Connected {
		return
	}
	r.emitter.Emit(r.ID, Event{Type: msgType, To: uid, Payload: payload})
}

func (r *Room) emitRoster() {
	r.broadcast(protocol.MsgPlayerListUpdate, protocol.PlayerListUpdatePayload{
		RoomID:   r.ID,
		Players:  r.playersInfoLocked(),
		CanStart: r.canStartLocked() == nil,
	})
}

func (r *Room) emitHand(uid string) {
	p, ok := r.Players[uid]
	if !ok {
		return
	}
	r.sendTo(uid, protocol.MsgYourHand, protocol.YourHandPayload{
		Cards: convert.CardsToInfos(p.Hand),
	})
}

func (r *Room) emitHandCounts() {
	counts := make(map[string]int, len(r.Players))
	for uid, p := range r.Players {
		counts[uid] = len(p.Hand)
	}
	r.broadcast(protocol.MsgHandCountUpdate, protocol.HandCountUpdatePayload{Counts: counts})
}

func (r *Room) emitTable(uid string, combo []card.Card) {
	payload := protocol.TableUpdatePayload{
		Cards:    convert.CardsToInfos(r.Table),
		PlayerID: uid,
	}
	if len(combo) > 0 {
		payload.ComboType = r.rules.Classify(combo).String()
	}
	r.broadcast(protocol.MsgTableUpdate, payload)
}

func (r *Room) emitTurn() {
	r.broadcast(protocol.MsgTurnChange, protocol.TurnChangePayload{
		PlayerID: r.activePlayerLocked(),
	})
}
