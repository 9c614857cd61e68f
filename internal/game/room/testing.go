//go:build !production

package room

import (
	"slices"
	"sync"

	"github.com/palemoky/scout/internal/game/card"
	"github.com/palemoky/scout/internal/protocol"
)

// RecordedEvent 记录的房间事件
type RecordedEvent struct {
	RoomID string
	Event
}

// RecordingEmitter 记录所有事件的 Emitter，测试用
type RecordingEmitter struct {
	mu     sync.Mutex
	events []RecordedEvent
}

func (e *RecordingEmitter) Emit(roomID string, ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, RecordedEvent{RoomID: roomID, Event: ev})
}

// Events 返回事件副本
func (e *RecordingEmitter) Events() []RecordedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.events)
}

// OfType 按类型过滤事件
func (e *RecordingEmitter) OfType(t protocol.MessageType) []RecordedEvent {
	var out []RecordedEvent
	for _, ev := range e.Events() {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// Reset 清空记录
func (e *RecordingEmitter) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = nil
}

// SetHandForTest 直接设置玩家手牌，并同步本局发牌数
func (r *Room) SetHandForTest(uid string, hand []card.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.Players[uid]; ok {
		r.Dealt += len(hand) - len(p.Hand)
		p.Hand = slices.Clone(hand)
	}
}

// SetTableForTest 直接设置桌面牌，并同步本局发牌数
func (r *Room) SetTableForTest(table []card.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Dealt += len(table) - len(r.Table)
	r.Table = slices.Clone(table)
}

// AddRoomForTest 添加房间用于测试
func (rm *RoomManager) AddRoomForTest(room *Room) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.rooms[room.ID] = room
}
