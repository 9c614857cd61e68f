package client

import (
	"time"

	"github.com/palemoky/scout/internal/game/card"
	"github.com/palemoky/scout/internal/protocol"
	"github.com/palemoky/scout/internal/protocol/codec"
	"github.com/palemoky/scout/internal/protocol/convert"
)

// --- 便捷方法 ---

// JoinRoom 加入房间，房间不存在时由服务端创建
func (c *Client) JoinRoom(roomID, nickname string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomID:   roomID,
		Nickname: nickname,
	}))
}

// ToggleReady 切换准备状态
func (c *Client) ToggleReady() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgToggleReady, nil))
}

// StartRound 房主开局
func (c *Client) StartRound() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgStartRound, nil))
}

// Show 出牌组
func (c *Client) Show(cards []card.Card) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgShow, protocol.ShowPayload{
		Cards: convert.CardsToInfos(cards),
	}))
}

// Scout 侦察桌面唯一的一张牌，side 为 top 或 bottom
func (c *Client) Scout(side string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgScout, protocol.ScoutPayload{
		ChosenSide: side,
	}))
}

// Pass 跳过
func (c *Client) Pass() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPass, nil))
}

// GetStats 获取个人统计
func (c *Client) GetStats() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetStats, nil))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}

// StartHeartbeat 启动心跳，连接关闭时退出
func (c *Client) StartHeartbeat() {
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if c.IsConnected() {
					_ = c.Ping()
				}
			case <-c.done:
				return
			}
		}
	}()
}
