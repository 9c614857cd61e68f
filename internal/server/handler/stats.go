package handler

import (
	"context"
	"time"

	"github.com/palemoky/scout/internal/logger"
	"github.com/palemoky/scout/internal/protocol"
	"github.com/palemoky/scout/internal/protocol/codec"
	"github.com/palemoky/scout/internal/server/storage"
	"github.com/palemoky/scout/internal/types"
)

// handleGetStats 获取个人统计
func (h *Handler) handleGetStats(client types.ClientInterface) {
	result := protocol.StatsResultPayload{PlayerID: client.GetID()}

	if h.stats != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		stats, err := h.stats.GetStats(ctx, client.GetID())
		if err != nil {
			logger.Error("获取玩家 %s 统计失败: %v", client.GetID(), err)
			client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "获取统计失败"))
			return
		}
		result.Shows = stats[storage.StatShows]
		result.Scouts = stats[storage.StatScouts]
		result.Passes = stats[storage.StatPasses]
		result.Rounds = stats[storage.StatRounds]
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgStatsResult, result))
}
