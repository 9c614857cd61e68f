package handler

import (
	"github.com/palemoky/scout/internal/protocol"
	"github.com/palemoky/scout/internal/protocol/codec"
	"github.com/palemoky/scout/internal/protocol/convert"
	"github.com/palemoky/scout/internal/types"
)

// handleShow 处理出牌
func (h *Handler) handleShow(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ShowPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	cards, err := convert.ParseCards(payload.Cards)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	respondError(client, h.roomManager.Show(client.GetRoom(), client.GetID(), cards))
}

// handleScout 处理侦察
func (h *Handler) handleScout(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ScoutPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	respondError(client, h.roomManager.Scout(client.GetRoom(), client.GetID(), payload.ChosenSide))
}

// handlePass 处理跳过
func (h *Handler) handlePass(client types.ClientInterface) {
	respondError(client, h.roomManager.Pass(client.GetRoom(), client.GetID()))
}
