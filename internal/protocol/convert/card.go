package convert

import (
	"fmt"

	"github.com/palemoky/scout/internal/game/card"
	"github.com/palemoky/scout/internal/protocol"
)

// CardToInfo 将 card.Card 转换为 protocol.CardInfo
func CardToInfo(c card.Card) protocol.CardInfo {
	return protocol.CardInfo{
		Top:    c.Top,
		Bottom: c.Bottom,
	}
}

// CardsToInfos 将 []card.Card 转换为 []protocol.CardInfo
func CardsToInfos(cards []card.Card) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = CardToInfo(c)
	}
	return infos
}

// InfoToCard 将 protocol.CardInfo 转换为 card.Card
func InfoToCard(info protocol.CardInfo) card.Card {
	return card.Card{
		Top:    info.Top,
		Bottom: info.Bottom,
	}
}

// InfosToCards 将 []protocol.CardInfo 转换为 []card.Card，不做校验
func InfosToCards(infos []protocol.CardInfo) []card.Card {
	cards := make([]card.Card, len(infos))
	for i, info := range infos {
		cards[i] = InfoToCard(info)
	}
	return cards
}

// ParseCards 校验并转换客户端提交的牌
// 只检查点数是否合法，是否在手牌中由房间引擎判断
func ParseCards(infos []protocol.CardInfo) ([]card.Card, error) {
	cards := make([]card.Card, 0, len(infos))
	for i, info := range infos {
		c, err := card.New(info.Top, info.Bottom)
		if err != nil {
			return nil, fmt.Errorf("第 %d 张: %w", i+1, err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}
