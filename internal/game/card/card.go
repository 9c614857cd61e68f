package card

import (
	"fmt"
	"math/rand/v2"
	"strconv"
)

const (
	MinRank = 1
	MaxRank = 10

	// DeckSize 每个有序对 (top, bottom) 且 top != bottom 各一张
	DeckSize = (MaxRank - MinRank + 1) * (MaxRank - MinRank)
)

// Card 定义一张双面牌
//
// Top 是当前朝上（可见）的一面，Bottom 是另一面。Card 是值类型，
// 翻转会产生新的 Card，不会修改原值。
type Card struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// New 创建一张牌并校验点数
func New(top, bottom int) (Card, error) {
	c := Card{Top: top, Bottom: bottom}
	if !c.Valid() {
		return Card{}, fmt.Errorf("无效的牌: %d/%d", top, bottom)
	}
	return c, nil
}

// Visible 返回可见面的点数
func (c Card) Visible() int {
	return c.Top
}

// Hidden 返回背面的点数
func (c Card) Hidden() int {
	return c.Bottom
}

// Flip 返回翻面后的新牌
func (c Card) Flip() Card {
	return Card{Top: c.Bottom, Bottom: c.Top}
}

// Valid 检查两面点数是否合法
func (c Card) Valid() bool {
	return c.Top >= MinRank && c.Top <= MaxRank &&
		c.Bottom >= MinRank && c.Bottom <= MaxRank &&
		c.Top != c.Bottom
}

func (c Card) String() string {
	return strconv.Itoa(c.Top) + "/" + strconv.Itoa(c.Bottom)
}

// Deck 定义一副牌
type Deck []Card

// NewDeck 按 top 升序、bottom 升序枚举全部 90 张牌
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for top := MinRank; top <= MaxRank; top++ {
		for bottom := MinRank; bottom <= MaxRank; bottom++ {
			if top == bottom {
				continue
			}
			deck = append(deck, Card{Top: top, Bottom: bottom})
		}
	}
	return deck
}

// Shuffle 原地洗牌 (Fisher-Yates)，rng 为 nil 时使用全局随机源
func (d Deck) Shuffle(rng *rand.Rand) {
	swap := func(i, j int) {
		d[i], d[j] = d[j], d[i]
	}
	if rng == nil {
		rand.Shuffle(len(d), swap)
		return
	}
	rng.Shuffle(len(d), swap)
}

// Deal 洗一副新牌并按 playerIDs 顺序给每人发连续的 len(deck)/n 张
//
// 余下的牌本局不使用。返回每位玩家的手牌和实际发出的张数。
func Deal(playerIDs []string, rng *rand.Rand) (map[string][]Card, int) {
	hands := make(map[string][]Card, len(playerIDs))
	if len(playerIDs) == 0 {
		return hands, 0
	}

	deck := NewDeck()
	deck.Shuffle(rng)

	per := len(deck) / len(playerIDs)
	for i, id := range playerIDs {
		hand := make([]Card, per)
		copy(hand, deck[i*per:(i+1)*per])
		hands[id] = hand
	}
	return hands, per * len(playerIDs)
}
