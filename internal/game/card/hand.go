package card

import "slices"

// ContainsAll 检查 cards 中每张牌都能在手牌中找到（每张手牌只能匹配一次）
func ContainsAll(hand, cards []Card) bool {
	handCopy := slices.Clone(hand)
	for _, c := range cards {
		i := slices.Index(handCopy, c)
		if i < 0 {
			return false
		}
		handCopy = slices.Delete(handCopy, i, i+1)
	}
	return true
}

// RemoveCards 从手牌中每张移除一次 toRemove 中的牌，其余牌保持原顺序
func RemoveCards(hand, toRemove []Card) []Card {
	pending := slices.Clone(toRemove)
	result := make([]Card, 0, len(hand))
	for _, h := range hand {
		if i := slices.Index(pending, h); i >= 0 {
			pending = slices.Delete(pending, i, i+1)
			continue
		}
		result = append(result, h)
	}
	return result
}

// Values 返回每张牌的可见点数
func Values(cards []Card) []int {
	values := make([]int, len(cards))
	for i, c := range cards {
		values[i] = c.Visible()
	}
	return values
}
