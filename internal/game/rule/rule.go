package rule

import (
	"slices"

	"github.com/palemoky/scout/internal/apperrors"
	"github.com/palemoky/scout/internal/game/card"
)

// ComboType 定义牌组类型，数值即比较时的等级
type ComboType int

const (
	Invalid ComboType = iota
	Run               // 顺子（可见点数连续）
	Set               // 同点（可见点数全部相同）
)

// comboTypeNames 牌组类型名称映射表
var comboTypeNames = map[ComboType]string{
	Invalid: "invalid",
	Run:     "run",
	Set:     "set",
}

func (t ComboType) String() string {
	if name, ok := comboTypeNames[t]; ok {
		return name
	}
	return "invalid"
}

// Combo 解析后的牌组，用于比较
type Combo struct {
	Type     ComboType
	Cards    []card.Card
	MaxValue int // 最大可见点数
}

func (c Combo) IsEmpty() bool {
	return len(c.Cards) == 0
}

// Parse 解析一组牌
func Parse(cards []card.Card) Combo {
	return Combo{
		Type:     Classify(cards),
		Cards:    cards,
		MaxValue: maxValue(cards),
	}
}

// Classify 根据可见点数判断牌组类型
// 空牌组和单张都视为 Invalid，输入顺序不影响结果
func Classify(cards []card.Card) ComboType {
	if len(cards) <= 1 {
		return Invalid
	}

	values := card.Values(cards)
	slices.Sort(values)

	if values[0] == values[len(values)-1] {
		return Set
	}
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return Invalid
		}
	}
	return Run
}

// IsStronger 判断 newCombo 是否能压过 oldCombo
//
// 比较顺序：张数多者胜；张数相同比类型（Set > Run > Invalid）；
// 类型相同比最大可见点数。完全相同时返回 false。
func IsStronger(newCombo, oldCombo []card.Card) bool {
	if len(oldCombo) == 0 {
		return true
	}
	return Parse(newCombo).Beats(Parse(oldCombo))
}

// Beats 判断当前牌组是否压过 other
func (c Combo) Beats(other Combo) bool {
	if other.IsEmpty() {
		return true
	}
	if len(c.Cards) != len(other.Cards) {
		return len(c.Cards) > len(other.Cards)
	}
	if c.Type != other.Type {
		return c.Type > other.Type
	}
	return c.MaxValue > other.MaxValue
}

func maxValue(cards []card.Card) int {
	if len(cards) == 0 {
		return 0
	}
	return slices.Max(card.Values(cards))
}

// Ruleset 房间使用的出牌规则
type Ruleset struct {
	// SingleCardRun 为 true 时单张视为 Run，桌面才可能恰好只有一张牌以供侦察
	SingleCardRun bool
}

// DefaultRuleset 默认规则
func DefaultRuleset() Ruleset {
	return Ruleset{SingleCardRun: true}
}

// Classify 按规则判断牌组类型
func (rs Ruleset) Classify(cards []card.Card) ComboType {
	if len(cards) == 1 && rs.SingleCardRun {
		return Run
	}
	return Classify(cards)
}

// ValidateShow 校验出牌是否合法
func ValidateShow(rs Ruleset, cards, table []card.Card) error {
	if rs.Classify(cards) == Invalid {
		return apperrors.ErrInvalidCombo
	}
	if !IsStronger(cards, table) {
		return apperrors.ErrTooWeak
	}
	return nil
}
