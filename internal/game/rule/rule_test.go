package rule

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/scout/internal/apperrors"
	"github.com/palemoky/scout/internal/game/card"
)

func cards(pairs ...int) []card.Card {
	out := make([]card.Card, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, card.Card{Top: pairs[i], Bottom: pairs[i+1]})
	}
	return out
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards []card.Card
		want  ComboType
	}{
		{"empty", nil, Invalid},
		{"single card", cards(5, 1), Invalid},
		{"pair set", cards(3, 1, 3, 5), Set},
		{"triple set", cards(7, 1, 7, 2, 7, 3), Set},
		{"two card run", cards(4, 1, 5, 1), Run},
		{"unsorted run", cards(6, 1, 4, 2, 5, 3), Run},
		{"gap", cards(4, 1, 6, 1), Invalid},
		{"run with repeat", cards(4, 1, 5, 2, 5, 3), Invalid},
		{"hidden values ignored", cards(2, 9, 3, 9), Run},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.cards))
		})
	}
}

// randomCard draws a valid card with the given visible value.
func randomCard(rng *rand.Rand, top int) card.Card {
	bottom := rng.IntN(card.MaxRank) + card.MinRank
	for bottom == top {
		bottom = rng.IntN(card.MaxRank) + card.MinRank
	}
	return card.Card{Top: top, Bottom: bottom}
}

// randomCombo generates a set, a run or an arbitrary group of 1..6 cards,
// shuffled, so that every combo type shows up often.
func randomCombo(rng *rand.Rand) []card.Card {
	n := rng.IntN(6) + 1
	out := make([]card.Card, 0, n)

	switch rng.IntN(3) {
	case 0:
		v := rng.IntN(card.MaxRank) + card.MinRank
		for range n {
			out = append(out, randomCard(rng, v))
		}
	case 1:
		start := rng.IntN(card.MaxRank-n+1) + card.MinRank
		for i := range n {
			out = append(out, randomCard(rng, start+i))
		}
	default:
		for range n {
			out = append(out, randomCard(rng, rng.IntN(card.MaxRank)+card.MinRank))
		}
	}

	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func TestClassify_OrderInvariant(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 5))
	seen := make(map[ComboType]int)

	for range 2000 {
		combo := randomCombo(rng)
		want := Classify(combo)
		seen[want]++

		snapshot := slices.Clone(combo)
		shuffled := slices.Clone(combo)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		assert.Equal(t, want, Classify(shuffled), "%v", combo)
		reversed := slices.Clone(combo)
		slices.Reverse(reversed)
		assert.Equal(t, want, Classify(reversed), "%v", combo)
		assert.Equal(t, snapshot, combo, "input is not reordered")
	}

	for _, typ := range []ComboType{Invalid, Run, Set} {
		assert.Positive(t, seen[typ], "generator never produced %s", typ)
	}
}

func TestIsStronger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		newCombo []card.Card
		oldCombo []card.Card
		want     bool
	}{
		{"empty table", cards(1, 2), nil, true},
		{"longer wins over set", cards(1, 2, 2, 3, 3, 4), cards(9, 1, 9, 2), true},
		{"shorter loses", cards(9, 1, 9, 2), cards(1, 2, 2, 3, 3, 4), false},
		{"set beats run", cards(3, 1, 3, 5), cards(2, 9, 3, 9), true},
		{"run loses to set", cards(2, 9, 3, 9), cards(3, 1, 3, 5), false},
		{"higher max wins", cards(5, 1, 6, 1), cards(4, 1, 5, 2), true},
		{"lower max loses", cards(4, 1, 5, 2), cards(5, 1, 6, 1), false},
		{"full tie", cards(4, 1, 5, 2), cards(5, 3, 4, 3), false},
		{"invalid longer still wins", cards(1, 2, 5, 2, 9, 2), cards(8, 1, 8, 2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsStronger(tt.newCombo, tt.oldCombo))
		})
	}
}

func TestIsStronger_Antisymmetric(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(11, 13))
	ties := 0

	for range 5000 {
		a, b := randomCombo(rng), randomCombo(rng)
		ab, ba := IsStronger(a, b), IsStronger(b, a)
		assert.False(t, ab && ba, "%v vs %v", a, b)
		if !ab && !ba {
			ties++
		}
		assert.False(t, IsStronger(a, a), "%v never beats itself", a)
	}

	assert.Positive(t, ties)
}

func TestRuleset_Classify(t *testing.T) {
	t.Parallel()

	single := cards(7, 2)

	assert.Equal(t, Run, DefaultRuleset().Classify(single))
	assert.Equal(t, Invalid, Ruleset{}.Classify(single))
	assert.Equal(t, Invalid, DefaultRuleset().Classify(nil))
	assert.Equal(t, Set, DefaultRuleset().Classify(cards(3, 1, 3, 5)))
}

func TestValidateShow(t *testing.T) {
	t.Parallel()

	rs := DefaultRuleset()

	assert.NoError(t, ValidateShow(rs, cards(7, 2), nil))
	assert.NoError(t, ValidateShow(rs, cards(3, 1, 3, 5), cards(2, 9, 3, 9)))
	assert.ErrorIs(t, ValidateShow(rs, cards(4, 1, 6, 1), nil), apperrors.ErrInvalidCombo)
	assert.ErrorIs(t, ValidateShow(rs, cards(2, 9, 3, 9), cards(3, 1, 3, 5)), apperrors.ErrTooWeak)
	assert.ErrorIs(t, ValidateShow(Ruleset{}, cards(7, 2), nil), apperrors.ErrInvalidCombo)
}

func TestComboType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "set", Set.String())
	assert.Equal(t, "run", Run.String())
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "invalid", ComboType(42).String())
}
