package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/scout/internal/game/card"
	"github.com/palemoky/scout/internal/protocol"
)

func TestCardToInfo_KeepsOrientation(t *testing.T) {
	t.Parallel()

	info := CardToInfo(card.Card{Top: 7, Bottom: 2})
	assert.Equal(t, protocol.CardInfo{Top: 7, Bottom: 2}, info)

	flipped := CardToInfo(card.Card{Top: 7, Bottom: 2}.Flip())
	assert.Equal(t, protocol.CardInfo{Top: 2, Bottom: 7}, flipped)
}

func TestInfosToCards(t *testing.T) {
	t.Parallel()

	infos := []protocol.CardInfo{{Top: 3, Bottom: 1}, {Top: 3, Bottom: 5}}
	cards := InfosToCards(infos)

	assert.Equal(t, []card.Card{{Top: 3, Bottom: 1}, {Top: 3, Bottom: 5}}, cards)
	assert.Equal(t, infos, CardsToInfos(cards))
}

func TestInfosToCards_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, InfosToCards(nil))
	assert.Empty(t, CardsToInfos(nil))
}

func TestParseCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		infos   []protocol.CardInfo
		want    []card.Card
		wantErr bool
	}{
		{name: "valid", infos: []protocol.CardInfo{{Top: 7, Bottom: 2}, {Top: 10, Bottom: 1}}, want: []card.Card{{Top: 7, Bottom: 2}, {Top: 10, Bottom: 1}}},
		{name: "empty", infos: nil, want: []card.Card{}},
		{name: "same value on both sides", infos: []protocol.CardInfo{{Top: 7, Bottom: 2}, {Top: 9, Bottom: 9}}, wantErr: true},
		{name: "out of range", infos: []protocol.CardInfo{{Top: 11, Bottom: 2}}, wantErr: true},
		{name: "zero value", infos: []protocol.CardInfo{{}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCards(tt.infos)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
