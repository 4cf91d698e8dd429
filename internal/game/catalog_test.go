package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogPurchasableExcludesKing(t *testing.T) {
	got := DefaultCatalog().Purchasable()
	assert.Equal(t, []PieceType{Pawn, Knight, Bishop, Rook, Queen}, got)
}

func TestStatsJSONRoundTripsMoveRules(t *testing.T) {
	want := DefaultCatalog().Stats(Knight)
	raw, err := json.Marshal(want)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"leap"`)

	var got Stats
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, want, got)

	var rule MoveRule
	assert.Error(t, rule.UnmarshalText([]byte("teleport")))
	require.NoError(t, rule.UnmarshalText([]byte(" Omni-Slide ")))
	assert.Equal(t, RuleOmniSlide, rule)
}
