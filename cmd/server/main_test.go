package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battle_chess_tft/internal/game"
	"battle_chess_tft/internal/shared"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestConfigCommandPrintsYAML(t *testing.T) {
	out := execute(t, "config")
	assert.Contains(t, out, "starting_coins: 3")
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "bchess version dev")
}

func TestShopCommandReportsFractions(t *testing.T) {
	out := execute(t, "shop", "--rotations", "50", "--seed", "3", "--quiet")
	assert.Contains(t, out, "offers")
	assert.Contains(t, out, "piece")
	assert.Contains(t, out, "card")
	assert.Contains(t, out, "queen")
	assert.NotContains(t, out, "king")
}

func TestSimulateShopMatchesWeights(t *testing.T) {
	rules := game.DefaultRules()
	tally, err := simulateShop(rules, 11, 2000, nil)
	require.NoError(t, err)
	require.Equal(t, 2000*rules.Shop.Slots, tally.slots)

	assert.InDelta(t, 0.50, fraction(tally.kinds[game.OfferPiece], tally.slots), 0.03)
	assert.InDelta(t, 0.30, fraction(tally.kinds[game.OfferCard], tally.slots), 0.03)
	assert.InDelta(t, 0.40, fraction(tally.archetypes[shared.Pawn], tally.pieces), 0.03)
	assert.Zero(t, tally.archetypes[shared.King])
	assert.NotContains(t, tally.order, shared.King)
}

func TestSimulateShopIsDeterministic(t *testing.T) {
	a, err := simulateShop(game.DefaultRules(), 5, 100, nil)
	require.NoError(t, err)
	b, err := simulateShop(game.DefaultRules(), 5, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
