package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(rules EconomyRules) (*CombatResolver, *Economy) {
	econ := NewEconomy(rules)
	return NewCombatResolver(NewMovementValidator(DefaultCatalog()), econ), econ
}

func TestResolveAttackDamagesWithoutKilling(t *testing.T) {
	r, _ := newResolver(DefaultEconomyRules())
	b := NewBoard()
	rook := put(t, b, White, Rook, "a1")
	queen := put(t, b, Black, Queen, "a8")
	player := newPlayer(White, 3)

	res, err := r.ResolveAttack(b, player, rook, MustSquare("a8"))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Damage)
	assert.False(t, res.Died)
	assert.Equal(t, 6, queen.HP)
	assert.Equal(t, 3, player.Coins)
}

func TestResolveAttackKillFreesSquareAndPays(t *testing.T) {
	r, _ := newResolver(DefaultEconomyRules())
	b := NewBoard()
	queen := put(t, b, White, Queen, "d1")
	pawn := put(t, b, Black, Pawn, "d7")
	player := newPlayer(White, 0)

	res, err := r.ResolveAttack(b, player, queen, MustSquare("d7"))
	require.NoError(t, err)
	assert.True(t, res.Died)
	assert.Equal(t, 3, res.Damage, "damage is clamped to remaining hp")
	assert.Equal(t, 0, pawn.HP)
	_, occupied := b.PieceAt(MustSquare("d7"))
	assert.False(t, occupied)
	assert.Equal(t, 1, res.Reward)
	assert.Equal(t, 1, player.Coins)
	assert.False(t, res.KingSlain)
}

func TestResolveAttackHPNeverNegative(t *testing.T) {
	r, _ := newResolver(DefaultEconomyRules())
	for hp := 1; hp <= 12; hp++ {
		b := NewBoard()
		attacker := put(t, b, White, Queen, "a1")
		target := put(t, b, Black, Knight, "a2")
		target.HP = hp

		res, err := r.ResolveAttack(b, newPlayer(White, 0), attacker, MustSquare("a2"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, target.HP, 0)
		_, present := b.PieceAt(MustSquare("a2"))
		assert.Equal(t, !res.Died, present)
		assert.Equal(t, target.HP <= 0, res.Died)
	}
}

func TestResolveAttackRejectionsInOrder(t *testing.T) {
	r, _ := newResolver(DefaultEconomyRules())
	b := NewBoard()
	rook := put(t, b, White, Rook, "a1")
	put(t, b, White, Pawn, "a2")
	put(t, b, Black, Pawn, "h8")
	player := newPlayer(White, 3)

	tests := []struct {
		name   string
		target string
		want   error
	}{
		{"empty square", "c3", ErrNoTarget},
		{"friendly piece", "a2", ErrFriendlyFire},
		{"unreachable enemy", "h8", ErrInvalidTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ResolveAttack(b, player, rook, MustSquare(tt.target))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := r.ResolveAttack(b, player, rook, MustSquare("c3"))
	assert.ErrorIs(t, err, ErrEmptySquare, "no target wraps empty square")

	_, err = r.ResolveAttack(b, newPlayer(Black, 3), rook, MustSquare("a2"))
	assert.ErrorIs(t, err, ErrNotYourTurn)
	assert.Equal(t, 3, player.Coins)
}

func TestKingKillIsReported(t *testing.T) {
	r, _ := newResolver(DefaultEconomyRules())
	b := NewBoard()
	queen := put(t, b, White, Queen, "e1")
	king := put(t, b, Black, King, "e8")
	king.HP = 1

	res, err := r.ResolveAttack(b, newPlayer(White, 0), queen, MustSquare("e8"))
	require.NoError(t, err)
	assert.True(t, res.KingSlain)
	_, ok := b.KingOf(Black)
	assert.False(t, ok)
}
