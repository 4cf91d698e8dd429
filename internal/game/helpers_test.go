package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	eng, err := NewEngine(append([]Option{WithSeed(42)}, opts...)...)
	require.NoError(t, err)
	return eng
}

// put places a fresh catalog piece for owner on coord.
func put(t *testing.T, b *Board, owner Color, pt PieceType, coord string) *Piece {
	t.Helper()
	p := DefaultCatalog().NewPiece(owner, pt)
	require.NoError(t, b.Place(p, MustSquare(coord)))
	return p
}

func squaresOf(coords ...string) Bitboard {
	var bb Bitboard
	for _, c := range coords {
		bb = bb.Add(MustSquare(c))
	}
	return bb
}

// battleOn clears the engine's board and starts a battle with White to move.
func battleOn(t *testing.T, eng *Engine, mode Mode) {
	t.Helper()
	eng.board = NewBoard()
	eng.phase = BattlePhase(White, mode)
}
