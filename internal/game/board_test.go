package game

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardPlaceRejectsOccupiedAndOutOfBounds(t *testing.T) {
	b := NewBoard()
	put(t, b, White, Rook, "a1")

	err := b.Place(DefaultCatalog().NewPiece(Black, Pawn), MustSquare("a1"))
	assert.True(t, errors.Is(err, ErrOccupiedSquare), "got %v", err)

	err = b.Place(DefaultCatalog().NewPiece(Black, Pawn), Square(64))
	assert.True(t, errors.Is(err, ErrOutOfBounds), "got %v", err)
}

func TestBoardRemoveFreesSquare(t *testing.T) {
	b := NewBoard()
	rook := put(t, b, White, Rook, "d4")

	got, err := b.Remove(MustSquare("d4"))
	require.NoError(t, err)
	assert.Same(t, rook, got)

	_, ok := b.PieceAt(MustSquare("d4"))
	assert.False(t, ok)
	assert.True(t, b.Occupancy().Empty())

	_, err = b.Remove(MustSquare("d4"))
	assert.ErrorIs(t, err, ErrEmptySquare)
	_, err = b.Remove(Square(99))
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestBoardRelocateKeepsBitboardsInSync(t *testing.T) {
	b := NewBoard()
	put(t, b, White, Knight, "b1")
	require.NoError(t, b.Relocate(MustSquare("b1"), MustSquare("c3")))

	p, ok := b.PieceAt(MustSquare("c3"))
	require.True(t, ok)
	assert.Equal(t, MustSquare("c3"), p.Square)
	assert.Equal(t, squaresOf("c3"), b.OccupancyOf(White))
	assert.Equal(t, squaresOf("c3"), b.pieces[White][Knight])
}

func TestPiecesOfIsRestartableAndLive(t *testing.T) {
	b := NewBoard()
	put(t, b, White, Pawn, "a2")
	put(t, b, White, King, "e1")
	put(t, b, Black, King, "e8")

	first := slices.Collect(b.PiecesOf(White))
	second := slices.Collect(b.PiecesOf(White))
	require.Len(t, first, 2)
	assert.Equal(t, first, second)

	seq := b.PiecesOf(White)
	_, err := b.Remove(MustSquare("a2"))
	require.NoError(t, err)
	assert.Len(t, slices.Collect(seq), 1, "sequence must reflect current occupancy")

	for p := range b.PiecesOf(Black) {
		assert.Equal(t, Black, p.Owner)
	}
}

func TestKingOf(t *testing.T) {
	b := NewBoard()
	put(t, b, Black, King, "f8")
	k, ok := b.KingOf(Black)
	require.True(t, ok)
	assert.Equal(t, "f8", k.Square.String())

	_, ok = b.KingOf(White)
	assert.False(t, ok)
}
