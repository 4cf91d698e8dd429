package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordToSquareRoundTrip(t *testing.T) {
	for idx := 0; idx < NumSquares; idx++ {
		sq := Square(idx)
		parsed, ok := CoordToSquare(sq.String())
		require.True(t, ok, "parse %s", sq)
		assert.Equal(t, sq, parsed)
	}
}

func TestCoordToSquareRejectsGarbage(t *testing.T) {
	for _, coord := range []string{"", "i1", "a9", "a0", "e44", "4e"} {
		_, ok := CoordToSquare(coord)
		assert.False(t, ok, coord)
	}
	sq, ok := CoordToSquare(" E4 ")
	require.True(t, ok)
	assert.Equal(t, "e4", sq.String())
}

func TestSquareOffsetStaysOnBoard(t *testing.T) {
	h8 := MustSquare("h8")
	_, ok := h8.Step(DirN)
	assert.False(t, ok)
	_, ok = h8.Step(DirE)
	assert.False(t, ok)

	g7, ok := h8.Step(DirSW)
	require.True(t, ok)
	assert.Equal(t, "g7", g7.String())

	_, ok = Square(70).Offset(0, 0)
	assert.False(t, ok)
}

func TestRayStopsAtEdge(t *testing.T) {
	ray := Ray(MustSquare("a1"), DirNE)
	require.Len(t, ray, 7)
	assert.Equal(t, "h8", ray[len(ray)-1].String())
	assert.Empty(t, Ray(MustSquare("a1"), DirS))
}

func TestPawnForward(t *testing.T) {
	assert.Equal(t, 1, White.Forward())
	assert.Equal(t, -1, Black.Forward())
	assert.Equal(t, Black, White.Opposite())
}

func TestParsePieceType(t *testing.T) {
	for _, pt := range AllPieceTypes {
		parsed, ok := ParsePieceType(pt.String())
		require.True(t, ok)
		assert.Equal(t, pt, parsed)
		parsed, ok = ParsePieceType(pt.Symbol())
		require.True(t, ok)
		assert.Equal(t, pt, parsed)
	}
	_, ok := ParsePieceType("dragon")
	assert.False(t, ok)
}
