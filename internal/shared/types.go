package shared

import (
	"fmt"
	"strings"
)

// Color identifies a player. White is player one and moves first in battle.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool { return c == White || c == Black }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Forward is the rank step a pawn of this color takes when advancing.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w", "1", "player1":
		return White, true
	case "black", "b", "2", "player2":
		return Black, true
	default:
		return 0, false
	}
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	parsed, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("invalid color %q", string(text))
	}
	*c = parsed
	return nil
}

// PieceType is the archetype of a piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

var AllPieceTypes = []PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return fmt.Sprintf("piece(%d)", p)
	}
}

// Symbol returns the single-letter algebraic symbol.
func (p PieceType) Symbol() string {
	switch p {
	case Pawn:
		return "P"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return "?"
	}
}

func (p PieceType) Valid() bool { return p <= King }

func ParsePieceType(s string) (PieceType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "pawn":
		return Pawn, true
	case "n", "knight":
		return Knight, true
	case "b", "bishop":
		return Bishop, true
	case "r", "rook":
		return Rook, true
	case "q", "queen":
		return Queen, true
	case "k", "king":
		return King, true
	default:
		return 0, false
	}
}

func (p PieceType) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *PieceType) UnmarshalText(text []byte) error {
	parsed, ok := ParsePieceType(string(text))
	if !ok {
		return fmt.Errorf("invalid piece type %q", string(text))
	}
	*p = parsed
	return nil
}

// Square indexes the board rank-major: a1 = 0, h1 = 7, a8 = 56, h8 = 63.
// Values of 64 and above are off the board.
type Square uint8

const NumSquares = 64

func (s Square) Rank() int { return int(s) >> 3 }
func (s Square) File() int { return int(s) & 7 }

func (s Square) Valid() bool { return s < NumSquares }

func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("square(%d)", uint8(s))
	}
	file := byte('a' + s.File())
	rank := byte('1' + s.Rank())
	return string([]byte{file, rank})
}

func CoordToSquare(coord string) (Square, bool) {
	coord = strings.ToLower(strings.TrimSpace(coord))
	if len(coord) != 2 {
		return 0, false
	}
	file := coord[0]
	rank := coord[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, false
	}
	r := int(rank - '1')
	c := int(file - 'a')
	return Square(r*8 + c), true
}

func SquareFromCoords(rank, file int) (Square, bool) {
	if rank < 0 || rank > 7 || file < 0 || file > 7 {
		return 0, false
	}
	return Square(rank*8 + file), true
}

// MustSquare parses an algebraic coordinate and panics on failure. Intended
// for tables and tests.
func MustSquare(coord string) Square {
	sq, ok := CoordToSquare(coord)
	if !ok {
		panic(fmt.Sprintf("invalid square %q", coord))
	}
	return sq
}

func (s Square) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Square) UnmarshalText(text []byte) error {
	sq, ok := CoordToSquare(string(text))
	if !ok {
		return fmt.Errorf("invalid square %q", string(text))
	}
	*s = sq
	return nil
}
