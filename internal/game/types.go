package game

import (
	"fmt"

	"battle_chess_tft/internal/shared"
)

type (
	Color     = shared.Color
	PieceType = shared.PieceType
	Square    = shared.Square
	Direction = shared.Direction
)

const (
	White = shared.White
	Black = shared.Black

	Pawn   = shared.Pawn
	Knight = shared.Knight
	Bishop = shared.Bishop
	Rook   = shared.Rook
	Queen  = shared.Queen
	King   = shared.King
)

// Piece is a unit on the board or in a player's reserve.
type Piece struct {
	ID       int
	Owner    Color
	Type     PieceType
	HP       int
	MaxHP    int
	Attack   int
	Cost     int
	Square   Square
	Disarmed bool
}

func (p *Piece) Alive() bool { return p != nil && p.HP > 0 }

// TakeDamage lowers HP by amount, clamped at zero, and returns the damage
// actually dealt.
func (p *Piece) TakeDamage(amount int) int {
	if amount <= 0 || p.HP <= 0 {
		return 0
	}
	if amount > p.HP {
		amount = p.HP
	}
	p.HP -= amount
	return amount
}

// Mode is the battle action mode of the active player.
type Mode uint8

const (
	ModeMove Mode = iota
	ModeAttack
)

func (m Mode) String() string {
	if m == ModeAttack {
		return "attack"
	}
	return "move"
}

func (m Mode) Toggle() Mode {
	if m == ModeAttack {
		return ModeMove
	}
	return ModeAttack
}

func ParseMode(s string) (Mode, bool) {
	switch s {
	case "move", "Move", "MOVE":
		return ModeMove, true
	case "attack", "Attack", "ATTACK":
		return ModeAttack, true
	default:
		return ModeMove, false
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, ok := ParseMode(string(text))
	if !ok {
		return fmt.Errorf("invalid mode %q", string(text))
	}
	*m = parsed
	return nil
}

// unmarshalName sets *dst to the value in values whose String form is text.
func unmarshalName[T fmt.Stringer](text []byte, values []T, dst *T) error {
	for _, v := range values {
		if v.String() == string(text) {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("invalid %T %q", *dst, string(text))
}

func CoordToSquare(coord string) (Square, bool) { return shared.CoordToSquare(coord) }

func MustSquare(coord string) Square { return shared.MustSquare(coord) }
