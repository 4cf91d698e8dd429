package game

import (
	"fmt"
	"strings"
)

type CardKind uint8

const (
	CardArrowVolley CardKind = iota
	CardDisarm
)

var AllCardKinds = []CardKind{CardArrowVolley, CardDisarm}

func (k CardKind) String() string {
	switch k {
	case CardArrowVolley:
		return "arrow_volley"
	case CardDisarm:
		return "disarm"
	default:
		return fmt.Sprintf("card(%d)", k)
	}
}

func ParseCardKind(s string) (CardKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "arrow_volley", "arrow-volley", "arrowvolley", "volley":
		return CardArrowVolley, true
	case "disarm":
		return CardDisarm, true
	default:
		return 0, false
	}
}

func (k CardKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *CardKind) UnmarshalText(text []byte) error {
	parsed, ok := ParseCardKind(string(text))
	if !ok {
		return fmt.Errorf("invalid card kind %q", string(text))
	}
	*k = parsed
	return nil
}

// CardTiming says whether a card resolves on purchase or is kept for later.
type CardTiming uint8

const (
	TimingImmediate CardTiming = iota
	TimingStored
)

func (t CardTiming) String() string {
	if t == TimingStored {
		return "stored"
	}
	return "immediate"
}

func (t CardTiming) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *CardTiming) UnmarshalText(text []byte) error {
	return unmarshalName(text, []CardTiming{TimingImmediate, TimingStored}, t)
}

type Card struct {
	Kind   CardKind   `json:"kind"`
	Name   string     `json:"name"`
	Timing CardTiming `json:"timing"`
	Cost   int        `json:"cost"`
	Effect string     `json:"effect"`
}

// CardEntry is a stored card in a player's inventory.
type CardEntry struct {
	ID   string `json:"id"`
	Card Card   `json:"card"`
}

// CardOf returns the definition of kind priced at cost.
func CardOf(kind CardKind, cost int) (Card, bool) {
	switch kind {
	case CardArrowVolley:
		return Card{
			Kind:   kind,
			Name:   "Arrow Volley",
			Timing: TimingImmediate,
			Cost:   cost,
			Effect: "Deal 1 damage to every enemy piece.",
		}, true
	case CardDisarm:
		return Card{
			Kind:   kind,
			Name:   "Disarm",
			Timing: TimingStored,
			Cost:   cost,
			Effect: "Set an enemy piece's attack to 0 permanently.",
		}, true
	default:
		return Card{}, false
	}
}

// VolleyHit records the damage one piece took from a volley.
type VolleyHit struct {
	Piece  *Piece
	Square Square
	Damage int
	Died   bool
}

type VolleyResult struct {
	Hits      []VolleyHit
	KingSlain bool
}

func (r VolleyResult) Killed() []*Piece {
	var out []*Piece
	for _, h := range r.Hits {
		if h.Died {
			out = append(out, h.Piece)
		}
	}
	return out
}

// ArrowVolley deals one damage to every enemy of buyer. The targets are fixed
// before any piece is removed.
func ArrowVolley(b *Board, buyer Color) VolleyResult {
	var targets []*Piece
	for p := range b.PiecesOf(buyer.Opposite()) {
		if p.Alive() {
			targets = append(targets, p)
		}
	}

	var res VolleyResult
	for _, p := range targets {
		sq := p.Square
		dealt := p.TakeDamage(1)
		hit := VolleyHit{Piece: p, Square: sq, Damage: dealt}
		if !p.Alive() {
			if _, err := b.Remove(sq); err == nil {
				hit.Died = true
				if p.Type == King {
					res.KingSlain = true
				}
			}
		}
		res.Hits = append(res.Hits, hit)
	}
	return res
}

// DisarmTarget checks that target holds an enemy of user and returns it.
func DisarmTarget(b *Board, user Color, target Square) (*Piece, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %w: %d", ErrInvalidTarget, ErrOutOfBounds, target)
	}
	p, ok := b.PieceAt(target)
	if !ok {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidTarget, target)
	}
	if p.Owner == user {
		return nil, fmt.Errorf("%w: %s is friendly", ErrInvalidTarget, target)
	}
	return p, nil
}

// Disarm zeroes the attack of p for the rest of the game.
func Disarm(p *Piece) {
	p.Attack = 0
	p.Disarmed = true
}
