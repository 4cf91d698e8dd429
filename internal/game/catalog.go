package game

import (
	"fmt"
	"strings"
)

// MoveRule identifies a movement pattern in the rule table.
type MoveRule uint8

const (
	RuleForwardStep MoveRule = iota
	RuleForwardDiagonal
	RuleLeap
	RuleDiagonalSlide
	RuleOrthogonalSlide
	RuleOmniSlide
	RuleOmniStep
)

var moveRuleNames = [...]string{
	RuleForwardStep:     "forward-step",
	RuleForwardDiagonal: "forward-diagonal",
	RuleLeap:            "leap",
	RuleDiagonalSlide:   "diagonal-slide",
	RuleOrthogonalSlide: "orthogonal-slide",
	RuleOmniSlide:       "omni-slide",
	RuleOmniStep:        "omni-step",
}

func (r MoveRule) String() string {
	if int(r) < len(moveRuleNames) {
		return moveRuleNames[r]
	}
	return fmt.Sprintf("rule(%d)", r)
}

func ParseMoveRule(s string) (MoveRule, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for i, name := range moveRuleNames {
		if name == needle {
			return MoveRule(i), true
		}
	}
	return 0, false
}

func (r MoveRule) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *MoveRule) UnmarshalText(text []byte) error {
	rule, ok := ParseMoveRule(string(text))
	if !ok {
		return fmt.Errorf("unknown move rule %q", text)
	}
	*r = rule
	return nil
}

// Stats are the base values of an archetype.
type Stats struct {
	HP          int      `json:"hp"`
	Attack      int      `json:"attack"`
	Cost        int      `json:"cost"`
	Purchasable bool     `json:"purchasable"`
	MoveRule    MoveRule `json:"moveRule"`
	AttackRule  MoveRule `json:"attackRule"`
}

// Catalog is the immutable archetype table.
type Catalog struct {
	stats [6]Stats
}

// DefaultStats returns the stock archetype table. Kings are never sold.
func DefaultStats() [6]Stats {
	return [6]Stats{
		Pawn:   {HP: 3, Attack: 1, Cost: 1, Purchasable: true, MoveRule: RuleForwardStep, AttackRule: RuleForwardStep},
		Knight: {HP: 6, Attack: 3, Cost: 3, Purchasable: true, MoveRule: RuleLeap, AttackRule: RuleLeap},
		Bishop: {HP: 5, Attack: 2, Cost: 3, Purchasable: true, MoveRule: RuleDiagonalSlide, AttackRule: RuleDiagonalSlide},
		Rook:   {HP: 8, Attack: 4, Cost: 5, Purchasable: true, MoveRule: RuleOrthogonalSlide, AttackRule: RuleOrthogonalSlide},
		Queen:  {HP: 10, Attack: 5, Cost: 9, Purchasable: true, MoveRule: RuleOmniSlide, AttackRule: RuleOmniSlide},
		King:   {HP: 12, Attack: 2, Cost: 0, Purchasable: false, MoveRule: RuleOmniStep, AttackRule: RuleOmniStep},
	}
}

func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultStats())
	if err != nil {
		panic(err)
	}
	return c
}

func NewCatalog(stats [6]Stats) (*Catalog, error) {
	for i, s := range stats {
		pt := PieceType(i)
		if s.HP <= 0 {
			return nil, fmt.Errorf("catalog: %s hp must be positive, got %d", pt, s.HP)
		}
		if s.Attack < 0 {
			return nil, fmt.Errorf("catalog: %s attack must not be negative, got %d", pt, s.Attack)
		}
		if s.Cost < 0 {
			return nil, fmt.Errorf("catalog: %s cost must not be negative, got %d", pt, s.Cost)
		}
		if int(s.MoveRule) >= len(moveRuleNames) || int(s.AttackRule) >= len(moveRuleNames) {
			return nil, fmt.Errorf("catalog: %s has unknown movement rule", pt)
		}
	}
	if stats[King].Purchasable {
		return nil, fmt.Errorf("catalog: king cannot be purchasable")
	}
	return &Catalog{stats: stats}, nil
}

func (c *Catalog) Stats(pt PieceType) Stats {
	if !pt.Valid() {
		return Stats{}
	}
	return c.stats[pt]
}

func (c *Catalog) Cost(pt PieceType) int { return c.Stats(pt).Cost }

// Purchasable lists the archetypes that may appear in the shop.
func (c *Catalog) Purchasable() []PieceType {
	out := make([]PieceType, 0, len(c.stats))
	for i, s := range c.stats {
		if s.Purchasable {
			out = append(out, PieceType(i))
		}
	}
	return out
}

// NewPiece stamps an unplaced piece with the archetype's base values. The
// caller assigns the ID.
func (c *Catalog) NewPiece(owner Color, pt PieceType) *Piece {
	s := c.Stats(pt)
	return &Piece{
		Owner:  owner,
		Type:   pt,
		HP:     s.HP,
		MaxHP:  s.HP,
		Attack: s.Attack,
		Cost:   s.Cost,
	}
}
