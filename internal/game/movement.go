package game

import "battle_chess_tft/internal/shared"

type moveDelta struct {
	dr int
	df int
}

var (
	knightOffsets = [...]moveDelta{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets = [...]moveDelta{
		{1, 0}, {1, 1}, {0, 1}, {-1, 1},
		{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	}
)

// rulePattern describes how a rule reaches squares: a fixed set of steps, or
// slides along rays until the first occupied square.
type rulePattern struct {
	steps    func(owner Color) []moveDelta
	slides   []Direction
	slidable bool
}

var rulePatterns = [...]rulePattern{
	RuleForwardStep: {steps: func(owner Color) []moveDelta {
		return []moveDelta{{owner.Forward(), 0}}
	}},
	RuleForwardDiagonal: {steps: func(owner Color) []moveDelta {
		return []moveDelta{{owner.Forward(), -1}, {owner.Forward(), 1}}
	}},
	RuleLeap: {steps: func(Color) []moveDelta { return knightOffsets[:] }},
	RuleDiagonalSlide:   {slides: shared.Diagonals, slidable: true},
	RuleOrthogonalSlide: {slides: shared.Orthogonals, slidable: true},
	RuleOmniSlide:       {slides: shared.AllDirections, slidable: true},
	RuleOmniStep: {steps: func(Color) []moveDelta { return kingOffsets[:] }},
}

// MovementValidator computes legal destinations from the catalog's rule
// table. It holds no game state.
type MovementValidator struct {
	catalog *Catalog
}

func NewMovementValidator(c *Catalog) *MovementValidator {
	if c == nil {
		c = DefaultCatalog()
	}
	return &MovementValidator{catalog: c}
}

// Destinations returns the legal squares for p in mode m.
func (v *MovementValidator) Destinations(b *Board, p *Piece, m Mode) Bitboard {
	if m == ModeAttack {
		return v.AttackDestinations(b, p)
	}
	return v.MoveDestinations(b, p)
}

// MoveDestinations lists the empty squares p may move to.
func (v *MovementValidator) MoveDestinations(b *Board, p *Piece) Bitboard {
	if !p.Alive() {
		return 0
	}
	quiet, _ := reach(b, p, v.catalog.Stats(p.Type).MoveRule)
	return quiet
}

// AttackDestinations lists the squares holding an enemy piece that p may
// strike. Sliders stop at the first piece they meet.
func (v *MovementValidator) AttackDestinations(b *Board, p *Piece) Bitboard {
	if !p.Alive() {
		return 0
	}
	_, contacts := reach(b, p, v.catalog.Stats(p.Type).AttackRule)
	return contacts & b.OccupancyOf(p.Owner.Opposite())
}

func (v *MovementValidator) CanMove(b *Board, p *Piece, to Square) bool {
	return v.MoveDestinations(b, p).Has(to)
}

func (v *MovementValidator) CanAttack(b *Board, p *Piece, to Square) bool {
	return v.AttackDestinations(b, p).Has(to)
}

// reach walks rule from p's square. quiet holds the empty squares reached,
// contacts the occupied squares where the walk stopped.
func reach(b *Board, p *Piece, rule MoveRule) (quiet, contacts Bitboard) {
	if int(rule) >= len(rulePatterns) {
		return 0, 0
	}
	pattern := rulePatterns[rule]
	from := p.Square
	occ := b.Occupancy()

	if pattern.slidable {
		for _, dir := range pattern.slides {
			for _, sq := range shared.Ray(from, dir) {
				if occ.Has(sq) {
					contacts = contacts.Add(sq)
					break
				}
				quiet = quiet.Add(sq)
			}
		}
		return quiet, contacts
	}

	for _, delta := range pattern.steps(p.Owner) {
		target, ok := from.Offset(delta.dr, delta.df)
		if !ok {
			continue
		}
		if occ.Has(target) {
			contacts = contacts.Add(target)
		} else {
			quiet = quiet.Add(target)
		}
	}
	return quiet, contacts
}
