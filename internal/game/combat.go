package game

import "fmt"

// CombatResult describes one resolved attack.
type CombatResult struct {
	Attacker  *Piece
	Target    *Piece
	From      Square
	To        Square
	Damage    int
	Died      bool
	Reward    int
	KingSlain bool
}

// CombatResolver applies attacks. It owns no state.
type CombatResolver struct {
	validator *MovementValidator
	economy   *Economy
}

func NewCombatResolver(v *MovementValidator, econ *Economy) *CombatResolver {
	return &CombatResolver{validator: v, economy: econ}
}

// Check reports whether attacker may strike target without changing
// anything, and returns the defender.
func (r *CombatResolver) Check(b *Board, attacker *Piece, target Square) (*Piece, error) {
	if !attacker.Alive() {
		return nil, fmt.Errorf("%w: no attacker", ErrEmptySquare)
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrOutOfBounds, target)
	}
	defender, ok := b.PieceAt(target)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTarget, target)
	}
	if defender.Owner == attacker.Owner {
		return nil, fmt.Errorf("%w: %s attacks own %s on %s", ErrFriendlyFire, attacker.Type, defender.Type, target)
	}
	if !r.validator.CanAttack(b, attacker, target) {
		return nil, fmt.Errorf("%w: %s on %s cannot reach %s", ErrInvalidTarget, attacker.Type, attacker.Square, target)
	}
	return defender, nil
}

// ResolveAttack strikes target with attacker. A defender brought to zero HP
// leaves the board and owner collects the kill reward.
func (r *CombatResolver) ResolveAttack(b *Board, owner *Player, attacker *Piece, target Square) (CombatResult, error) {
	if owner == nil || attacker == nil || attacker.Owner != owner.Color {
		return CombatResult{}, fmt.Errorf("%w: attacker does not belong to the acting player", ErrNotYourTurn)
	}
	defender, err := r.Check(b, attacker, target)
	if err != nil {
		return CombatResult{}, err
	}

	res := CombatResult{
		Attacker: attacker,
		Target:   defender,
		From:     attacker.Square,
		To:       target,
	}
	res.Damage = defender.TakeDamage(attacker.Attack)
	if defender.Alive() {
		return res, nil
	}
	if _, err := b.Remove(target); err != nil {
		return res, err
	}
	res.Died = true
	res.Reward = r.economy.GrantKillReward(owner, defender)
	res.KingSlain = defender.Type == King
	return res, nil
}
