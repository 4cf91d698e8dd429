package game

import (
	"fmt"
	"strings"
)

// RewardMode selects how kill rewards are computed.
type RewardMode uint8

const (
	RewardFixed RewardMode = iota
	RewardHalfCost
)

func (m RewardMode) String() string {
	if m == RewardHalfCost {
		return "half_cost"
	}
	return "fixed"
}

func ParseRewardMode(s string) (RewardMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "":
		return RewardFixed, true
	case "half_cost", "half-cost":
		return RewardHalfCost, true
	default:
		return RewardFixed, false
	}
}

type EconomyRules struct {
	StartingCoins    int
	RoundIncome      int
	VictoryBonus     int
	KillReward       RewardMode
	KillRewardAmount int
	// VolleyKillReward pays kill rewards for pieces finished by Arrow Volley.
	VolleyKillReward bool
}

func DefaultEconomyRules() EconomyRules {
	return EconomyRules{
		StartingCoins:    3,
		RoundIncome:      1,
		VictoryBonus:     3,
		KillReward:       RewardFixed,
		KillRewardAmount: 1,
	}
}

func (r EconomyRules) validate() error {
	switch {
	case r.StartingCoins < 0:
		return fmt.Errorf("economy: starting coins must not be negative, got %d", r.StartingCoins)
	case r.RoundIncome < 0:
		return fmt.Errorf("economy: round income must not be negative, got %d", r.RoundIncome)
	case r.VictoryBonus < 0:
		return fmt.Errorf("economy: victory bonus must not be negative, got %d", r.VictoryBonus)
	case r.KillRewardAmount < 0:
		return fmt.Errorf("economy: kill reward must not be negative, got %d", r.KillRewardAmount)
	}
	return nil
}

// Economy applies the coin rules to players. Balances never go negative.
type Economy struct {
	rules EconomyRules
}

func NewEconomy(rules EconomyRules) *Economy { return &Economy{rules: rules} }

func (e *Economy) Rules() EconomyRules { return e.rules }

func (e *Economy) CanAfford(p *Player, amount int) bool {
	return p != nil && amount >= 0 && p.Coins >= amount
}

// Deduct removes amount from p and returns the new balance. Nothing is taken
// when p cannot afford the full amount.
func (e *Economy) Deduct(p *Player, amount int) (int, error) {
	if p == nil {
		return 0, fmt.Errorf("%w: no player", ErrInsufficientFunds)
	}
	if amount < 0 {
		return p.Coins, fmt.Errorf("deduct: negative amount %d", amount)
	}
	if p.Coins < amount {
		return p.Coins, fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, amount, p.Coins)
	}
	p.Coins -= amount
	return p.Coins, nil
}

// GrantRoundIncome pays the end-of-round income to every player given.
func (e *Economy) GrantRoundIncome(players ...*Player) {
	for _, p := range players {
		e.credit(p, e.rules.RoundIncome)
	}
}

// KillReward is the bounty for removing victim.
func (e *Economy) KillReward(victim *Piece) int {
	if victim == nil {
		return 0
	}
	if e.rules.KillReward == RewardHalfCost {
		return max(victim.Cost/2, 1)
	}
	return e.rules.KillRewardAmount
}

// GrantKillReward credits p for removing victim and returns the amount paid.
func (e *Economy) GrantKillReward(p *Player, victim *Piece) int {
	return e.credit(p, e.KillReward(victim))
}

func (e *Economy) GrantVictoryBonus(p *Player) int {
	return e.credit(p, e.rules.VictoryBonus)
}

func (e *Economy) credit(p *Player, amount int) int {
	if p == nil || amount <= 0 {
		return 0
	}
	p.Coins += amount
	return amount
}
