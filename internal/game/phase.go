package game

import "fmt"

type PhaseKind uint8

const (
	PhaseSetup PhaseKind = iota
	PhaseShop
	PhaseBattle
	PhaseEndRound
	PhaseGameOver
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseSetup:
		return "setup"
	case PhaseShop:
		return "shop"
	case PhaseBattle:
		return "battle"
	case PhaseEndRound:
		return "end_round"
	case PhaseGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("phase(%d)", k)
	}
}

func (k PhaseKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PhaseKind) UnmarshalText(text []byte) error {
	return unmarshalName(text, []PhaseKind{PhaseSetup, PhaseShop, PhaseBattle, PhaseEndRound, PhaseGameOver}, k)
}

// Phase is the controller state. Battle carries the active player and mode,
// GameOver carries the winner; other phases carry nothing.
type Phase struct {
	kind   PhaseKind
	active Color
	mode   Mode
	winner Color
}

func SetupPhase() Phase    { return Phase{kind: PhaseSetup} }
func ShopPhase() Phase     { return Phase{kind: PhaseShop} }
func EndRoundPhase() Phase { return Phase{kind: PhaseEndRound} }

func BattlePhase(active Color, mode Mode) Phase {
	return Phase{kind: PhaseBattle, active: active, mode: mode}
}

func GameOverPhase(winner Color) Phase {
	return Phase{kind: PhaseGameOver, winner: winner}
}

func (p Phase) Kind() PhaseKind { return p.kind }

func (p Phase) Is(k PhaseKind) bool { return p.kind == k }

// Battle returns the active player and mode while in battle.
func (p Phase) Battle() (active Color, mode Mode, ok bool) {
	if p.kind != PhaseBattle {
		return 0, 0, false
	}
	return p.active, p.mode, true
}

func (p Phase) Mode() (Mode, bool) {
	_, m, ok := p.Battle()
	return m, ok
}

func (p Phase) Active() (Color, bool) {
	c, _, ok := p.Battle()
	return c, ok
}

func (p Phase) Winner() (Color, bool) {
	if p.kind != PhaseGameOver {
		return 0, false
	}
	return p.winner, true
}

func (p Phase) String() string {
	switch p.kind {
	case PhaseBattle:
		return fmt.Sprintf("battle(%s,%s)", p.active, p.mode)
	case PhaseGameOver:
		return fmt.Sprintf("game_over(%s)", p.winner)
	default:
		return p.kind.String()
	}
}
