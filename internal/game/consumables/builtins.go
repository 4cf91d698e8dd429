package consumables

import (
	"fmt"

	"battle_chess_tft/internal/game"
)

// Reinforcement adds a piece of the offered archetype to the buyer's reserve.
const Reinforcement = "reinforcement"

func init() {
	mustRegisterBuiltin(Reinforcement, newReinforcement)
}

func mustRegisterBuiltin(kind string, ctor func() game.ConsumableHandler) {
	if err := Register(kind, func() ConsumableHandler { return ctor() }); err != nil {
		panic(err)
	}
}

func newReinforcement() game.ConsumableHandler {
	return HandlerFuncs{
		ValidateFunc: func(ctx game.ConsumableContext) error {
			if ctx.Catalog == nil || !ctx.Catalog.Stats(ctx.Slot.Archetype).Purchasable {
				return fmt.Errorf("%w: %s cannot reinforce", game.ErrInvalidSlot, ctx.Slot.Archetype)
			}
			return nil
		},
		ApplyFunc: func(ctx game.ConsumableContext) (game.ConsumableEffect, error) {
			return game.ConsumableEffect{
				Grant: []game.PieceType{ctx.Slot.Archetype},
				Note:  fmt.Sprintf("reinforcement: %s joins the reserve", ctx.Slot.Archetype),
			}, nil
		},
	}
}
