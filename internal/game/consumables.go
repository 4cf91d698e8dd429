package game

import (
	"errors"
	"slices"
)

var (
	consumableKinds   func() []string
	consumableFactory func(string) (ConsumableHandler, error)

	// ErrConsumableFactoryNotConfigured indicates no resolver has been registered.
	ErrConsumableFactoryNotConfigured = errors.New("game: consumable factory not configured")
	// ErrConsumableNotRegistered indicates the resolver has no handler for the kind.
	ErrConsumableNotRegistered = errors.New("game: consumable handler not registered")
)

// ConsumableContext is what a consumable sees when it is bought.
type ConsumableContext struct {
	Buyer   Color
	Slot    ShopSlot
	Catalog *Catalog
	Board   *Board
	Player  *Player
}

// ConsumableEffect is the change a consumable asks the engine to commit.
type ConsumableEffect struct {
	Grant []PieceType
	Coins int
	Note  string
}

// ConsumableHandler resolves a purchased consumable. Handlers must not
// mutate the context; the engine commits the returned effect.
type ConsumableHandler interface {
	Validate(ConsumableContext) error
	Apply(ConsumableContext) (ConsumableEffect, error)
}

// RegisterConsumableFactory installs the resolver used to list and construct
// consumable handlers.
func RegisterConsumableFactory(kinds func() []string, factory func(string) (ConsumableHandler, error)) {
	consumableKinds = kinds
	consumableFactory = factory
}

type consumableSource struct {
	kinds   func() []string
	factory func(string) (ConsumableHandler, error)
}

func (s consumableSource) list() []string {
	kinds := s.kinds
	if kinds == nil {
		kinds = consumableKinds
	}
	if kinds == nil {
		return nil
	}
	out := slices.Clone(kinds())
	slices.Sort(out)
	return out
}

func (s consumableSource) resolve(kind string) (ConsumableHandler, error) {
	factory := s.factory
	if factory == nil {
		factory = consumableFactory
	}
	if factory == nil {
		return nil, ErrConsumableFactoryNotConfigured
	}
	return factory(kind)
}
