package game

import (
	"errors"
	"fmt"
)

// Rules gathers every tunable of a game. The zero value is not usable; start
// from DefaultRules.
type Rules struct {
	Pieces      [6]Stats
	Economy     EconomyRules
	Shop        ShopRules
	DeployRanks int
}

func DefaultRules() Rules {
	return Rules{
		Pieces:      DefaultStats(),
		Economy:     DefaultEconomyRules(),
		Shop:        DefaultShopRules(),
		DeployRanks: 3,
	}
}

// Validate reports every problem with r at once.
func (r Rules) Validate() error {
	var errs []error
	if _, err := NewCatalog(r.Pieces); err != nil {
		errs = append(errs, err)
	}
	if err := r.Economy.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := r.Shop.validate(r.Pieces); err != nil {
		errs = append(errs, err)
	}
	if r.DeployRanks < 1 || r.DeployRanks > 4 {
		errs = append(errs, fmt.Errorf("deploy ranks must be within 1..4, got %d", r.DeployRanks))
	}
	return errors.Join(errs...)
}
