package game

import (
	"fmt"
	"math/rand/v2"
)

// Rand is the randomness the shop draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a deterministic PCG stream for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type OfferKind uint8

const (
	OfferPiece OfferKind = iota
	OfferCard
	OfferConsumable
)

func (k OfferKind) String() string {
	switch k {
	case OfferPiece:
		return "piece"
	case OfferCard:
		return "card"
	case OfferConsumable:
		return "consumable"
	default:
		return fmt.Sprintf("offer(%d)", k)
	}
}

func (k OfferKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *OfferKind) UnmarshalText(text []byte) error {
	return unmarshalName(text, []OfferKind{OfferPiece, OfferCard, OfferConsumable}, k)
}

// ShopSlot is one offer. Archetype is set for piece and consumable offers,
// Card for card offers and Consumable for consumable offers.
type ShopSlot struct {
	Kind       OfferKind `json:"kind"`
	Archetype  PieceType `json:"archetype"`
	Card       Card      `json:"card"`
	Consumable string    `json:"consumable,omitempty"`
	Cost       int       `json:"cost"`
	Purchased  bool      `json:"purchased"`
}

func (s ShopSlot) String() string {
	switch s.Kind {
	case OfferPiece:
		return fmt.Sprintf("piece:%s(%d)", s.Archetype, s.Cost)
	case OfferCard:
		return fmt.Sprintf("card:%s(%d)", s.Card.Kind, s.Cost)
	default:
		return fmt.Sprintf("consumable:%s:%s(%d)", s.Consumable, s.Archetype, s.Cost)
	}
}

type ShopRules struct {
	Slots int
	// Every is the shop cadence: round r opens the shop when r%Every == 1.
	Every            int
	PieceWeight      int
	CardWeight       int
	ConsumableWeight int
	ArchetypeWeights [6]int
	CardCost         int
}

func DefaultShopRules() ShopRules {
	return ShopRules{
		Slots:            5,
		Every:            3,
		PieceWeight:      50,
		CardWeight:       30,
		ConsumableWeight: 20,
		ArchetypeWeights: [6]int{Pawn: 40, Knight: 25, Bishop: 20, Rook: 10, Queen: 5},
		CardCost:         3,
	}
}

func (r ShopRules) validate(stats [6]Stats) error {
	switch {
	case r.Slots <= 0:
		return fmt.Errorf("shop: slots must be positive, got %d", r.Slots)
	case r.Every <= 0:
		return fmt.Errorf("shop: cadence must be positive, got %d", r.Every)
	case r.PieceWeight < 0 || r.CardWeight < 0 || r.ConsumableWeight < 0:
		return fmt.Errorf("shop: offer weights must not be negative")
	case r.PieceWeight+r.CardWeight+r.ConsumableWeight == 0:
		return fmt.Errorf("shop: offer weights must not all be zero")
	case r.CardCost < 0:
		return fmt.Errorf("shop: card cost must not be negative, got %d", r.CardCost)
	}
	total := 0
	for i, w := range r.ArchetypeWeights {
		if w < 0 {
			return fmt.Errorf("shop: %s weight must not be negative", PieceType(i))
		}
		if w > 0 && !stats[i].Purchasable {
			return fmt.Errorf("shop: %s is not purchasable but has weight %d", PieceType(i), w)
		}
		total += w
	}
	if total == 0 && (r.PieceWeight > 0 || r.ConsumableWeight > 0) {
		return fmt.Errorf("shop: archetype weights must not all be zero")
	}
	return nil
}

// IsShopRound reports whether round opens the shop.
func (r ShopRules) IsShopRound(round int) bool {
	if r.Every <= 1 {
		return true
	}
	return round%r.Every == 1
}

// ShopGenerator draws shop offers.
type ShopGenerator struct {
	rules       ShopRules
	catalog     *Catalog
	rng         Rand
	consumables func() []string
}

func NewShopGenerator(rules ShopRules, catalog *Catalog, rng Rand, consumables func() []string) *ShopGenerator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if rng == nil {
		rng = NewRand(1)
	}
	return &ShopGenerator{rules: rules, catalog: catalog, rng: rng, consumables: consumables}
}

func (g *ShopGenerator) Rules() ShopRules { return g.rules }

// Generate draws a fresh set of slots, each independent of the others.
func (g *ShopGenerator) Generate() []ShopSlot {
	var kinds []string
	if g.consumables != nil {
		kinds = g.consumables()
	}
	slots := make([]ShopSlot, g.rules.Slots)
	for i := range slots {
		slots[i] = g.drawSlot(kinds)
	}
	return slots
}

func (g *ShopGenerator) drawSlot(consumables []string) ShopSlot {
	consumableWeight := g.rules.ConsumableWeight
	if len(consumables) == 0 {
		consumableWeight = 0
	}
	total := g.rules.PieceWeight + g.rules.CardWeight + consumableWeight
	roll := g.rng.Float64() * float64(total)

	switch {
	case roll < float64(g.rules.PieceWeight):
		pt := g.drawArchetype()
		return ShopSlot{Kind: OfferPiece, Archetype: pt, Cost: g.catalog.Cost(pt)}
	case roll < float64(g.rules.PieceWeight+g.rules.CardWeight) || consumableWeight == 0:
		kind := AllCardKinds[g.rng.IntN(len(AllCardKinds))]
		card, _ := CardOf(kind, g.rules.CardCost)
		return ShopSlot{Kind: OfferCard, Card: card, Cost: card.Cost}
	default:
		name := consumables[g.rng.IntN(len(consumables))]
		pt := g.drawArchetype()
		return ShopSlot{Kind: OfferConsumable, Consumable: name, Archetype: pt, Cost: g.catalog.Cost(pt)}
	}
}

func (g *ShopGenerator) drawArchetype() PieceType {
	total := 0
	for _, w := range g.rules.ArchetypeWeights {
		total += w
	}
	if total <= 0 {
		return Pawn
	}
	roll := g.rng.IntN(total)
	for i, w := range g.rules.ArchetypeWeights {
		if roll < w {
			return PieceType(i)
		}
		roll -= w
	}
	return Pawn
}
