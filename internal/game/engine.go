// Package game implements the battle chess auto-battler engine: board,
// movement, combat, economy, shop, cards and the phase controller.
package game

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine owns all game state and is its only mutator. It is not safe for
// concurrent use; callers serialize commands.
type Engine struct {
	rules       Rules
	catalog     *Catalog
	board       *Board
	validator   *MovementValidator
	combat      *CombatResolver
	economy     *Economy
	shop        *ShopGenerator
	consumables consumableSource
	rng         Rand

	players     [2]*Player
	phase       Phase
	round       int
	selected    Square
	hasSelected bool
	nextPieceID int

	events    *EventLog
	retention int
	newCardID func() string
	log       *zap.Logger
}

// Option configures an Engine at construction.
type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithRules(r Rules) Option { return func(e *Engine) { e.rules = r } }

// WithRand injects the shop's random source.
func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

func WithSeed(seed uint64) Option { return func(e *Engine) { e.rng = NewRand(seed) } }

// WithConsumables replaces the globally registered consumable factory.
func WithConsumables(kinds func() []string, factory func(string) (ConsumableHandler, error)) Option {
	return func(e *Engine) {
		e.consumables = consumableSource{kinds: kinds, factory: factory}
	}
}

func WithEventRetention(n int) Option { return func(e *Engine) { e.retention = n } }

// WithCardIDs overrides how stored card ids are minted.
func WithCardIDs(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newCardID = fn
		}
	}
}

// NewEngine creates an engine in the Setup phase with the initial layout.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		rules:     DefaultRules(),
		newCardID: uuid.NewString,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.rules.Validate(); err != nil {
		return nil, fmt.Errorf("game: invalid rules: %w", err)
	}
	catalog, err := NewCatalog(e.rules.Pieces)
	if err != nil {
		return nil, err
	}
	if e.rng == nil {
		e.rng = NewRand(uint64(uuid.New().ID()))
	}
	e.catalog = catalog
	e.validator = NewMovementValidator(catalog)
	e.economy = NewEconomy(e.rules.Economy)
	e.combat = NewCombatResolver(e.validator, e.economy)
	e.shop = NewShopGenerator(e.rules.Shop, catalog, e.rng, e.consumables.list)
	e.events = newEventLog(e.retention)
	e.reset()
	return e, nil
}

// Reset restores the initial layout, starting coins, round one and Setup. It
// is accepted in every phase. The event log is kept.
func (e *Engine) Reset() error {
	e.reset()
	e.emit(Event{Kind: EventReset, Note: "new game"})
	e.log.Info("game reset", zap.Int("coins", e.rules.Economy.StartingCoins))
	return nil
}

func (e *Engine) reset() {
	e.board = NewBoard()
	e.nextPieceID = 1
	for _, c := range []Color{White, Black} {
		e.players[c] = newPlayer(c, e.rules.Economy.StartingCoins)
	}
	e.round = 1
	e.phase = SetupPhase()
	e.clearSelection()

	setup := func(owner Color, king string, pawns ...string) {
		e.mustPlace(owner, King, king)
		for _, coord := range pawns {
			e.mustPlace(owner, Pawn, coord)
		}
	}
	setup(White, "c1", "b2", "c2", "d2", "e2")
	setup(Black, "f8", "e7", "f7", "g7", "h7")
}

func (e *Engine) mustPlace(owner Color, pt PieceType, coord string) {
	sq, ok := CoordToSquare(coord)
	if !ok {
		panic(fmt.Sprintf("game: bad layout square %q", coord))
	}
	if err := e.board.Place(e.spawn(owner, pt), sq); err != nil {
		panic(err)
	}
}

// spawn stamps a new piece with the next id.
func (e *Engine) spawn(owner Color, pt PieceType) *Piece {
	p := e.catalog.NewPiece(owner, pt)
	p.ID = e.nextPieceID
	e.nextPieceID++
	return p
}

func (e *Engine) Catalog() *Catalog { return e.catalog }

func (e *Engine) Rules() Rules { return e.rules }

func (e *Engine) Phase() Phase { return e.phase }

func (e *Engine) Round() int { return e.round }

// Coins returns the balance of player c.
func (e *Engine) Coins(c Color) int {
	if !c.Valid() {
		return 0
	}
	return e.players[c].Coins
}

// PieceAt exposes a copy of the piece on sq.
func (e *Engine) PieceAt(sq Square) (Piece, bool) {
	p, ok := e.board.PieceAt(sq)
	if !ok {
		return Piece{}, false
	}
	return *p, true
}

// Events returns the events logged after seq.
func (e *Engine) Events(since uint64) []Event { return e.events.Since(since) }

func (e *Engine) LastEventSeq() uint64 { return e.events.LastSeq() }

func (e *Engine) emit(ev Event) Event {
	ev.Round = e.round
	return e.events.append(ev)
}

func (e *Engine) setPhase(p Phase) {
	if p == e.phase {
		return
	}
	e.phase = p
	ev := Event{Kind: EventPhaseChanged, Note: p.String()}
	if active, ok := p.Active(); ok {
		ev.Player = ptr(active)
	}
	e.emit(ev)
	e.log.Debug("phase changed", zap.Stringer("phase", p), zap.Int("round", e.round))
}

func (e *Engine) clearSelection() {
	e.selected = 0
	e.hasSelected = false
}
