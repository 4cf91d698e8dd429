package game

import (
	"fmt"

	"go.uber.org/zap"
)

// Every command validates fully before it changes anything; a rejected
// command leaves the engine untouched.

// Select marks a piece of the active player as the focus for destination
// queries.
func (e *Engine) Select(sq Square) (Piece, error) {
	active, _, ok := e.phase.Battle()
	if !ok {
		return Piece{}, fmt.Errorf("%w: select during %s", ErrWrongPhase, e.phase)
	}
	p, err := e.ownPiece(active, sq)
	if err != nil {
		return Piece{}, err
	}
	e.selected = sq
	e.hasSelected = true
	e.emit(Event{Kind: EventSelected, Player: ptr(active), From: ptr(sq), PieceID: p.ID, Archetype: ptr(p.Type)})
	return *p, nil
}

// SetMode switches the active player between moving and attacking.
func (e *Engine) SetMode(m Mode) error {
	active, current, ok := e.phase.Battle()
	if !ok {
		return fmt.Errorf("%w: mode change during %s", ErrWrongPhase, e.phase)
	}
	if m != ModeMove && m != ModeAttack {
		return fmt.Errorf("%w: unknown mode %d", ErrWrongPhase, m)
	}
	if m == current {
		return nil
	}
	e.setPhase(BattlePhase(active, m))
	e.emit(Event{Kind: EventModeChanged, Player: ptr(active), Note: m.String()})
	return nil
}

func (e *Engine) ToggleMode() error {
	_, current, ok := e.phase.Battle()
	if !ok {
		return fmt.Errorf("%w: mode change during %s", ErrWrongPhase, e.phase)
	}
	return e.SetMode(current.Toggle())
}

// Move relocates the active player's piece to an empty reachable square and
// passes the turn.
func (e *Engine) Move(from, to Square) error {
	active, mode, ok := e.phase.Battle()
	if !ok {
		return fmt.Errorf("%w: move during %s", ErrWrongPhase, e.phase)
	}
	if mode != ModeMove {
		return fmt.Errorf("%w: move while in %s mode", ErrWrongPhase, mode)
	}
	p, err := e.ownPiece(active, from)
	if err != nil {
		return err
	}
	if !to.Valid() {
		return fmt.Errorf("%w: %d", ErrOutOfBounds, to)
	}
	if _, taken := e.board.PieceAt(to); taken {
		return fmt.Errorf("%w: %s", ErrOccupiedSquare, to)
	}
	if !e.validator.CanMove(e.board, p, to) {
		return fmt.Errorf("%w: %s cannot move %s -> %s", ErrInvalidDestination, p.Type, from, to)
	}

	if err := e.board.Relocate(from, to); err != nil {
		return err
	}
	e.emit(Event{Kind: EventMoved, Player: ptr(active), From: ptr(from), To: ptr(to), PieceID: p.ID, Archetype: ptr(p.Type)})
	e.log.Debug("piece moved",
		zap.Stringer("player", active),
		zap.Stringer("piece", p.Type),
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	e.passTurn(active)
	return nil
}

// Attack strikes the enemy on to with the active player's piece on from.
func (e *Engine) Attack(from, to Square) (CombatResult, error) {
	active, mode, ok := e.phase.Battle()
	if !ok {
		return CombatResult{}, fmt.Errorf("%w: attack during %s", ErrWrongPhase, e.phase)
	}
	if mode != ModeAttack {
		return CombatResult{}, fmt.Errorf("%w: attack while in %s mode", ErrWrongPhase, mode)
	}
	attacker, err := e.ownPiece(active, from)
	if err != nil {
		return CombatResult{}, err
	}
	player := e.players[active]
	res, err := e.combat.ResolveAttack(e.board, player, attacker, to)
	if err != nil {
		return CombatResult{}, err
	}

	e.emit(Event{
		Kind:      EventAttacked,
		Player:    ptr(active),
		From:      ptr(from),
		To:        ptr(to),
		PieceID:   res.Target.ID,
		Archetype: ptr(res.Target.Type),
		Amount:    res.Damage,
		HP:        ptr(res.Target.HP),
	})
	e.log.Debug("attack resolved",
		zap.Stringer("player", active),
		zap.Stringer("attacker", attacker.Type),
		zap.Stringer("target", res.Target.Type),
		zap.Int("damage", res.Damage),
		zap.Int("hp", res.Target.HP))

	if res.Died {
		e.emit(Event{Kind: EventPieceKilled, Player: ptr(res.Target.Owner), To: ptr(to), PieceID: res.Target.ID, Archetype: ptr(res.Target.Type)})
		e.emitCoins(active, res.Reward, "kill reward")
	}
	if res.KingSlain {
		e.finish(active)
		return res, nil
	}
	e.passTurn(active)
	return res, nil
}

// Buy purchases slot for player during the shop.
func (e *Engine) Buy(player Color, slot int) (ShopSlot, error) {
	if !e.phase.Is(PhaseShop) {
		return ShopSlot{}, fmt.Errorf("%w: buy during %s", ErrWrongPhase, e.phase)
	}
	buyer, err := e.player(player)
	if err != nil {
		return ShopSlot{}, err
	}
	if slot < 0 || slot >= len(buyer.Shop) {
		return ShopSlot{}, fmt.Errorf("%w: slot %d of %d", ErrInvalidSlot, slot, len(buyer.Shop))
	}
	offer := buyer.Shop[slot]
	if offer.Purchased {
		return ShopSlot{}, fmt.Errorf("%w: slot %d already purchased", ErrInvalidSlot, slot)
	}
	if !e.economy.CanAfford(buyer, offer.Cost) {
		return ShopSlot{}, fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientFunds, offer, offer.Cost, buyer.Coins)
	}

	var commit func()
	switch offer.Kind {
	case OfferPiece:
		if !e.catalog.Stats(offer.Archetype).Purchasable {
			return ShopSlot{}, fmt.Errorf("%w: %s is not for sale", ErrInvalidSlot, offer.Archetype)
		}
		commit = func() {
			p := e.spawn(player, offer.Archetype)
			buyer.Reserve = append(buyer.Reserve, p)
		}
	case OfferCard:
		commit, err = e.prepareCard(buyer, offer.Card)
	case OfferConsumable:
		commit, err = e.prepareConsumable(buyer, offer)
	default:
		err = fmt.Errorf("%w: unknown offer kind %s", ErrInvalidSlot, offer.Kind)
	}
	if err != nil {
		return ShopSlot{}, err
	}

	if _, err := e.economy.Deduct(buyer, offer.Cost); err != nil {
		return ShopSlot{}, err
	}
	buyer.Shop[slot].Purchased = true
	e.emit(Event{
		Kind:    EventPurchased,
		Player:  ptr(player),
		Amount:  offer.Cost,
		Balance: ptr(buyer.Coins),
		Note:    offer.String(),
	})
	e.log.Debug("purchase",
		zap.Stringer("player", player),
		zap.Stringer("offer", offer),
		zap.Int("balance", buyer.Coins))
	commit()
	return buyer.Shop[slot], nil
}

func (e *Engine) prepareCard(buyer *Player, card Card) (func(), error) {
	switch card.Timing {
	case TimingImmediate:
		if card.Kind != CardArrowVolley {
			return nil, fmt.Errorf("%w: %s has no immediate effect", ErrUnknownCard, card.Kind)
		}
		return func() { e.resolveVolley(buyer) }, nil
	case TimingStored:
		return func() {
			entry := CardEntry{ID: e.newCardID(), Card: card}
			buyer.Cards = append(buyer.Cards, entry)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCard, card.Kind)
	}
}

func (e *Engine) resolveVolley(buyer *Player) {
	res := ArrowVolley(e.board, buyer.Color)
	e.emit(Event{Kind: EventVolley, Player: ptr(buyer.Color), Amount: len(res.Hits)})
	for _, hit := range res.Hits {
		if !hit.Died {
			continue
		}
		e.emit(Event{Kind: EventPieceKilled, Player: ptr(hit.Piece.Owner), To: ptr(hit.Square), PieceID: hit.Piece.ID, Archetype: ptr(hit.Piece.Type)})
		if e.rules.Economy.VolleyKillReward {
			e.emitCoins(buyer.Color, e.economy.GrantKillReward(buyer, hit.Piece), "kill reward")
		}
	}
	e.log.Debug("arrow volley",
		zap.Stringer("player", buyer.Color),
		zap.Int("hits", len(res.Hits)),
		zap.Int("kills", len(res.Killed())))
	if res.KingSlain {
		e.finish(buyer.Color)
	}
}

func (e *Engine) prepareConsumable(buyer *Player, offer ShopSlot) (func(), error) {
	handler, err := e.consumables.resolve(offer.Consumable)
	if err != nil {
		return nil, fmt.Errorf("%w: consumable %q: %w", ErrInvalidSlot, offer.Consumable, err)
	}
	if handler == nil {
		return nil, fmt.Errorf("%w: consumable %q: %w", ErrInvalidSlot, offer.Consumable, ErrConsumableNotRegistered)
	}
	ctx := ConsumableContext{
		Buyer:   buyer.Color,
		Slot:    offer,
		Catalog: e.catalog,
		Board:   e.board,
		Player:  buyer,
	}
	if err := handler.Validate(ctx); err != nil {
		return nil, err
	}
	effect, err := handler.Apply(ctx)
	if err != nil {
		return nil, err
	}
	for _, pt := range effect.Grant {
		if !pt.Valid() {
			return nil, fmt.Errorf("%w: consumable %q grants unknown archetype", ErrInvalidSlot, offer.Consumable)
		}
	}
	return func() {
		for _, pt := range effect.Grant {
			buyer.Reserve = append(buyer.Reserve, e.spawn(buyer.Color, pt))
		}
		if effect.Coins > 0 {
			buyer.Coins += effect.Coins
		}
		e.emit(Event{Kind: EventConsumed, Player: ptr(buyer.Color), Amount: effect.Coins, Note: effect.Note})
	}, nil
}

// UseCard plays a stored card. Cards are looked up by id across both
// inventories; in battle only the active player may play one.
func (e *Engine) UseCard(cardID string, target Square) error {
	owner, idx := e.findCard(cardID)
	if owner == nil {
		return fmt.Errorf("%w: %q", ErrUnknownCard, cardID)
	}
	switch e.phase.Kind() {
	case PhaseBattle:
		if active, _ := e.phase.Active(); active != owner.Color {
			return fmt.Errorf("%w: %s cannot play cards on %s's turn", ErrNotYourTurn, owner.Color, active)
		}
	case PhaseShop:
	default:
		return fmt.Errorf("%w: cards cannot be used during %s", ErrWrongPhase, e.phase)
	}

	entry := owner.Cards[idx]
	switch entry.Card.Kind {
	case CardDisarm:
		victim, err := DisarmTarget(e.board, owner.Color, target)
		if err != nil {
			return err
		}
		Disarm(victim)
		owner.dropCard(idx)
		e.emit(Event{
			Kind:      EventCardUsed,
			Player:    ptr(owner.Color),
			To:        ptr(target),
			PieceID:   victim.ID,
			Archetype: ptr(victim.Type),
			Note:      entry.Card.Kind.String(),
		})
		e.log.Debug("card used",
			zap.Stringer("player", owner.Color),
			zap.Stringer("card", entry.Card.Kind),
			zap.Stringer("target", target))
		return nil
	default:
		return fmt.Errorf("%w: %s cannot be played from inventory", ErrUnknownCard, entry.Card.Kind)
	}
}

func (e *Engine) findCard(id string) (*Player, int) {
	if id == "" {
		return nil, -1
	}
	for _, p := range e.players {
		if i := p.cardIndex(id); i >= 0 {
			return p, i
		}
	}
	return nil, -1
}

// Deploy places a reserve piece on the player's home ranks.
func (e *Engine) Deploy(player Color, reserveIndex int, sq Square) error {
	if !e.phase.Is(PhaseSetup) && !e.phase.Is(PhaseShop) {
		return fmt.Errorf("%w: deploy during %s", ErrWrongPhase, e.phase)
	}
	owner, err := e.player(player)
	if err != nil {
		return err
	}
	p, err := owner.reservePiece(reserveIndex)
	if err != nil {
		return err
	}
	if !sq.Valid() {
		return fmt.Errorf("%w: %d", ErrOutOfBounds, sq)
	}
	if !e.InDeployZone(player, sq) {
		return fmt.Errorf("%w: %s is outside %s's deploy zone", ErrInvalidDestination, sq, player)
	}
	if err := e.board.Place(p, sq); err != nil {
		return err
	}
	owner.dropReserve(reserveIndex)
	e.emit(Event{Kind: EventDeployed, Player: ptr(player), To: ptr(sq), PieceID: p.ID, Archetype: ptr(p.Type)})
	return nil
}

// InDeployZone reports whether sq lies on player's home ranks.
func (e *Engine) InDeployZone(player Color, sq Square) bool {
	if !sq.Valid() {
		return false
	}
	depth := e.rules.DeployRanks
	if player == White {
		return sq.Rank() < depth
	}
	return sq.Rank() >= 8-depth
}

// CompleteSetup ends placement and opens the shop on shop rounds, otherwise
// starts the battle.
func (e *Engine) CompleteSetup() error {
	if !e.phase.Is(PhaseSetup) {
		return fmt.Errorf("%w: setup already complete (%s)", ErrWrongPhase, e.phase)
	}
	e.enterRound()
	return nil
}

// EndShop closes the shop and starts the battle with White to move.
func (e *Engine) EndShop() error {
	if !e.phase.Is(PhaseShop) {
		return fmt.Errorf("%w: end shop during %s", ErrWrongPhase, e.phase)
	}
	e.clearSelection()
	e.setPhase(BattlePhase(White, ModeMove))
	return nil
}

// NextRound closes the current round: income is paid, the counter advances
// and the next round opens with the shop or the battle.
func (e *Engine) NextRound() error {
	if e.phase.Is(PhaseGameOver) {
		return fmt.Errorf("%w: game is over", ErrWrongPhase)
	}
	e.clearSelection()
	e.setPhase(EndRoundPhase())
	for _, p := range e.players {
		before := p.Coins
		e.economy.GrantRoundIncome(p)
		e.emitCoins(p.Color, p.Coins-before, "round income")
	}
	e.round++
	e.log.Debug("round advanced", zap.Int("round", e.round))
	e.enterRound()
	return nil
}

func (e *Engine) enterRound() {
	if !e.shop.Rules().IsShopRound(e.round) {
		e.setPhase(BattlePhase(White, ModeMove))
		return
	}
	for _, p := range e.players {
		p.Shop = e.shop.Generate()
		e.emit(Event{Kind: EventShopGenerated, Player: ptr(p.Color), Amount: len(p.Shop)})
	}
	e.setPhase(ShopPhase())
}

func (e *Engine) passTurn(active Color) {
	e.clearSelection()
	e.setPhase(BattlePhase(active.Opposite(), ModeMove))
}

// finish ends the game in winner's favor and pays the victory bonus.
func (e *Engine) finish(winner Color) {
	e.clearSelection()
	bonus := e.economy.GrantVictoryBonus(e.players[winner])
	e.emitCoins(winner, bonus, "victory bonus")
	e.setPhase(GameOverPhase(winner))
	e.emit(Event{Kind: EventGameOver, Player: ptr(winner), Balance: ptr(e.players[winner].Coins)})
	e.log.Info("game over",
		zap.Stringer("winner", winner),
		zap.Int("round", e.round),
		zap.Int("coins", e.players[winner].Coins))
}

func (e *Engine) emitCoins(c Color, amount int, note string) {
	if amount <= 0 {
		return
	}
	e.emit(Event{Kind: EventCoinsGranted, Player: ptr(c), Amount: amount, Balance: ptr(e.players[c].Coins), Note: note})
}

func (e *Engine) player(c Color) (*Player, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: unknown player %d", ErrNotYourTurn, c)
	}
	return e.players[c], nil
}

// ownPiece returns the piece on sq if it belongs to owner.
func (e *Engine) ownPiece(owner Color, sq Square) (*Piece, error) {
	if !sq.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrOutOfBounds, sq)
	}
	p, ok := e.board.PieceAt(sq)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEmptySquare, sq)
	}
	if p.Owner != owner {
		return nil, fmt.Errorf("%w: %s belongs to %s", ErrNotYourTurn, sq, p.Owner)
	}
	return p, nil
}
