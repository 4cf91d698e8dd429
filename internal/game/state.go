package game

import "fmt"

// PieceState is a serializable representation of a Piece.
type PieceState struct {
	ID       int       `json:"id"`
	Owner    Color     `json:"owner"`
	Type     PieceType `json:"type"`
	Symbol   string    `json:"symbol"`
	Square   *Square   `json:"square,omitempty"`
	HP       int       `json:"hp"`
	MaxHP    int       `json:"maxHp"`
	Attack   int       `json:"attack"`
	Cost     int       `json:"cost"`
	Disarmed bool      `json:"disarmed,omitempty"`
}

type PlayerState struct {
	Color   Color        `json:"color"`
	Coins   int          `json:"coins"`
	Reserve []PieceState `json:"reserve"`
	Cards   []CardEntry  `json:"cards"`
	Shop    []ShopSlot   `json:"shop"`
}

// GameState is a serializable snapshot of the whole game.
type GameState struct {
	Pieces    []PieceState  `json:"pieces"`
	Players   []PlayerState `json:"players"`
	Phase     PhaseKind     `json:"phase"`
	PhaseName string        `json:"phaseName"`
	Active    *Color        `json:"active,omitempty"`
	Mode      *Mode         `json:"mode,omitempty"`
	Winner    *Color        `json:"winner,omitempty"`
	Round     int           `json:"round"`
	ShopRound bool          `json:"shopRound"`
	Selected  *Square       `json:"selected,omitempty"`
	LastSeq   uint64        `json:"lastSeq"`
}

func pieceState(p *Piece, placed bool) PieceState {
	ps := PieceState{
		ID:       p.ID,
		Owner:    p.Owner,
		Type:     p.Type,
		Symbol:   p.Type.Symbol(),
		HP:       p.HP,
		MaxHP:    p.MaxHP,
		Attack:   p.Attack,
		Cost:     p.Cost,
		Disarmed: p.Disarmed,
	}
	if placed {
		ps.Square = ptr(p.Square)
	}
	return ps
}

// State returns a snapshot that shares no memory with the engine.
func (e *Engine) State() GameState {
	st := GameState{
		Pieces:    make([]PieceState, 0, e.board.Occupancy().Count()),
		Phase:     e.phase.Kind(),
		PhaseName: e.phase.String(),
		Round:     e.round,
		ShopRound: e.shop.Rules().IsShopRound(e.round),
		LastSeq:   e.events.LastSeq(),
	}
	for p := range e.board.All() {
		st.Pieces = append(st.Pieces, pieceState(p, true))
	}
	for _, pl := range e.players {
		ps := PlayerState{
			Color:   pl.Color,
			Coins:   pl.Coins,
			Reserve: make([]PieceState, 0, len(pl.Reserve)),
			Cards:   append([]CardEntry(nil), pl.Cards...),
			Shop:    append([]ShopSlot(nil), pl.Shop...),
		}
		for _, p := range pl.Reserve {
			ps.Reserve = append(ps.Reserve, pieceState(p, false))
		}
		st.Players = append(st.Players, ps)
	}
	if active, mode, ok := e.phase.Battle(); ok {
		st.Active = ptr(active)
		st.Mode = ptr(mode)
	}
	if winner, ok := e.phase.Winner(); ok {
		st.Winner = ptr(winner)
	}
	if e.hasSelected {
		st.Selected = ptr(e.selected)
	}
	return st
}

// Destinations lists the legal squares for the piece on sq in mode m. It is a
// pure query and may be asked for either player's pieces.
func (e *Engine) Destinations(sq Square, m Mode) ([]Square, error) {
	if !sq.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrOutOfBounds, sq)
	}
	p, ok := e.board.PieceAt(sq)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEmptySquare, sq)
	}
	return e.validator.Destinations(e.board, p, m).Squares(), nil
}

// SelectedDestinations lists the destinations of the selected piece in the
// current battle mode.
func (e *Engine) SelectedDestinations() ([]Square, error) {
	mode, ok := e.phase.Mode()
	if !ok {
		return nil, fmt.Errorf("%w: no battle in progress", ErrWrongPhase)
	}
	if !e.hasSelected {
		return nil, fmt.Errorf("%w: nothing selected", ErrEmptySquare)
	}
	return e.Destinations(e.selected, mode)
}
