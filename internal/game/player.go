package game

import "fmt"

// Player holds one side's coins and everything it owns off the board.
type Player struct {
	Color   Color
	Coins   int
	Reserve []*Piece
	Cards   []CardEntry
	Shop    []ShopSlot
}

func newPlayer(c Color, coins int) *Player {
	return &Player{Color: c, Coins: coins}
}

func (p *Player) cardIndex(id string) int {
	for i, entry := range p.Cards {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

func (p *Player) dropCard(i int) {
	p.Cards = append(p.Cards[:i], p.Cards[i+1:]...)
}

func (p *Player) reservePiece(i int) (*Piece, error) {
	if i < 0 || i >= len(p.Reserve) {
		return nil, fmt.Errorf("%w: reserve index %d of %d", ErrInvalidSlot, i, len(p.Reserve))
	}
	return p.Reserve[i], nil
}

func (p *Player) dropReserve(i int) {
	p.Reserve = append(p.Reserve[:i], p.Reserve[i+1:]...)
}
