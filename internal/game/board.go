package game

import (
	"fmt"
	"iter"
)

// Board holds the placed pieces of both players.
type Board struct {
	pieces    [2][6]Bitboard
	occupancy [2]Bitboard
	allOcc    Bitboard
	pieceAt   [64]*Piece
}

func NewBoard() *Board { return &Board{} }

// Place puts p on sq and records the square on the piece.
func (b *Board) Place(p *Piece, sq Square) error {
	if p == nil {
		return fmt.Errorf("%w: nil piece", ErrEmptySquare)
	}
	if !sq.Valid() {
		return fmt.Errorf("%w: %d", ErrOutOfBounds, sq)
	}
	if b.pieceAt[sq] != nil {
		return fmt.Errorf("%w: %s", ErrOccupiedSquare, sq)
	}
	p.Square = sq
	b.pieceAt[sq] = p
	b.setBits(p, sq)
	return nil
}

// Remove frees sq and returns the piece that stood there.
func (b *Board) Remove(sq Square) (*Piece, error) {
	if !sq.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrOutOfBounds, sq)
	}
	p := b.pieceAt[sq]
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptySquare, sq)
	}
	b.pieceAt[sq] = nil
	b.clearBits(p, sq)
	return p, nil
}

func (b *Board) PieceAt(sq Square) (*Piece, bool) {
	if !sq.Valid() {
		return nil, false
	}
	p := b.pieceAt[sq]
	return p, p != nil
}

// Relocate moves the piece on from to the empty square to.
func (b *Board) Relocate(from, to Square) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: %d -> %d", ErrOutOfBounds, from, to)
	}
	p := b.pieceAt[from]
	if p == nil {
		return fmt.Errorf("%w: %s", ErrEmptySquare, from)
	}
	if b.pieceAt[to] != nil {
		return fmt.Errorf("%w: %s", ErrOccupiedSquare, to)
	}
	b.pieceAt[from] = nil
	b.clearBits(p, from)
	p.Square = to
	b.pieceAt[to] = p
	b.setBits(p, to)
	return nil
}

// PiecesOf yields the pieces of owner in square order. Each iteration walks
// the occupancy as it is at that moment.
func (b *Board) PiecesOf(owner Color) iter.Seq[*Piece] {
	return func(yield func(*Piece) bool) {
		if !owner.Valid() {
			return
		}
		bb := b.occupancy[owner]
		for bb != 0 {
			var sq Square
			sq, bb = bb.PopLSB()
			if !yield(b.pieceAt[sq]) {
				return
			}
		}
	}
}

// All yields every placed piece in square order.
func (b *Board) All() iter.Seq[*Piece] {
	return func(yield func(*Piece) bool) {
		bb := b.allOcc
		for bb != 0 {
			var sq Square
			sq, bb = bb.PopLSB()
			if !yield(b.pieceAt[sq]) {
				return
			}
		}
	}
}

func (b *Board) KingOf(owner Color) (*Piece, bool) {
	if !owner.Valid() {
		return nil, false
	}
	bb := b.pieces[owner][King]
	if bb == 0 {
		return nil, false
	}
	sq, _ := bb.PopLSB()
	return b.pieceAt[sq], true
}

func (b *Board) Occupancy() Bitboard { return b.allOcc }

func (b *Board) OccupancyOf(owner Color) Bitboard {
	if !owner.Valid() {
		return 0
	}
	return b.occupancy[owner]
}

func (b *Board) Count(owner Color) int { return b.OccupancyOf(owner).Count() }

func (b *Board) setBits(p *Piece, sq Square) {
	b.pieces[p.Owner][p.Type] = b.pieces[p.Owner][p.Type].Add(sq)
	b.occupancy[p.Owner] = b.occupancy[p.Owner].Add(sq)
	b.allOcc = b.allOcc.Add(sq)
}

func (b *Board) clearBits(p *Piece, sq Square) {
	b.pieces[p.Owner][p.Type] = b.pieces[p.Owner][p.Type].Remove(sq)
	b.occupancy[p.Owner] = b.occupancy[p.Owner].Remove(sq)
	b.allOcc = b.allOcc.Remove(sq)
}
