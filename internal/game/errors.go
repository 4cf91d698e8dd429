package game

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds        = errors.New("out of bounds")
	ErrOccupiedSquare     = errors.New("occupied square")
	ErrEmptySquare        = errors.New("empty square")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrInvalidDestination = errors.New("invalid destination")
	ErrInvalidTarget      = errors.New("invalid target")
	ErrFriendlyFire       = errors.New("friendly fire")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidSlot        = errors.New("invalid slot")
	ErrWrongPhase         = errors.New("wrong phase")
	ErrUnknownCard        = errors.New("unknown card")

	// ErrNoTarget is returned by attacks aimed at an empty square.
	ErrNoTarget = fmt.Errorf("no target: %w", ErrEmptySquare)
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrOutOfBounds, "OutOfBounds"},
	{ErrOccupiedSquare, "OccupiedSquare"},
	{ErrNoTarget, "NoTarget"},
	{ErrEmptySquare, "EmptySquare"},
	{ErrNotYourTurn, "NotYourTurn"},
	{ErrInvalidDestination, "InvalidDestination"},
	{ErrInvalidTarget, "InvalidTarget"},
	{ErrFriendlyFire, "FriendlyFire"},
	{ErrInsufficientFunds, "InsufficientFunds"},
	{ErrInvalidSlot, "InvalidSlot"},
	{ErrWrongPhase, "WrongPhase"},
	{ErrUnknownCard, "UnknownCard"},
}

// KindOf names the engine error kind carried by err, or "" when err is not
// one of the engine's rejections.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}
