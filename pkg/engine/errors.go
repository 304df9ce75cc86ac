package engine

import (
	"errors"
	"fmt"
)

// Every operation either fully succeeds or leaves the game untouched.
// All failures are input-validation rejections, matched with errors.Is.
var (
	// ErrIllegalMove is returned by ApplyMove when the token/dice
	// combination fails the legality rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrOutOfTurn is returned when an action names a color that is not
	// the current player.
	ErrOutOfTurn = errors.New("not your turn")

	// ErrInvalidState is returned for actions that make no sense in the
	// current phase: rolling while a roll is pending, moving without a
	// roll, or any mutation while the engine is marked busy.
	ErrInvalidState = errors.New("invalid state")

	// ErrGameOver is returned for any roll or move after a winner is set.
	// It wraps ErrInvalidState so callers matching the broad class still
	// catch it.
	ErrGameOver = fmt.Errorf("%w: game over", ErrInvalidState)
)
