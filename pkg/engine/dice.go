package engine

import "fmt"

// Dice value bounds. A six spawns tokens from base and grants a bonus
// roll.
const (
	DiceMin = 1
	DiceMax = 6
)

// RollDice rolls the die for the current player and records the value as
// the pending roll. It is rejected while a previous roll is unresolved,
// while the engine is busy, or after the game is over.
func (g *Game) RollDice() (int, error) {
	if g.Over() {
		return 0, ErrGameOver
	}
	if g.busy {
		return 0, fmt.Errorf("%w: move in flight", ErrInvalidState)
	}
	if g.dice != 0 {
		return 0, fmt.Errorf("%w: roll of %d still unresolved", ErrInvalidState, g.dice)
	}

	g.dice = g.rng.Intn(DiceMax) + DiceMin
	g.rolls++
	return g.dice, nil
}
