package engine

import "fmt"

// MoveResult describes one applied move for the presentation layer: the
// committed destination, the ordered step path for animation, the
// opponents captured, and the turn/winner transition.
type MoveResult struct {
	Token    TokenID
	Dice     int
	From     Position
	To       Position
	Path     []Position // every square stepped through, ending at To
	Captured []TokenID  // opponents sent back to base, empty if none
	Bonus    bool       // a six was played, the mover rolls again
	Next     Color      // color on turn after this move
	Winner   Color      // NoColor unless this move won the game
}

// destination computes where a token of color c at pos lands with the
// given dice. ok is false when the token cannot travel that far
// (overshooting the home lane, moving a finished token, or leaving base
// without a six).
func destination(c Color, pos Position, dice int) (dest Position, ok bool) {
	switch pos.Kind {
	case PosBase:
		if dice != DiceMax {
			return Position{}, false
		}
		return TrackAt(StartIndex(c)), true

	case PosTrack:
		d := distanceToHomeEntry(c, pos.Index)
		if dice <= d {
			return TrackAt((pos.Index + dice) % TrackSize), true
		}
		j := dice - d - 1
		if j > HomeLaneSize-1 {
			return Position{}, false
		}
		return HomeAt(j), true

	case PosHome:
		j := pos.Index + dice
		if j > HomeLaneSize-1 {
			return Position{}, false
		}
		return HomeAt(j), true
	}
	return Position{}, false
}

// stepPath returns the ordered squares a token passes through from pos
// to its destination, destination included. Leaving base is a single
// hop onto the start square.
func stepPath(c Color, pos Position, dice int) []Position {
	path := make([]Position, 0, dice)
	switch pos.Kind {
	case PosBase:
		return append(path, TrackAt(StartIndex(c)))

	case PosTrack:
		d := distanceToHomeEntry(c, pos.Index)
		onTrack := dice
		if onTrack > d {
			onTrack = d
		}
		for s := 1; s <= onTrack; s++ {
			path = append(path, TrackAt((pos.Index+s)%TrackSize))
		}
		for j := 0; j < dice-onTrack; j++ {
			path = append(path, HomeAt(j))
		}
		return path

	case PosHome:
		for s := 1; s <= dice; s++ {
			path = append(path, HomeAt(pos.Index+s))
		}
		return path
	}
	return path
}

// LegalMove reports whether the token in the given slot may move by dice
// squares. It is a pure predicate: no state changes, and it may be asked
// about any color and any dice value regardless of whose turn it is.
func (g *Game) LegalMove(c Color, slot, dice int) bool {
	if !c.Valid() || slot < 0 || slot >= TokensPerColor {
		return false
	}
	if dice < DiceMin || dice > DiceMax {
		return false
	}
	dest, ok := destination(c, g.players[c].Tokens[slot].Pos, dice)
	if !ok {
		return false
	}
	// Opponent occupancy never blocks: it is resolved by capture.
	return !g.occupiedBySame(c, dest)
}

// AnyLegalMove reports whether at least one of the color's tokens has a
// legal move for the dice value. A rolled turn with no legal move must
// be passed.
func (g *Game) AnyLegalMove(c Color, dice int) bool {
	for slot := 0; slot < TokensPerColor; slot++ {
		if g.LegalMove(c, slot, dice) {
			return true
		}
	}
	return false
}

// LegalMoves returns the slots of the color's tokens that can move by
// dice squares.
func (g *Game) LegalMoves(c Color, dice int) []int {
	var slots []int
	for slot := 0; slot < TokensPerColor; slot++ {
		if g.LegalMove(c, slot, dice) {
			slots = append(slots, slot)
		}
	}
	return slots
}

// checkDice validates a dice argument against the pending roll. When a
// roll is pending the caller must resolve exactly that value.
func (g *Game) checkDice(dice int) error {
	if dice < DiceMin || dice > DiceMax {
		return fmt.Errorf("%w: dice %d out of range", ErrInvalidState, dice)
	}
	if g.dice != 0 && g.dice != dice {
		return fmt.Errorf("%w: pending roll is %d, got %d", ErrInvalidState, g.dice, dice)
	}
	return nil
}

// ApplyMove moves the token in the given slot by dice squares, resolving
// captures and the turn handover. The move must be legal; on any error
// the game is unchanged.
func (g *Game) ApplyMove(c Color, slot, dice int) (*MoveResult, error) {
	if g.Over() {
		return nil, ErrGameOver
	}
	if g.busy {
		return nil, fmt.Errorf("%w: move in flight", ErrInvalidState)
	}
	if !c.Valid() || slot < 0 || slot >= TokensPerColor {
		return nil, fmt.Errorf("%w: no token %s/%d", ErrInvalidState, c, slot)
	}
	if Color(g.current) != c {
		return nil, fmt.Errorf("%w: %s acted on %s's turn", ErrOutOfTurn, c, Color(g.current))
	}
	if err := g.checkDice(dice); err != nil {
		return nil, err
	}
	if !g.LegalMove(c, slot, dice) {
		return nil, fmt.Errorf("%w: %s/%d by %d", ErrIllegalMove, c, slot, dice)
	}

	token := &g.players[c].Tokens[slot]
	from := token.Pos
	dest, _ := destination(c, from, dice)

	res := &MoveResult{
		Token: token.ID,
		Dice:  dice,
		From:  from,
		To:    dest,
		Path:  stepPath(c, from, dice),
		Bonus: dice == DiceMax,
	}

	token.Pos = dest

	// Landing on a non-safe track square clears every opponent there.
	// Home lanes and safe squares are never capture sites.
	if dest.OnTrack() && !IsSafeSquare(dest.Index) {
		for _, id := range g.tokensAtTrack(dest.Index) {
			if id.Color == c {
				continue
			}
			g.players[id.Color].Tokens[id.Slot].Pos = Base()
			res.Captured = append(res.Captured, id)
		}
	}

	g.advanceTurn(dice)
	res.Next = Color(g.current)

	res.Winner = NoColor
	if g.allFinished(c) {
		g.winner = c
		res.Winner = c
	}

	return res, nil
}

// PassTurn forfeits the pending roll when the color has no legal move.
// The turn-advance rule is the same as for a move: a six keeps the turn,
// anything else hands it over. No positions change.
func (g *Game) PassTurn(c Color, dice int) error {
	if g.Over() {
		return ErrGameOver
	}
	if g.busy {
		return fmt.Errorf("%w: move in flight", ErrInvalidState)
	}
	if !c.Valid() {
		return fmt.Errorf("%w: bad color", ErrInvalidState)
	}
	if Color(g.current) != c {
		return fmt.Errorf("%w: %s acted on %s's turn", ErrOutOfTurn, c, Color(g.current))
	}
	if err := g.checkDice(dice); err != nil {
		return err
	}
	if g.AnyLegalMove(c, dice) {
		return fmt.Errorf("%w: %s has a legal move for %d", ErrInvalidState, c, dice)
	}

	g.advanceTurn(dice)
	return nil
}
