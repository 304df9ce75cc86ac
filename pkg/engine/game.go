package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Game is the complete state of one Ludo game: the four players' tokens,
// whose turn it is, the pending dice value and the winner once decided.
// A Game is created by NewGame and mutated only through RollDice,
// ApplyMove and PassTurn. It is not safe for concurrent use; callers
// serialize access (see Busy/SetBusy for the single-flight guard).
type Game struct {
	players [NumColors]Player
	current int   // index into players, also the Color on turn
	dice    int   // pending roll, 0 when none
	rolls   int   // rolls taken this turn, reset on turn handover
	winner  Color // NoColor until decided
	busy    bool  // caller-driven guard against overlapping commands
	rng     *rand.Rand
}

// GameOptions controls game construction.
type GameOptions struct {
	Seed int64 // dice RNG seed, 0 = time-based
}

// NewGame returns a fresh game with all tokens in base and red to act.
func NewGame(opts GameOptions) *Game {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		winner: NoColor,
		rng:    rand.New(rand.NewSource(seed)),
	}
	for c := 0; c < NumColors; c++ {
		g.players[c].Color = Color(c)
		for s := 0; s < TokensPerColor; s++ {
			g.players[c].Tokens[s] = Token{
				ID:  TokenID{Color: Color(c), Slot: s},
				Pos: Base(),
			}
		}
	}
	return g
}

// Snapshot is the plain-data image of a game, the shape a caller may
// serialize. The engine defines no storage format for it.
type Snapshot struct {
	Positions [NumColors][TokensPerColor]Position
	Current   Color
	Dice      int // 0 = no roll pending
	Winner    Color
}

// Snapshot returns a copy of the observable state.
func (g *Game) Snapshot() Snapshot {
	var s Snapshot
	for c := 0; c < NumColors; c++ {
		for i := 0; i < TokensPerColor; i++ {
			s.Positions[c][i] = g.players[c].Tokens[i].Pos
		}
	}
	s.Current = Color(g.current)
	s.Dice = g.dice
	s.Winner = g.winner
	return s
}

// NewGameFromSnapshot reconstructs a game from explicit state. The winner
// is rederived from token positions rather than trusted.
func NewGameFromSnapshot(s Snapshot, opts GameOptions) *Game {
	g := NewGame(opts)
	for c := 0; c < NumColors; c++ {
		for i := 0; i < TokensPerColor; i++ {
			g.players[c].Tokens[i].Pos = s.Positions[c][i]
		}
	}
	if s.Current.Valid() {
		g.current = int(s.Current)
	}
	if s.Dice >= DiceMin && s.Dice <= DiceMax {
		g.dice = s.Dice
	}
	for c := 0; c < NumColors; c++ {
		if g.allFinished(Color(c)) {
			g.winner = Color(c)
			break
		}
	}
	return g
}

// Clone returns a deep copy sharing nothing with g. The clone's dice RNG
// is reseeded from the original's stream.
func (g *Game) Clone() *Game {
	c := *g
	c.rng = rand.New(rand.NewSource(g.rng.Int63()))
	return &c
}

// CurrentPlayer returns the color whose turn it is.
func (g *Game) CurrentPlayer() Color { return Color(g.current) }

// DiceRoll returns the pending dice value, if any.
func (g *Game) DiceRoll() (int, bool) { return g.dice, g.dice != 0 }

// TurnRolls returns how many rolls the current player has taken this
// turn. It resets whenever the turn is handed over or extended by a six.
func (g *Game) TurnRolls() int { return g.rolls }

// Winner returns the winning color once all four of its tokens have
// finished.
func (g *Game) Winner() (Color, bool) { return g.winner, g.winner != NoColor }

// Over reports whether the game has a winner.
func (g *Game) Over() bool { return g.winner != NoColor }

// Busy reports the single-flight guard. While busy, RollDice, ApplyMove
// and PassTurn are rejected with ErrInvalidState.
func (g *Game) Busy() bool { return g.busy }

// SetBusy sets the single-flight guard. The presentation layer raises it
// while it animates a committed move so no second command can slip in.
func (g *Game) SetBusy(busy bool) { g.busy = busy }

// TokenPosition returns the position of one token.
func (g *Game) TokenPosition(c Color, slot int) (Position, error) {
	if !c.Valid() || slot < 0 || slot >= TokensPerColor {
		return Position{}, fmt.Errorf("%w: no token %s/%d", ErrInvalidState, c, slot)
	}
	return g.players[c].Tokens[slot].Pos, nil
}

// Tokens returns a copy of a color's tokens.
func (g *Game) Tokens(c Color) [TokensPerColor]Token {
	return g.players[c].Tokens
}

// FinishedCount returns how many of a color's tokens have finished.
func (g *Game) FinishedCount(c Color) int {
	n := 0
	for _, t := range g.players[c].Tokens {
		if t.Pos.IsFinished() {
			n++
		}
	}
	return n
}

func (g *Game) allFinished(c Color) bool {
	return g.FinishedCount(c) == TokensPerColor
}

// occupiedBySame reports whether color c already has a token at pos.
// Base and Finished never conflict.
func (g *Game) occupiedBySame(c Color, pos Position) bool {
	if !pos.OnTrack() && !pos.InHome() {
		return false
	}
	for _, t := range g.players[c].Tokens {
		if t.Pos == pos {
			return true
		}
	}
	return false
}

// tokensAtTrack returns the IDs of all tokens standing on track index i.
func (g *Game) tokensAtTrack(i int) []TokenID {
	var out []TokenID
	for c := 0; c < NumColors; c++ {
		for _, t := range g.players[c].Tokens {
			if t.Pos.OnTrack() && t.Pos.Index == i {
				out = append(out, t.ID)
			}
		}
	}
	return out
}

// advanceTurn implements the shared turn-advance rule of moves and
// passes: a six keeps the turn, anything else hands it to the next
// color. Either way the pending roll is consumed and the per-turn roll
// counter restarts.
func (g *Game) advanceTurn(dice int) {
	if dice != DiceMax {
		g.current = (g.current + 1) % NumColors
	}
	g.dice = 0
	g.rolls = 0
}
