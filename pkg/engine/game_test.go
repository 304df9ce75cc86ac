package engine

import (
	"errors"
	"testing"
)

func TestNewGame(t *testing.T) {
	g := NewGame(GameOptions{Seed: 42})

	if g.CurrentPlayer() != Red {
		t.Errorf("first player %s, want red", g.CurrentPlayer())
	}
	if _, ok := g.DiceRoll(); ok {
		t.Error("fresh game has a pending roll")
	}
	if _, ok := g.Winner(); ok || g.Over() {
		t.Error("fresh game has a winner")
	}
	for c := 0; c < NumColors; c++ {
		for s := 0; s < TokensPerColor; s++ {
			pos, err := g.TokenPosition(Color(c), s)
			if err != nil {
				t.Fatalf("TokenPosition(%s, %d): %v", Color(c), s, err)
			}
			if !pos.InBase() {
				t.Errorf("%s/%d starts at %v, want base", Color(c), s, pos)
			}
		}
	}
}

func TestRollDice(t *testing.T) {
	g := NewGame(GameOptions{Seed: 42})

	v, err := g.RollDice()
	if err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	if v < DiceMin || v > DiceMax {
		t.Errorf("rolled %d, want 1..6", v)
	}
	if pending, ok := g.DiceRoll(); !ok || pending != v {
		t.Errorf("pending roll %d, %v, want %d", pending, ok, v)
	}
	if g.TurnRolls() != 1 {
		t.Errorf("TurnRolls = %d, want 1", g.TurnRolls())
	}

	// The pending roll must be resolved before rolling again.
	if _, err := g.RollDice(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second roll: %v, want ErrInvalidState", err)
	}
}

func TestRollDiceSeededReproducibility(t *testing.T) {
	a := NewGame(GameOptions{Seed: 7})
	b := NewGame(GameOptions{Seed: 7})

	for i := 0; i < 20; i++ {
		va, err := a.RollDice()
		if err != nil {
			t.Fatalf("roll %d: %v", i, err)
		}
		vb, _ := b.RollDice()
		if va != vb {
			t.Fatalf("roll %d diverged: %d vs %d", i, va, vb)
		}
		resolveRoll(t, a, va)
		resolveRoll(t, b, vb)
	}
}

// resolveRoll consumes a pending roll by moving if possible, passing
// otherwise.
func resolveRoll(t *testing.T, g *Game, dice int) {
	t.Helper()
	c := g.CurrentPlayer()
	slots := g.LegalMoves(c, dice)
	if len(slots) == 0 {
		if err := g.PassTurn(c, dice); err != nil {
			t.Fatalf("PassTurn: %v", err)
		}
		return
	}
	if _, err := g.ApplyMove(c, slots[0], dice); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
}

func TestBusyGuard(t *testing.T) {
	g := testGame(func(s *Snapshot) {
		s.Positions[Red][0] = TrackAt(5)
	})
	g.SetBusy(true)

	if _, err := g.RollDice(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RollDice while busy: %v, want ErrInvalidState", err)
	}
	if _, err := g.ApplyMove(Red, 0, 3); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ApplyMove while busy: %v, want ErrInvalidState", err)
	}
	if err := g.PassTurn(Red, 5); !errors.Is(err, ErrInvalidState) {
		t.Errorf("PassTurn while busy: %v, want ErrInvalidState", err)
	}

	g.SetBusy(false)
	if _, err := g.ApplyMove(Red, 0, 3); err != nil {
		t.Errorf("ApplyMove after clearing busy: %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := testGame(func(s *Snapshot) {
		s.Current = Green
		s.Dice = 4
		s.Positions[Red][0] = TrackAt(17)
		s.Positions[Green][2] = HomeAt(1)
		s.Positions[Yellow][3] = Finished()
	})

	restored := NewGameFromSnapshot(g.Snapshot(), GameOptions{Seed: 1})
	if restored.Snapshot() != g.Snapshot() {
		t.Errorf("round trip changed state:\n got %+v\nwant %+v", restored.Snapshot(), g.Snapshot())
	}
	if restored.CurrentPlayer() != Green {
		t.Errorf("current = %s, want green", restored.CurrentPlayer())
	}
	if dice, ok := restored.DiceRoll(); !ok || dice != 4 {
		t.Errorf("pending roll = %d, %v, want 4", dice, ok)
	}
}

func TestSnapshotRederivesWinner(t *testing.T) {
	// The winner field of a snapshot is not trusted: it comes back only
	// when the positions support it.
	s := NewGame(GameOptions{Seed: 1}).Snapshot()
	s.Winner = Red
	g := NewGameFromSnapshot(s, GameOptions{Seed: 1})
	if g.Over() {
		t.Error("winner accepted without four finished tokens")
	}

	for i := 0; i < TokensPerColor; i++ {
		s.Positions[Blue][i] = Finished()
	}
	s.Winner = NoColor
	g = NewGameFromSnapshot(s, GameOptions{Seed: 1})
	if winner, ok := g.Winner(); !ok || winner != Blue {
		t.Errorf("winner = %v, %v, want blue", winner, ok)
	}
}

func TestCloneIndependence(t *testing.T) {
	g := testGame(func(s *Snapshot) {
		s.Positions[Red][0] = TrackAt(5)
	})
	clone := g.Clone()

	if _, err := g.ApplyMove(Red, 0, 3); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}

	if pos, _ := clone.TokenPosition(Red, 0); pos != TrackAt(5) {
		t.Errorf("clone saw the original's move: %v", pos)
	}
	if clone.CurrentPlayer() != Red {
		t.Errorf("clone's turn advanced: %s", clone.CurrentPlayer())
	}
}

func TestFinishedCount(t *testing.T) {
	g := testGame(func(s *Snapshot) {
		s.Positions[Green][0] = Finished()
		s.Positions[Green][1] = HomeAt(2)
		s.Positions[Green][2] = Finished()
	})
	if n := g.FinishedCount(Green); n != 2 {
		t.Errorf("FinishedCount = %d, want 2", n)
	}
	if n := g.FinishedCount(Red); n != 0 {
		t.Errorf("FinishedCount(red) = %d, want 0", n)
	}
}
