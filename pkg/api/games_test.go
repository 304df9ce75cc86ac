package api

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yourusername/ludoengine/pkg/engine"
)

func TestRegistryCreateAndWith(t *testing.T) {
	r := NewRegistry(0)

	id := r.Create(engine.GameOptions{Seed: 1}, nil)
	if id == "" {
		t.Fatal("empty game ID")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}

	err := r.With(id, func(g *engine.Game) error {
		if g.CurrentPlayer() != engine.Red {
			t.Errorf("current = %s, want red", g.CurrentPlayer())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
}

func TestRegistryCreateFromSnapshot(t *testing.T) {
	r := NewRegistry(0)

	s := engine.NewGame(engine.GameOptions{Seed: 1}).Snapshot()
	s.Current = engine.Green
	s.Positions[engine.Green][0] = engine.TrackAt(30)

	id := r.Create(engine.GameOptions{Seed: 1}, &s)
	r.With(id, func(g *engine.Game) error {
		if g.CurrentPlayer() != engine.Green {
			t.Errorf("current = %s, want green", g.CurrentPlayer())
		}
		if pos, _ := g.TokenPosition(engine.Green, 0); pos != engine.TrackAt(30) {
			t.Errorf("green/0 at %v, want track(30)", pos)
		}
		return nil
	})
}

func TestRegistryWithUnknownID(t *testing.T) {
	r := NewRegistry(0)
	err := r.With("nope", func(g *engine.Game) error { return nil })
	if !errors.Is(err, ErrGameNotFound) {
		t.Errorf("err = %v, want ErrGameNotFound", err)
	}
}

func TestRegistryWithPropagatesError(t *testing.T) {
	r := NewRegistry(0)
	id := r.Create(engine.GameOptions{Seed: 1}, nil)

	want := errors.New("boom")
	if err := r.With(id, func(g *engine.Game) error { return want }); !errors.Is(err, want) {
		t.Errorf("err = %v, want the callback's error", err)
	}
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry(0)
	id := r.Create(engine.GameOptions{Seed: 1}, nil)

	if !r.Delete(id) {
		t.Error("Delete returned false for a live game")
	}
	if r.Delete(id) {
		t.Error("Delete returned true for a removed game")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d after delete, want 0", r.Len())
	}
}

func TestRegistrySweep(t *testing.T) {
	r := NewRegistry(50 * time.Millisecond)
	idle := r.Create(engine.GameOptions{Seed: 1}, nil)
	live := r.Create(engine.GameOptions{Seed: 2}, nil)

	time.Sleep(80 * time.Millisecond)
	r.With(live, func(g *engine.Game) error { return nil }) // refresh lastUsed

	if removed := r.Sweep(); removed != 1 {
		t.Errorf("Sweep removed %d, want 1", removed)
	}
	if err := r.With(idle, func(g *engine.Game) error { return nil }); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("idle game survived the sweep: %v", err)
	}
	if err := r.With(live, func(g *engine.Game) error { return nil }); err != nil {
		t.Errorf("live game was swept: %v", err)
	}
}

func TestRegistrySweepDisabled(t *testing.T) {
	r := NewRegistry(0)
	r.Create(engine.GameOptions{Seed: 1}, nil)

	if removed := r.Sweep(); removed != 0 {
		t.Errorf("Sweep with no TTL removed %d games", removed)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	// Concurrent rolls against one game must serialize: every roll
	// either succeeds or is rejected for an unresolved pending roll,
	// and the game stays consistent throughout.
	r := NewRegistry(0)
	id := r.Create(engine.GameOptions{Seed: 1}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.With(id, func(g *engine.Game) error {
				dice, ok := g.DiceRoll()
				if !ok {
					var err error
					if dice, err = g.RollDice(); err != nil {
						return err
					}
				}
				c := g.CurrentPlayer()
				if slots := g.LegalMoves(c, dice); len(slots) > 0 {
					_, err := g.ApplyMove(c, slots[0], dice)
					return err
				}
				return g.PassTurn(c, dice)
			})
		}()
	}
	wg.Wait()

	err := r.With(id, func(g *engine.Game) error {
		if _, ok := g.DiceRoll(); ok {
			return nil // a pending roll is a valid resting state
		}
		return nil
	})
	if err != nil {
		t.Fatalf("game unusable after concurrent access: %v", err)
	}
}
