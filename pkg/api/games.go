package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/ludoengine/pkg/engine"
)

// ErrGameNotFound is returned for operations on unknown game IDs.
var ErrGameNotFound = errors.New("game not found")

// gameSession is one live game with its serialization lock. The engine
// is single-threaded per game; the lock enforces that contract under
// concurrent HTTP requests.
type gameSession struct {
	mu       sync.Mutex
	game     *engine.Game
	lastUsed time.Time
}

// Registry owns all live games, keyed by UUID. Games are in-memory only
// and expire after a period of inactivity.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*gameSession
	ttl   time.Duration // 0 = never expire
}

// NewRegistry creates an empty game registry.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		games: make(map[string]*gameSession),
		ttl:   ttl,
	}
}

// Create starts a new game and returns its ID. When snap is non-nil the
// game starts from that snapshot instead of the opening position.
func (r *Registry) Create(opts engine.GameOptions, snap *engine.Snapshot) string {
	var g *engine.Game
	if snap != nil {
		g = engine.NewGameFromSnapshot(*snap, opts)
	} else {
		g = engine.NewGame(opts)
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.games[id] = &gameSession{game: g, lastUsed: time.Now()}
	r.mu.Unlock()
	return id
}

// With runs fn against the game with the given ID, holding its lock for
// the duration so no other request can interleave with it.
func (r *Registry) With(id string, fn func(*engine.Game) error) error {
	r.mu.RLock()
	s, ok := r.games[id]
	r.mu.RUnlock()
	if !ok {
		return ErrGameNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return fn(s.game)
}

// Delete removes a game. It reports whether the game existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return false
	}
	delete(r.games, id)
	return true
}

// Len returns the number of live games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Sweep drops games idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	if r.ttl == 0 {
		return 0
	}
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.games {
		if s.lastUsed.Before(cutoff) {
			delete(r.games, id)
			removed++
		}
	}
	return removed
}
