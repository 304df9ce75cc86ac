package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/yourusername/ludoengine/internal/stateid"
	"github.com/yourusername/ludoengine/pkg/engine"
)

// Handlers holds the HTTP handlers, the game registry and the pool.
type Handlers struct {
	registry *Registry
	version  string
	pool     *WorkerPool
}

// NewHandlers creates a Handlers instance without a worker pool.
func NewHandlers(registry *Registry, version string) *Handlers {
	return &Handlers{registry: registry, version: version}
}

// NewHandlersWithPool creates a Handlers instance with a worker pool.
func NewHandlersWithPool(registry *Registry, version string, pool *WorkerPool) *Handlers {
	return &Handlers{registry: registry, version: version, pool: pool}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

// writeEngineError maps an engine rejection to its HTTP shape. Every
// engine error leaves the game unchanged, so all of these are safe for
// the client to retry with corrected input.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGameNotFound):
		writeError(w, http.StatusNotFound, err.Error(), CodeGameNotFound)
	case errors.Is(err, engine.ErrGameOver):
		writeError(w, http.StatusConflict, err.Error(), CodeGameOver)
	case errors.Is(err, engine.ErrIllegalMove):
		writeError(w, http.StatusConflict, err.Error(), CodeInvalidMove)
	case errors.Is(err, engine.ErrOutOfTurn):
		writeError(w, http.StatusConflict, err.Error(), CodeNotYourTurn)
	case errors.Is(err, engine.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error(), CodeInvalidState)
	default:
		writeError(w, http.StatusInternalServerError, err.Error(), "INTERNAL")
	}
}

// acquireFast claims a fast pool slot, writing a 503 on failure.
func (h *Handlers) acquireFast(w http.ResponseWriter, r *http.Request) bool {
	if h.pool == nil {
		return true
	}
	if err := h.pool.AcquireFast(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", CodeServerBusy)
		return false
	}
	return true
}

func (h *Handlers) releaseFast() {
	if h.pool != nil {
		h.pool.ReleaseFast()
	}
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Games:   h.registry.Len(),
	}
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateGame handles POST /api/games
func (h *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	if !h.acquireFast(w, r) {
		return
	}
	defer h.releaseFast()

	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid JSON", CodeInvalidJSON)
		return
	}

	var snap *engine.Snapshot
	if req.StateID != "" {
		s, err := stateid.Decode(req.StateID)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), CodeInvalidStateID)
			return
		}
		snap = &s
	}

	id := h.registry.Create(engine.GameOptions{Seed: req.Seed}, snap)

	var resp *GameStateResponse
	h.registry.With(id, func(g *engine.Game) error {
		resp = stateToResponse(id, g)
		return nil
	})
	writeJSON(w, http.StatusCreated, resp)
}

// GetGame handles GET /api/games/{id}
func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var resp *GameStateResponse
	err := h.registry.With(id, func(g *engine.Game) error {
		resp = stateToResponse(id, g)
		return nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteGame handles DELETE /api/games/{id}
func (h *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if !h.registry.Delete(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "game not found", CodeGameNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Roll handles POST /api/games/{id}/roll
func (h *Handlers) Roll(w http.ResponseWriter, r *http.Request) {
	if !h.acquireFast(w, r) {
		return
	}
	defer h.releaseFast()

	id := r.PathValue("id")
	var resp RollResponse
	err := h.registry.With(id, func(g *engine.Game) error {
		dice, err := g.RollDice()
		if err != nil {
			return err
		}
		player := g.CurrentPlayer()
		resp = RollResponse{
			Player:     player.String(),
			Dice:       dice,
			LegalSlots: g.LegalMoves(player, dice),
		}
		return nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if resp.LegalSlots == nil {
		resp.LegalSlots = []int{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// LegalMoves handles GET /api/games/{id}/moves?dice=N
// Without a dice parameter it uses the pending roll.
func (h *Handlers) LegalMoves(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	explicit := 0
	if s := r.URL.Query().Get("dice"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < engine.DiceMin || v > engine.DiceMax {
			writeError(w, http.StatusBadRequest, "dice must be 1-6", CodeInvalidDice)
			return
		}
		explicit = v
	}

	var resp LegalMovesResponse
	err := h.registry.With(id, func(g *engine.Game) error {
		dice := explicit
		if dice == 0 {
			pending, ok := g.DiceRoll()
			if !ok {
				return errors.New("dice parameter required when no roll is pending")
			}
			dice = pending
		}
		player := g.CurrentPlayer()
		resp = LegalMovesResponse{
			Player: player.String(),
			Dice:   dice,
			Slots:  g.LegalMoves(player, dice),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrGameNotFound) {
			writeEngineError(w, err)
		} else {
			writeError(w, http.StatusBadRequest, err.Error(), CodeInvalidDice)
		}
		return
	}
	if resp.Slots == nil {
		resp.Slots = []int{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Move handles POST /api/games/{id}/move
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	if !h.acquireFast(w, r) {
		return
	}
	defer h.releaseFast()

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", CodeInvalidJSON)
		return
	}
	color, err := engine.ParseColor(req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), CodeInvalidColor)
		return
	}

	id := r.PathValue("id")
	var resp *MoveResponse
	err = h.registry.With(id, func(g *engine.Game) error {
		res, err := g.ApplyMove(color, req.Slot, req.Dice)
		if err != nil {
			return err
		}
		resp = moveToResponse(res, stateToResponse(id, g))
		return nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Pass handles POST /api/games/{id}/pass
func (h *Handlers) Pass(w http.ResponseWriter, r *http.Request) {
	if !h.acquireFast(w, r) {
		return
	}
	defer h.releaseFast()

	var req PassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", CodeInvalidJSON)
		return
	}
	color, err := engine.ParseColor(req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), CodeInvalidColor)
		return
	}

	id := r.PathValue("id")
	var resp PassResponse
	err = h.registry.With(id, func(g *engine.Game) error {
		if err := g.PassTurn(color, req.Dice); err != nil {
			return err
		}
		resp = PassResponse{
			Player: color.String(),
			Dice:   req.Dice,
			Next:   g.CurrentPlayer().String(),
		}
		return nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Simulate handles POST /api/simulate
func (h *Handlers) Simulate(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", CodeServerBusy)
			return
		}
		defer h.pool.ReleaseSlow()
	}

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid JSON", CodeInvalidJSON)
		return
	}

	g, err := gameFromStateID(req.StateID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), CodeInvalidStateID)
		return
	}

	opts := engine.DefaultSimulationOptions()
	if req.Games > 0 {
		opts.Games = req.Games
	}
	opts.Seed = req.Seed
	opts.Workers = req.Workers
	if req.MaxTurns > 0 {
		opts.MaxTurns = req.MaxTurns
	}

	res, err := engine.Simulate(g, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), CodeSimFailed)
		return
	}
	writeJSON(w, http.StatusOK, simToResponse(res))
}

// gameFromStateID builds a throwaway game for simulation: from the
// given state ID, or the opening position when empty.
func gameFromStateID(id string) (*engine.Game, error) {
	if id == "" {
		return engine.NewGame(engine.GameOptions{}), nil
	}
	snap, err := stateid.Decode(id)
	if err != nil {
		return nil, err
	}
	return engine.NewGameFromSnapshot(snap, engine.GameOptions{}), nil
}
