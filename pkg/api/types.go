// Package api provides the HTTP/JSON surface for the Ludo rules engine:
// a registry of concurrent games plus REST, WebSocket and SSE adapters
// over the engine's call interface.
package api

import (
	"github.com/yourusername/ludoengine/internal/stateid"
	"github.com/yourusername/ludoengine/pkg/engine"
)

// ============================================================================
// Request Types
// ============================================================================

// CreateGameRequest is the request body for creating a game.
type CreateGameRequest struct {
	Seed    int64  `json:"seed,omitempty"`     // dice RNG seed (0 = random)
	StateID string `json:"state_id,omitempty"` // start from a snapshot instead of fresh
}

// MoveRequest is the request body for applying a move.
type MoveRequest struct {
	Color string `json:"color"` // "red", "blue", "green", "yellow"
	Slot  int    `json:"slot"`  // token slot 0-3
	Dice  int    `json:"dice"`  // dice value 1-6, must match the pending roll
}

// PassRequest is the request body for passing a turn with no legal move.
type PassRequest struct {
	Color string `json:"color"`
	Dice  int    `json:"dice"`
}

// SimulateRequest is the request body for Monte Carlo simulation.
type SimulateRequest struct {
	StateID  string `json:"state_id,omitempty"`  // starting snapshot (default: fresh game)
	Games    int    `json:"games,omitempty"`     // number of games (default 1000)
	Seed     int64  `json:"seed,omitempty"`      // RNG seed (0 = random)
	Workers  int    `json:"workers,omitempty"`   // parallel workers (0 = all cores)
	MaxTurns int    `json:"max_turns,omitempty"` // per-game turn cap
}

// ============================================================================
// Response Types
// ============================================================================

// PositionResponse is the JSON shape of a token position.
type PositionResponse struct {
	Place string `json:"place"`           // "base", "track", "home", "finished"
	Index int    `json:"index,omitempty"` // track 0-51 or home 0-4
}

// TokenResponse is one token in a state response.
type TokenResponse struct {
	Slot     int              `json:"slot"`
	Position PositionResponse `json:"position"`
}

// PlayerResponse is one player's tokens in a state response.
type PlayerResponse struct {
	Color    string          `json:"color"`
	Tokens   []TokenResponse `json:"tokens"`
	Finished int             `json:"finished"` // tokens that reached the end
}

// GameStateResponse is the full observable state of a game.
type GameStateResponse struct {
	GameID  string           `json:"game_id,omitempty"`
	StateID string           `json:"state_id"`
	Current string           `json:"current"`
	Dice    int              `json:"dice,omitempty"` // pending roll, omitted when none
	Winner  string           `json:"winner,omitempty"`
	Players []PlayerResponse `json:"players"`
}

// RollResponse is the response for a dice roll.
type RollResponse struct {
	Player     string `json:"player"`
	Dice       int    `json:"dice"`
	LegalSlots []int  `json:"legal_slots"` // empty means the turn must be passed
}

// LegalMovesResponse lists the slots with a legal move.
type LegalMovesResponse struct {
	Player string `json:"player"`
	Dice   int    `json:"dice"`
	Slots  []int  `json:"slots"`
}

// CapturedResponse identifies one captured token.
type CapturedResponse struct {
	Color string `json:"color"`
	Slot  int    `json:"slot"`
}

// MoveResponse is the response for an applied move: the data the
// presentation layer needs to animate and continue.
type MoveResponse struct {
	Color    string             `json:"color"`
	Slot     int                `json:"slot"`
	Dice     int                `json:"dice"`
	From     PositionResponse   `json:"from"`
	To       PositionResponse   `json:"to"`
	Path     []PositionResponse `json:"path"` // step sequence ending at "to"
	Captured []CapturedResponse `json:"captured,omitempty"`
	Bonus    bool               `json:"bonus"` // a six: same player rolls again
	Next     string             `json:"next"`
	Winner   string             `json:"winner,omitempty"`
	State    *GameStateResponse `json:"state,omitempty"`
}

// PassResponse is the response for a passed turn.
type PassResponse struct {
	Player string `json:"player"`
	Dice   int    `json:"dice"`
	Next   string `json:"next"`
}

// SimulateResponse is the response for a completed simulation.
type SimulateResponse struct {
	Games           int                `json:"games"`
	Unfinished      int                `json:"unfinished,omitempty"`
	Wins            map[string]int     `json:"wins"`
	WinRates        map[string]float64 `json:"win_rates"`
	MeanTurns       float64            `json:"mean_turns"`
	TurnsStdDev     float64            `json:"turns_std_dev"`
	TurnsStdErr     float64            `json:"turns_std_err"`
	Captures        int                `json:"captures"`
	CapturesPerGame float64            `json:"captures_per_game"`
}

// ErrorResponse is returned when a request fails.
type ErrorResponse struct {
	Error   string `json:"error"`             // human-readable message
	Code    string `json:"code,omitempty"`    // stable error code
	Details string `json:"details,omitempty"` // additional context
}

// HealthResponse is the response for the health check.
type HealthResponse struct {
	Status  string     `json:"status"`
	Version string     `json:"version"`
	Games   int        `json:"games"` // live games in the registry
	Pool    *PoolStats `json:"pool,omitempty"`
}

// Stable error codes.
const (
	CodeInvalidJSON    = "INVALID_JSON"
	CodeInvalidColor   = "INVALID_COLOR"
	CodeInvalidDice    = "INVALID_DICE"
	CodeInvalidStateID = "INVALID_STATE_ID"
	CodeGameNotFound   = "GAME_NOT_FOUND"
	CodeInvalidMove    = "INVALID_MOVE"
	CodeNotYourTurn    = "NOT_YOUR_TURN"
	CodeInvalidState   = "INVALID_STATE"
	CodeGameOver       = "GAME_OVER"
	CodeServerBusy     = "SERVER_BUSY"
	CodeSimFailed      = "SIMULATION_FAILED"
)

// ============================================================================
// Helper Functions
// ============================================================================

// positionToResponse converts an engine position to its JSON shape.
func positionToResponse(p engine.Position) PositionResponse {
	switch p.Kind {
	case engine.PosTrack:
		return PositionResponse{Place: "track", Index: p.Index}
	case engine.PosHome:
		return PositionResponse{Place: "home", Index: p.Index}
	case engine.PosFinished:
		return PositionResponse{Place: "finished"}
	}
	return PositionResponse{Place: "base"}
}

// stateToResponse builds the full state response for a game.
func stateToResponse(gameID string, g *engine.Game) *GameStateResponse {
	snap := g.Snapshot()
	resp := &GameStateResponse{
		GameID:  gameID,
		StateID: stateid.Encode(snap),
		Current: snap.Current.String(),
		Dice:    snap.Dice,
		Players: make([]PlayerResponse, 0, engine.NumColors),
	}
	if winner, ok := g.Winner(); ok {
		resp.Winner = winner.String()
	}

	for c := 0; c < engine.NumColors; c++ {
		color := engine.Color(c)
		pr := PlayerResponse{
			Color:    color.String(),
			Tokens:   make([]TokenResponse, 0, engine.TokensPerColor),
			Finished: g.FinishedCount(color),
		}
		for _, t := range g.Tokens(color) {
			pr.Tokens = append(pr.Tokens, TokenResponse{
				Slot:     t.ID.Slot,
				Position: positionToResponse(t.Pos),
			})
		}
		resp.Players = append(resp.Players, pr)
	}
	return resp
}

// moveToResponse converts a MoveResult to its JSON shape.
func moveToResponse(res *engine.MoveResult, state *GameStateResponse) *MoveResponse {
	resp := &MoveResponse{
		Color: res.Token.Color.String(),
		Slot:  res.Token.Slot,
		Dice:  res.Dice,
		From:  positionToResponse(res.From),
		To:    positionToResponse(res.To),
		Path:  make([]PositionResponse, 0, len(res.Path)),
		Bonus: res.Bonus,
		Next:  res.Next.String(),
		State: state,
	}
	for _, p := range res.Path {
		resp.Path = append(resp.Path, positionToResponse(p))
	}
	for _, id := range res.Captured {
		resp.Captured = append(resp.Captured, CapturedResponse{
			Color: id.Color.String(),
			Slot:  id.Slot,
		})
	}
	if res.Winner != engine.NoColor {
		resp.Winner = res.Winner.String()
	}
	return resp
}

// simToResponse converts a SimulationResult to its JSON shape.
func simToResponse(res *engine.SimulationResult) *SimulateResponse {
	resp := &SimulateResponse{
		Games:           res.Games,
		Unfinished:      res.Unfinished,
		Wins:            make(map[string]int, engine.NumColors),
		WinRates:        make(map[string]float64, engine.NumColors),
		MeanTurns:       res.MeanTurns,
		TurnsStdDev:     res.TurnsStdDev,
		TurnsStdErr:     res.TurnsStdErr,
		Captures:        res.Captures,
		CapturesPerGame: res.CapturesPerGame,
	}
	for c := 0; c < engine.NumColors; c++ {
		name := engine.Color(c).String()
		resp.Wins[name] = res.Wins[c]
		resp.WinRates[name] = res.WinRate[c]
	}
	return resp
}
