package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/yourusername/ludoengine/internal/stateid"
	"github.com/yourusername/ludoengine/pkg/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins; tighten for production deployments
	},
}

// WSMessage is a client-to-server WebSocket message. Each message names
// the game it addresses; the connection itself holds no game state.
type WSMessage struct {
	Type    string          `json:"type"`    // "create", "state", "roll", "move", "pass", "legal", "ping"
	ID      string          `json:"id"`      // request ID for correlating responses
	GameID  string          `json:"game_id"` // target game (absent for "create")
	Payload json.RawMessage `json:"payload"` // type-specific payload
}

// WSResponse is a server-to-client WebSocket message.
type WSResponse struct {
	Type    string      `json:"type"`              // "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // request ID
	Payload interface{} `json:"payload,omitempty"` // response data
	Error   string      `json:"error,omitempty"`   // error message if any
	Code    string      `json:"code,omitempty"`    // stable error code if any
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
	mu       sync.Mutex
}

// WebSocket handles WebSocket connections for interactive play.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	client := &WSClient{conn: conn, handlers: h, sendChan: make(chan WSResponse, 256)}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "create":
		c.handleCreate(msg)
	case "state":
		c.handleState(msg)
	case "roll":
		c.handleRoll(msg)
	case "move":
		c.handleMove(msg)
	case "pass":
		c.handlePass(msg)
	case "legal":
		c.handleLegal(msg)
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type"}
	}
}

// sendError maps an engine rejection onto a WS error response.
func (c *WSClient) sendError(id string, err error) {
	code := CodeInvalidState
	switch {
	case errors.Is(err, ErrGameNotFound):
		code = CodeGameNotFound
	case errors.Is(err, engine.ErrGameOver):
		code = CodeGameOver
	case errors.Is(err, engine.ErrIllegalMove):
		code = CodeInvalidMove
	case errors.Is(err, engine.ErrOutOfTurn):
		code = CodeNotYourTurn
	}
	c.sendChan <- WSResponse{Type: "error", ID: id, Error: err.Error(), Code: code}
}

func (c *WSClient) handleCreate(msg WSMessage) {
	var req CreateGameRequest
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: CodeInvalidJSON}
			return
		}
	}

	var snap *engine.Snapshot
	if req.StateID != "" {
		s, err := stateid.Decode(req.StateID)
		if err != nil {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error(), Code: CodeInvalidStateID}
			return
		}
		snap = &s
	}

	id := c.handlers.registry.Create(engine.GameOptions{Seed: req.Seed}, snap)
	var resp *GameStateResponse
	c.handlers.registry.With(id, func(g *engine.Game) error {
		resp = stateToResponse(id, g)
		return nil
	})
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}

func (c *WSClient) handleState(msg WSMessage) {
	var resp *GameStateResponse
	err := c.handlers.registry.With(msg.GameID, func(g *engine.Game) error {
		resp = stateToResponse(msg.GameID, g)
		return nil
	})
	if err != nil {
		c.sendError(msg.ID, err)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}

func (c *WSClient) handleRoll(msg WSMessage) {
	var resp RollResponse
	err := c.handlers.registry.With(msg.GameID, func(g *engine.Game) error {
		dice, err := g.RollDice()
		if err != nil {
			return err
		}
		player := g.CurrentPlayer()
		slots := g.LegalMoves(player, dice)
		if slots == nil {
			slots = []int{}
		}
		resp = RollResponse{Player: player.String(), Dice: dice, LegalSlots: slots}
		return nil
	})
	if err != nil {
		c.sendError(msg.ID, err)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}

func (c *WSClient) handleMove(msg WSMessage) {
	var req MoveRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: CodeInvalidJSON}
		return
	}
	color, err := engine.ParseColor(req.Color)
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error(), Code: CodeInvalidColor}
		return
	}

	var resp *MoveResponse
	err = c.handlers.registry.With(msg.GameID, func(g *engine.Game) error {
		res, err := g.ApplyMove(color, req.Slot, req.Dice)
		if err != nil {
			return err
		}
		resp = moveToResponse(res, stateToResponse(msg.GameID, g))
		return nil
	})
	if err != nil {
		c.sendError(msg.ID, err)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}

func (c *WSClient) handlePass(msg WSMessage) {
	var req PassRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: CodeInvalidJSON}
		return
	}
	color, err := engine.ParseColor(req.Color)
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error(), Code: CodeInvalidColor}
		return
	}

	var resp PassResponse
	err = c.handlers.registry.With(msg.GameID, func(g *engine.Game) error {
		if err := g.PassTurn(color, req.Dice); err != nil {
			return err
		}
		resp = PassResponse{Player: color.String(), Dice: req.Dice, Next: g.CurrentPlayer().String()}
		return nil
	})
	if err != nil {
		c.sendError(msg.ID, err)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}

func (c *WSClient) handleLegal(msg WSMessage) {
	var req struct {
		Dice int `json:"dice"`
	}
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: CodeInvalidJSON}
			return
		}
	}

	var resp LegalMovesResponse
	err := c.handlers.registry.With(msg.GameID, func(g *engine.Game) error {
		dice := req.Dice
		if dice == 0 {
			pending, ok := g.DiceRoll()
			if !ok {
				return errors.New("dice required when no roll is pending")
			}
			dice = pending
		}
		player := g.CurrentPlayer()
		slots := g.LegalMoves(player, dice)
		if slots == nil {
			slots = []int{}
		}
		resp = LegalMovesResponse{Player: player.String(), Dice: dice, Slots: slots}
		return nil
	})
	if err != nil {
		c.sendError(msg.ID, err)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}
