package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yourusername/ludoengine/pkg/engine"
)

// SimulateSSE handles Server-Sent Events for streaming simulation
// progress.
// GET /api/simulate/stream?state=...&games=...&seed=...&workers=...
func (h *Handlers) SimulateSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	query := r.URL.Query()
	g, err := gameFromStateID(query.Get("state"))
	if err != nil {
		writeSSEError(w, "invalid state: "+err.Error())
		return
	}

	opts := engine.DefaultSimulationOptions()
	opts.Games = parseIntParam(query.Get("games"), opts.Games)
	opts.Seed = int64(parseIntParam(query.Get("seed"), 0))
	opts.Workers = parseIntParam(query.Get("workers"), 0)
	opts.MaxTurns = parseIntParam(query.Get("max_turns"), opts.MaxTurns)

	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeSSEError(w, "server busy")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	progress := func(p engine.SimulationProgress) {
		writeSSEEvent(w, "progress", p)
		flusher.Flush()
	}

	result, err := engine.SimulateWithProgress(g, opts, progress)
	if err != nil {
		writeSSEError(w, "simulation failed: "+err.Error())
		return
	}

	writeSSEEvent(w, "result", simToResponse(result))
	flusher.Flush()

	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// parseIntParam parses an integer from a string with a default value.
func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	var val int
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil {
		return defaultVal
	}
	return val
}
