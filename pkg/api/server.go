package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/yourusername/ludoengine/internal/config"
)

// Server is the HTTP API server.
type Server struct {
	config   config.Server
	registry *Registry
	handlers *Handlers
	server   *http.Server
	pool     *WorkerPool
	version  string
	done     chan struct{}
}

// NewServer creates an API server with its own game registry.
func NewServer(cfg config.Server, version string) *Server {
	pool := NewWorkerPool(PoolConfig{
		MaxFastWorkers: cfg.MaxFastWorkers,
		MaxSlowWorkers: cfg.MaxSlowWorkers,
	})
	registry := NewRegistry(cfg.GameTTL)
	handlers := NewHandlersWithPool(registry, version, pool)

	return &Server{
		config:   cfg,
		registry: registry,
		handlers: handlers,
		pool:     pool,
		version:  version,
		done:     make(chan struct{}),
	}
}

// Registry returns the game registry, mainly for tests.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all requests.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Info("request")
	})
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handlers.Health)

	mux.HandleFunc("POST /api/games", s.handlers.CreateGame)
	mux.HandleFunc("GET /api/games/{id}", s.handlers.GetGame)
	mux.HandleFunc("DELETE /api/games/{id}", s.handlers.DeleteGame)
	mux.HandleFunc("POST /api/games/{id}/roll", s.handlers.Roll)
	mux.HandleFunc("GET /api/games/{id}/moves", s.handlers.LegalMoves)
	mux.HandleFunc("POST /api/games/{id}/move", s.handlers.Move)
	mux.HandleFunc("POST /api/games/{id}/pass", s.handlers.Pass)

	mux.HandleFunc("POST /api/simulate", s.handlers.Simulate)
	mux.HandleFunc("GET /api/simulate/stream", s.handlers.SimulateSSE)
	mux.HandleFunc("/api/ws", s.handlers.WebSocket)

	return corsMiddleware(loggingMiddleware(mux))
}

// sweepLoop drops idle games periodically until shutdown.
func (s *Server) sweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.registry.Sweep(); n > 0 {
				log.WithField("removed", n).Info("swept idle games")
			}
		case <-s.done:
			return
		}
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	go s.sweepLoop()

	log.Infof("Starting ludo API server v%s on %s", s.version, addr)
	log.Info("Endpoints:")
	log.Info("  GET    /api/health           - Health check")
	log.Info("  POST   /api/games            - Create game")
	log.Info("  GET    /api/games/{id}       - Game state")
	log.Info("  DELETE /api/games/{id}       - Delete game")
	log.Info("  POST   /api/games/{id}/roll  - Roll the dice")
	log.Info("  GET    /api/games/{id}/moves - Legal moves")
	log.Info("  POST   /api/games/{id}/move  - Apply a move")
	log.Info("  POST   /api/games/{id}/pass  - Pass with no legal move")
	log.Info("  POST   /api/simulate         - Monte Carlo simulation")
	log.Info("  GET    /api/simulate/stream  - Simulation progress (SSE)")
	log.Info("  WS     /api/ws               - WebSocket for interactive play")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.done)
	return s.server.Shutdown(ctx)
}

// ListenAndServeWithGracefulShutdown starts the server and handles
// shutdown signals.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	errChan := make(chan error, 1)

	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Infof("Received signal %v, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
