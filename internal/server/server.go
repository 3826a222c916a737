// Package server exposes sweeps over HTTP: run submission, synchronous
// status queries and a WebSocket push channel for progress snapshots.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hoops-edge-lab/internal/domain"
	"hoops-edge-lab/internal/grid"
	"hoops-edge-lab/internal/observability"
	"hoops-edge-lab/internal/sweep"
)

// writeWait bounds how long a slow WebSocket peer can block one send.
const writeWait = 10 * time.Second

// Server routes sweep requests to the run registry.
type Server struct {
	registry *sweep.Registry
	defaults domain.SweepConfig
	metrics  *observability.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// ServerOptions wires a Server. Defaults fills request fields the
// caller omits.
type ServerOptions struct {
	Registry *sweep.Registry
	Defaults domain.SweepConfig
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

func NewServer(opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		registry: opts.Registry,
		defaults: opts.Defaults,
		metrics:  opts.Metrics,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/runs", s.handleStartRun)
	mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /ws/runs/{id}", s.handleProgressWS)
	mux.Handle("GET /metrics", observability.Handler())
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStartRun accepts a partial sweep config, fills defaults,
// validates, and answers immediately with the new run id.
func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	cfg := s.defaults
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if cfg.Season == "" {
		writeError(w, http.StatusBadRequest, "season is required")
		return
	}
	if err := grid.Validate(cfg.Grid); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := grid.ValidateRatios(cfg.Ratios); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	runID := s.registry.Start(cfg)
	s.logger.Info("run accepted",
		zap.String("run_id", runID),
		zap.String("season", cfg.Season))

	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	state, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, sweep.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleProgressWS streams progress snapshots until the run leaves the
// running state or the peer goes away. Delivery inherits the hub's
// semantics: the client always gets the latest snapshot, never a
// replay of history.
func (s *Server) handleProgressWS(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	sub, err := s.registry.Subscribe(runID)
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	defer sub.Close()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer conn.Close()

	if s.metrics != nil {
		s.metrics.ProgressSubscribers.Inc()
		defer s.metrics.ProgressSubscribers.Dec()
	}

	// Reader goroutine: we never expect client messages, but reading
	// is how close frames are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap, ok := <-sub.C():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
			if snap.Status != domain.RunStatusRunning {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(snap.Status)))
				return
			}
		case <-done:
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
