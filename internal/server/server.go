// Package server exposes tables over HTTP and websockets.
//
// Each table has a Hub, which is the engine's publisher. Clients connect to
// /tables/{id}/ws?player=<id> and receive every state change with only their
// own hole cards visible. Players send {"action":"raise","amount":40} and
// get {"type":"rejected"} back when the table refuses it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-engine/internal/statistics"
)

var errNoTable = errors.New("table not attached")

const shutdownTimeout = 5 * time.Second

// Server routes HTTP and websocket requests to table hubs.
type Server struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu   sync.RWMutex
	hubs map[string]*Hub
}

// New creates a server with no tables.
func New(logger *log.Logger) *Server {
	return &Server{
		logger: logger.WithPrefix("server"),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		hubs: make(map[string]*Hub),
	}
}

// Register attaches table to hub and makes it reachable under hub.ID().
func (s *Server) Register(hub *Hub, table Table) {
	hub.attach(table)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hubs[hub.ID()] = hub
}

// Hub returns the hub for a table id.
func (s *Server) Hub(id string) (*Hub, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hubs[id]
	return h, ok
}

func (s *Server) sortedHubs() []*Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hubs := make([]*Hub, 0, len(s.hubs))
	for _, h := range s.hubs {
		hubs = append(hubs, h)
	}
	sort.Slice(hubs, func(i, j int) bool { return hubs[i].ID() < hubs[j].ID() })
	return hubs
}

// Stats returns every table's statistics keyed by table id.
func (s *Server) Stats() map[string]statistics.Summary {
	out := make(map[string]statistics.Summary)
	for _, h := range s.sortedHubs() {
		out[h.ID()] = h.Stats().Summary()
	}
	return out
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/tables", s.handleListTables)
	r.Route("/tables/{id}", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/stats", s.handleStats)
		r.Get("/history", s.handleHistory)
		r.Post("/actions", s.handleAction)
		r.Get("/ws", s.handleWebSocket)
	})
	return r
}

// Serve listens on addr until ctx is cancelled, then closes every client and
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	for _, h := range s.sortedHubs() {
		h.closeAll()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables := []TableSummary{}
	for _, h := range s.sortedHubs() {
		snap, err := h.Latest()
		if err != nil {
			s.logger.Warn("skipping table", "table", h.ID(), "err", err)
			continue
		}
		tables = append(tables, TableSummary{
			ID:         h.ID(),
			Status:     snap.Status,
			HandNumber: snap.HandNumber,
			Street:     snap.Street,
			Players:    len(snap.Seats),
			SeatsMax:   snap.SeatsMax,
			SmallBlind: snap.SmallBlind,
			BigBlind:   snap.BigBlind,
		})
	}
	writeJSON(w, http.StatusOK, tables)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	hub, ok := s.Hub(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorMessage("unknown table"))
		return
	}
	snap, err := hub.Latest()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorMessage(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, snap.ForViewer(r.URL.Query().Get("player")))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	hub, ok := s.Hub(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorMessage("unknown table"))
		return
	}
	writeJSON(w, http.StatusOK, hub.Stats().Summary())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	hub, ok := s.Hub(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorMessage("unknown table"))
		return
	}
	data, ok := hub.LastHand()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorMessage("no finished hand yet"))
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	hub, ok := s.Hub(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorMessage("unknown table"))
		return
	}

	var req ActionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorMessage("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		writeJSON(w, http.StatusBadRequest, errorMessage("playerId is required"))
		return
	}

	switch msg := applyAction(hub, req.PlayerID, req); {
	case msg == nil:
		w.WriteHeader(http.StatusNoContent)
	case msg.Type == MessageTypeRejected:
		writeJSON(w, http.StatusConflict, msg)
	default:
		writeJSON(w, http.StatusBadRequest, msg)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	hub, ok := s.Hub(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "unknown table", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "err", err)
		return
	}

	c := NewConnection(conn, hub, r.URL.Query().Get("player"), s.logger)
	c.Start()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
