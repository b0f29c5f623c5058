// Package server exposes the pipeline over HTTP: a JSON API, a websocket
// status stream and a minimal embedded page. All rendering beyond that page
// is the caller's concern.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/luigi970/Signal-Hunter/internal/hunter"
	"github.com/luigi970/Signal-Hunter/internal/logger"
	"github.com/luigi970/Signal-Hunter/internal/persist"
)

// Server serves the HTTP presentation boundary.
type Server struct {
	controller *hunter.Controller
	store      *persist.Store
	startedAt  time.Time
	httpServer *http.Server
}

func NewServer(controller *hunter.Controller, store *persist.Store) *Server {
	return &Server{
		controller: controller,
		store:      store,
		startedAt:  time.Now().UTC(),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	// Pipeline runs block on slow inference calls; the stage timeouts inside
	// the controller are the real bound, this is just a backstop.
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Get("/", s.handleIndex)
	r.Get("/api/status", s.handleStatus)
	r.Post("/api/hunt", s.handleHunt)
	r.Get("/api/hunt/ws", s.handleHuntWS)
	r.Post("/api/reset", s.handleReset)
	r.Get("/api/history", s.handleHistory)
	r.Get("/api/profile", s.handleProfile)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Infof("listening on http://%s", addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// ownerID extracts the opaque authenticated-user identifier. Authentication
// itself is out of scope; callers that don't identify themselves share the
// "local" owner.
func ownerID(r *http.Request) string {
	if id := r.Header.Get("X-Owner-ID"); id != "" {
		return id
	}
	if id := r.URL.Query().Get("owner"); id != "" {
		return id
	}
	return "local"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
