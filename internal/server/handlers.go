package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/luigi970/Signal-Hunter/internal/hunter"
)

type huntRequest struct {
	Query string `json:"query"`
}

type huntResponse struct {
	Status    hunter.PipelineStatus `json:"status"`
	Result    *hunter.SearchResult  `json:"result,omitempty"`
	Synthesis hunter.Outcome        `json:"synthesis,omitempty"`
	Warnings  []string              `json:"warnings,omitempty"`
	Persisted bool                  `json:"persisted"`
}

func (s *Server) handleHunt(w http.ResponseWriter, r *http.Request) {
	var req huntRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	outcome, err := s.controller.Run(r.Context(), hunter.RunContext{
		OwnerID: ownerID(r),
		Query:   req.Query,
	})
	switch {
	case errors.Is(err, hunter.ErrEmptyQuery):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	case errors.Is(err, hunter.ErrBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a hunt is already in flight"})
		return
	case err != nil:
		// Cause stays in the logs; the client gets the generic status.
		writeJSON(w, http.StatusBadGateway, huntResponse{Status: s.controller.Status()})
		return
	}

	writeJSON(w, http.StatusOK, huntResponse{
		Status:    s.controller.Status(),
		Result:    outcome.Result,
		Synthesis: outcome.Synthesis,
		Warnings:  outcome.Warnings,
		Persisted: outcome.Persisted,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.controller.Reset()
	writeJSON(w, http.StatusOK, map[string]any{"status": s.controller.Status()})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	searches, err := s.store.ListSearches(ownerID(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load history"})
		return
	}
	if searches == nil {
		searches = []hunter.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"searches": searches})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.EnsureProfile(ownerID(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{
		"ok":         true,
		"stage":      s.controller.Status().Stage,
		"started_at": s.startedAt.Format(time.RFC3339),
		"uptime_sec": int(time.Since(s.startedAt).Seconds()),
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := p.MemoryInfo(); err == nil {
			payload["rss_bytes"] = mem.RSS
		}
	}
	writeJSON(w, http.StatusOK, payload)
}
