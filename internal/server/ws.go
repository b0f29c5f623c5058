package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/luigi970/Signal-Hunter/internal/hunter"
	"github.com/luigi970/Signal-Hunter/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsFrame struct {
	Type      string                 `json:"type"` // "status" | "result" | "error"
	Status    *hunter.PipelineStatus `json:"status,omitempty"`
	Result    *hunter.SearchResult   `json:"result,omitempty"`
	Synthesis hunter.Outcome         `json:"synthesis,omitempty"`
	Warnings  []string               `json:"warnings,omitempty"`
	Persisted bool                   `json:"persisted,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// handleHuntWS runs one pipeline run and streams a status frame after every
// transition, ending with a result (or error) frame. The query comes from
// the "query" URL parameter since browsers cannot set headers on websockets.
func (s *Server) handleHuntWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	statusCh, cancelSub := s.controller.Subscribe()
	defer cancelSub()

	type runResult struct {
		outcome *hunter.RunOutcome
		err     error
	}
	done := make(chan runResult, 1)
	go func() {
		outcome, err := s.controller.Run(context.Background(), hunter.RunContext{
			OwnerID: ownerID(r),
			Query:   r.URL.Query().Get("query"),
		})
		done <- runResult{outcome: outcome, err: err}
	}()

	for {
		select {
		case st := <-statusCh:
			if err := conn.WriteJSON(wsFrame{Type: "status", Status: &st}); err != nil {
				logger.Debugf("ws write failed, dropping stream: %v", err)
				return
			}
		case res := <-done:
			// Drain statuses queued before the run settled.
			for {
				select {
				case st := <-statusCh:
					if err := conn.WriteJSON(wsFrame{Type: "status", Status: &st}); err != nil {
						return
					}
					continue
				default:
				}
				break
			}

			if res.err != nil {
				status := s.controller.Status()
				frame := wsFrame{Type: "error", Status: &status}
				// Gate rejections are safe to name; pipeline failures only
				// surface the generic status message.
				switch {
				case errors.Is(res.err, hunter.ErrEmptyQuery), errors.Is(res.err, hunter.ErrBusy):
					frame.Error = res.err.Error()
				default:
					frame.Error = status.Message
				}
				_ = conn.WriteJSON(frame)
				return
			}
			status := s.controller.Status()
			_ = conn.WriteJSON(wsFrame{
				Type:      "result",
				Status:    &status,
				Result:    res.outcome.Result,
				Synthesis: res.outcome.Synthesis,
				Warnings:  res.outcome.Warnings,
				Persisted: res.outcome.Persisted,
			})
			return
		}
	}
}
