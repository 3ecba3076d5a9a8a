package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iffykid/Valentines2026/internal/quiz"
	"github.com/iffykid/Valentines2026/internal/session"
)

// DocumentLoader fetches the configuration document for a new session.
type DocumentLoader interface {
	Load(ctx context.Context) (*quiz.Document, error)
}

type CreateSessionResponse struct {
	ID string `json:"id"`
}

// handleCreateSession loads the configuration and starts a session. A load
// failure is terminal for this page; the client shows the diagnostic.
func handleCreateSession(logger *slog.Logger, loader DocumentLoader, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := loader.Load(r.Context())
		if err != nil {
			logger.Error("loading configuration", "error", err)
			writeError(w, http.StatusServiceUnavailable, "configuration unavailable")
			return
		}

		app := sessions.Create(doc)
		writeJSON(w, http.StatusCreated, CreateSessionResponse{ID: app.ID()})
	}
}

func handleSessionState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app := sessionFrom(r)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		st, err := app.Snapshot(ctx)
		if errors.Is(err, session.ErrStopped) {
			writeError(w, http.StatusGone, "session ended")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func handleEndSession(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.Remove(sessionFrom(r).ID())
		w.WriteHeader(http.StatusNoContent)
	}
}
