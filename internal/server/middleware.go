package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iffykid/Valentines2026/internal/session"
)

type ctxKey int

const ctxKeySession ctxKey = iota

// sessionMiddleware resolves {sessionID} and stores the live session in the
// request context.
func sessionMiddleware(sessions *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "sessionID")
			if id == "" {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}

			app, err := sessions.Get(id)
			if err != nil {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, app)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(r *http.Request) *session.App {
	return r.Context().Value(ctxKeySession).(*session.App)
}
