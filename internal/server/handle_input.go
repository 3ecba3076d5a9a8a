package server

import (
	"errors"
	"net/http"

	"github.com/iffykid/Valentines2026/internal/session"
)

// handleInput feeds one interaction event to a session. Render commands
// triggered by it are delivered to the session's connected surfaces.
func handleInput() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app := sessionFrom(r)

		var ev session.Event
		if err := readJSON(w, r, &ev); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		err := app.Handle(ev)
		switch {
		case errors.Is(err, session.ErrStopped):
			writeError(w, http.StatusGone, "session ended")
			return
		case err != nil:
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}
