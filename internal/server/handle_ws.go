package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"nhooyr.io/websocket"

	"github.com/iffykid/Valentines2026/internal/session"
)

// handleSurface binds a page to a session over a WebSocket: text messages
// from the page are Events, messages to the page are Commands.
func handleSurface(logger *slog.Logger, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app := sessionFrom(r)
		id := app.ID()

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		broker := sessions.Broker()
		ch := broker.Subscribe(id)
		defer func() {
			left := broker.Unsubscribe(id, ch)
			sessions.Touch(id)
			logger.Debug("surface disconnected", "session_id", id, "remaining", left)
		}()

		app.Sync()

		go func() {
			defer cancel()
			for {
				select {
				case <-ctx.Done():
					return
				case data := <-ch:
					if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
						logger.Debug("websocket write failed", "session_id", id, "error", err)
						return
					}
				}
			}
		}()

		for {
			_, msg, err := conn.Read(ctx)
			if err != nil {
				logger.Debug("websocket read ended", "session_id", id, "error", err)
				return
			}

			var ev session.Event
			if err := json.Unmarshal(msg, &ev); err != nil {
				logger.Warn("malformed event", "session_id", id, "error", err)
				continue
			}
			if err := app.Handle(ev); err != nil {
				logger.Warn("event rejected", "session_id", id, "type", ev.Type, "error", err)
				if errors.Is(err, session.ErrStopped) {
					conn.Close(websocket.StatusGoingAway, "session ended")
					return
				}
			}
		}
	}
}
