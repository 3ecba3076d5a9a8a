package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/iffykid/Valentines2026/internal/web"
)

func addRoutes(r chi.Router, logger *slog.Logger, loader DocumentLoader, sessions *Registry, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Valentines API", "/openapi.json", "/docs"))

	r.Post("/api/sessions", handleCreateSession(logger, loader, sessions))
	r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
		r.Use(sessionMiddleware(sessions))
		r.Get("/", handleSessionState())
		r.Delete("/", handleEndSession(sessions))
		r.Post("/events", handleInput())
		r.Get("/ws", handleSurface(logger, sessions))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(os.DirFS(spaDir)))
			return
		}
	}
	r.NotFound(handleSPA(web.FS()))
}
