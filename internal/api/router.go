package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/moodmusic/internal/musicservice"
)

// NewRouter creates a chi router with all API routes, to be mounted at /api.
// Catalog, resolve and asset routes are public; history, reload, verify
// and the event stream sit behind the auth middleware when authEnabled is true.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *musicservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	ah := NewAssetHandler(svc)

	r := chi.NewRouter()

	r.Get("/music", h.ListTracks)
	r.Get("/music/resolve", h.Resolve)
	r.Get("/music/stats", h.Stats)
	r.Get("/music/moods", h.Moods)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Get("/music/history", h.History)
		r.Post("/music/reload", h.Reload)
		r.Post("/music/verify", h.Verify)
		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	// Audio files, addressed exactly as music.TrackURL builds them.
	r.Get("/music/expanded/*", ah.ServeExpanded)
	r.Get("/music/*", ah.ServeStatic)

	return r
}
