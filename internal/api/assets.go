package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/starford/moodmusic/internal/apperr"
	"github.com/starford/moodmusic/internal/models"
	"github.com/starford/moodmusic/internal/musicservice"
)

// AssetHandler serves audio files from the music root and the expanded tree.
type AssetHandler struct {
	svc *musicservice.Service
}

// NewAssetHandler creates a handler backed by the music service.
func NewAssetHandler(svc *musicservice.Service) *AssetHandler {
	return &AssetHandler{svc: svc}
}

// assetName extracts the file name from the last escaped path segment and
// decodes it with url.PathUnescape, the inverse of music.TrackURL.
func assetName(r *http.Request) (string, error) {
	ep := r.URL.EscapedPath()
	seg := ep[strings.LastIndex(ep, "/")+1:]
	return url.PathUnescape(seg)
}

// ServeStatic handles GET /api/music/{file}.
func (h *AssetHandler) ServeStatic(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, models.OriginStatic)
}

// ServeExpanded handles GET /api/music/expanded/{mood%2Ffile}.
func (h *AssetHandler) ServeExpanded(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, models.OriginExpanded)
}

func (h *AssetHandler) serve(w http.ResponseWriter, r *http.Request, origin models.Origin) {
	name, err := assetName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file name encoding")
		return
	}
	abs, err := h.svc.AssetPath(origin, name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("resolve asset failed", slog.String("file", name), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	http.ServeFile(w, r, abs)
}
