package music

import (
	"net/url"
	"strings"

	"github.com/starford/moodmusic/internal/models"
)

// Route prefixes of the asset server, relative to the public base URL.
const (
	StaticRoute   = "/api/music/"
	ExpandedRoute = "/api/music/expanded/"
)

// TrackURL returns the address under which the asset server serves t.
// The file component is escaped with url.PathEscape, so slashes, spaces,
// parentheses and non-ASCII characters survive as a single path segment;
// the asset server reverses it with url.PathUnescape.
func TrackURL(base string, t models.Track) string {
	route := StaticRoute
	if t.Origin == models.OriginExpanded {
		route = ExpandedRoute
	}
	return strings.TrimRight(base, "/") + route + url.PathEscape(t.File)
}
