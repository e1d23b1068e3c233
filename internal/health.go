package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// pinger reports whether a backing store is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

type readiness struct {
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	SSEClients int    `json:"sse_clients"`
}

// readyHandler answers 503 while the history store is unreachable. clients
// reports the number of connected event stream clients.
func readyHandler(db pinger, clients func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		body := readiness{Status: "ok", SSEClients: clients()}
		status := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			slog.Warn("readiness check failed", slog.String("error", err.Error()))
			body.Status = "unavailable"
			body.Error = err.Error()
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
