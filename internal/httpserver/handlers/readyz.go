package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/teamoff/offdays/internal/httpserver/deps"
	"github.com/teamoff/offdays/internal/logger"
)

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Redis  string `json:"redis,omitempty"`
	Roster string `json:"roster,omitempty"`
}

// Readyz reports readiness: redis answers and, when a background reloader
// runs, the roster has been loaded at least once. The tracker itself is
// reached lazily per request and is not probed here.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		resp := readyzResponse{Ready: true}
		if d.RedisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.RedisClient.Ping(ctx).Err(); err != nil {
				d.Logger.Warn("readiness ping failed", logger.Error(err))
				resp.Ready = false
				resp.Redis = "unreachable"
			}
		}
		if d.Roster != nil {
			if _, ok := d.Roster.Current(); !ok {
				resp.Ready = false
				resp.Roster = "not loaded"
			}
		}

		if !resp.Ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
