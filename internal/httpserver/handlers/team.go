package handlers

import (
	"net/http"

	"github.com/teamoff/offdays/internal/httpserver/deps"
	"github.com/teamoff/offdays/internal/httpserver/mw"
)

// GetTeam serves the roster: members, roles and the vacation type catalog.
func GetTeam(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cfg, err := currentRoster(ctx, d, mw.TokenFrom(ctx))
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeData(w, http.StatusOK, cfg)
	}
}
