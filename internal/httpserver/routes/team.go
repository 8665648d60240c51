package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/teamoff/offdays/internal/httpserver/deps"
	"github.com/teamoff/offdays/internal/httpserver/handlers"
)

func init() { Register(registerTeam) }

func registerTeam(r chi.Router, d deps.Deps) {
	r.Get("/api/team", handlers.GetTeam(d))
}
