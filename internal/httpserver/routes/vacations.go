package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/teamoff/offdays/internal/httpserver/deps"
	"github.com/teamoff/offdays/internal/httpserver/handlers"
)

func init() { Register(registerVacations) }

func registerVacations(r chi.Router, d deps.Deps) {
	r.Route("/api/vacations", func(r chi.Router) {
		r.Get("/", handlers.ListVacations(d))
		r.Post("/", handlers.CreateVacation(d))
		r.Get("/upcoming", handlers.ListUpcoming(d))
		r.Get("/{id}", handlers.GetVacation(d))
		r.Patch("/{id}", handlers.UpdateVacation(d))
		r.Delete("/{id}", handlers.CancelVacation(d))
	})
}
