/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/persons/*           Persons, balances, working-time overrides
  /api/accounts            Holiday accounts
  /api/balances            Batch balance report
  /api/applications        Leave applications
  /api/sicknotes           Sick notes
  /api/vacation-types/*    Vacation types
  /api/absences/*          Absence timelines and spans
  /api/settings/*          Working-time settings
  /api/scenarios/*         Demo scenarios
  /api/reset               Database reset (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/persons", func(r chi.Router) {
			r.Get("/", h.ListPersons)
			r.Post("/", h.CreatePerson)
			r.Get("/{id}", h.GetPerson)
			r.Get("/{id}/balance", h.GetBalance)
			r.Put("/{id}/working-time", h.SetWorkingTime)
		})

		r.Post("/accounts", h.SaveAccount)
		r.Get("/balances", h.GetBatchBalances)

		r.Post("/applications", h.CreateApplication)
		r.Post("/sicknotes", h.CreateSickNote)

		r.Route("/vacation-types", func(r chi.Router) {
			r.Post("/", h.CreateVacationType)
			r.Get("/{id}", h.GetVacationType)
		})

		r.Route("/absences", func(r chi.Router) {
			r.Get("/", h.GetAbsences)
			r.Get("/spans", h.GetAbsenceSpans)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/working-time", h.GetWorkingTimeSettings)
			r.Put("/working-time", h.UpdateWorkingTimeSettings)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})

		// Development endpoint
		r.Post("/reset", h.ResetDatabase)
	})

	return r
}
