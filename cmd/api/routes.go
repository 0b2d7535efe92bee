package main

import (
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	router := chi.NewRouter()

	// Router
	router.NotFound(app.notFoundResponse)
	router.MethodNotAllowed(app.methodNotAllowedResponse)

	// Middleware
	router.Use(app.metrics)
	router.Use(app.recoverPanic)
	router.Use(app.enableCORS)
	router.Use(app.rateLimit)

	// Healthcheck
	router.Get("/v1/healthcheck", app.HealthCheck)
	router.Method(http.MethodGet, "/v1/metrics", expvar.Handler())

	// Player Endpoints
	router.Route("/v1/player", func(router chi.Router) {
		router.Post("/", app.InsertPlayer)
		router.Get("/", app.GetAllPlayers)
		router.Get("/{id}", app.GetPlayer)
		router.Delete("/{id}", app.DeletePlayer)
		router.Get("/{id}/stats", app.GetPlayerStats)
	})

	// Game Endpoints
	router.Route("/v1/game", func(router chi.Router) {
		router.Post("/", app.InsertGame)
		router.Get("/", app.GetAllGames)
		router.Get("/{id}", app.GetGame)
		router.Patch("/{id}/roles", app.AssignGameRoles)
		router.Post("/{id}/close", app.CloseGame)

		router.Post("/{id}/event", app.SubmitGameEvent)
		router.Get("/{id}/event", app.GetGameEvents)
		router.Get("/{id}/snapshot", app.GetGameSnapshot)
		router.Get("/{id}/stats", app.GetGameStats)
		router.Get("/{id}/export", app.ExportGameEvents)
	})

	return router
}
