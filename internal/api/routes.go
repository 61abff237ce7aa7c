package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func SetupRoutes(handler *Handler, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	for _, middleware := range SetupMiddleware(handler.logger, requestTimeout) {
		r.Use(middleware)
	}

	// JSON content type
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", handler.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/terrains", handler.ListTerrains)

		// Live world
		r.Route("/world", func(r chi.Router) {
			r.Post("/", handler.GenerateWorld)
			r.Get("/", handler.GetWorld)
			r.Get("/tiles", handler.GetTiles)
			r.Get("/tiles/{x}/{y}", handler.GetTile)
			r.Post("/paths", handler.FindPath)
		})

		// Saved worlds
		r.Route("/worlds", func(r chi.Router) {
			r.Get("/", handler.ListWorlds)
			r.Get("/{id}", handler.GetSavedWorld)
			r.Post("/{id}/load", handler.LoadWorld)
			r.Delete("/{id}", handler.DeleteWorld)
		})
	})

	return r
}
