package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"userdash/internal/http/handlers/health"
	usershandler "userdash/internal/http/handlers/users"
	"userdash/internal/http/responses"
	"userdash/internal/logging"
)

func NewRouter(
	logger logging.Logger,
	serviceName string,
	healthHandler *health.Handler,
	usersHandler *usershandler.Handler,
) chi.Router {
	r := chi.NewRouter()

	useBaseMiddlewares(r, logger, serviceName)

	r.Route("/api/v1", func(r chi.Router) {
		// Health
		r.Get("/health", healthHandler.Check)

		// User list + detail views and their intents
		r.Route("/users", func(r chi.Router) {
			r.Get("/", usersHandler.List)
			r.Post("/", usersHandler.Create)
			r.Post("/reload", usersHandler.Reload)

			// Local-only mutations: these never reach the directory.
			r.Post("/local", usersHandler.AddLocal)
			r.Put("/local/{id}", usersHandler.UpdateLocal)
			r.Delete("/local/{id}", usersHandler.RemoveLocal)

			r.Get("/{id}", usersHandler.GetByID)
			r.Put("/{id}", usersHandler.Update)
			r.Delete("/{id}", usersHandler.Delete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteNotFound(w, r)
	})

	return r
}
