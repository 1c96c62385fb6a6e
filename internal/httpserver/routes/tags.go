package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/drivemark/internal/auth"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/handlers"
)

func init() { Register("tags", registerTags, auth.RequireSession) }

func registerTags(r chi.Router, d deps.Deps) {
	r.Get("/tags", handlers.ListTags(d))
	r.Post("/tags", handlers.CreateTag(d))
	r.Delete("/tags/{id}", handlers.DeleteTag(d))
}
