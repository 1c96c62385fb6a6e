package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/drivemark/internal/auth"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/handlers"
)

func init() { Register("folders", registerFolders, auth.RequireSession) }

func registerFolders(r chi.Router, d deps.Deps) {
	r.Get("/folders", handlers.ListFolders(d))
	r.Post("/folders", handlers.CreateFolder(d))
	r.Put("/folders/{id}", handlers.UpdateFolder(d))
	r.Delete("/folders/{id}", handlers.DeleteFolder(d))
	r.Put("/folders/{id}/lock", handlers.LockFolder(d))
	r.Put("/folders/{id}/unlock", handlers.UnlockFolder(d))
}
