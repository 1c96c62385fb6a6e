package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/drivemark/internal/auth"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/handlers"
)

func init() { Register("drive", registerDrive, auth.RequireSession) }

func registerDrive(r chi.Router, d deps.Deps) {
	r.Get("/drive/init", handlers.DriveInit(d))
	r.Post("/drive/sync", handlers.DriveSync(d))
	r.Post("/sync", handlers.DriveSync(d))

	r.Get("/backup", handlers.ListBackups(d))
	r.Post("/backup", handlers.CreateBackup(d))
	r.Delete("/backup/{name}", handlers.DeleteBackup(d))
	r.Post("/backup/{name}/restore", handlers.RestoreBackup(d))
}
