package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/mw"
)

func init() { Register("health", registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	restricted := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	restricted.Get("/healthz", handlers.Healthz(d))
	restricted.Get("/readyz", handlers.Readyz(d))

	// Operator routes exist only when an IP allow-list guards them.
	if len(d.AllowedCIDRS) > 0 {
		restricted.Delete("/metadata-cache", handlers.FlushMetadataCache(d))
	}
}
