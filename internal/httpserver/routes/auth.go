package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/handlers"
)

func init() { Register("auth", registerAuth) }

// Auth routes work with or without a session.
func registerAuth(r chi.Router, d deps.Deps) {
	r.Get("/auth/user", handlers.AuthUser(d))
	r.Get("/auth/status", handlers.AuthStatus(d))
	r.Post("/auth/logout", handlers.Logout(d))

	r.Get("/oauth2/authorization/google", handlers.Login(d))
	r.Get("/login/oauth2/code/google", handlers.OAuthCallback(d))

	// Browser navigation: without a session it lands on the login page.
	r.Get("/drive/init-and-redirect", handlers.DriveInitAndRedirect(d))
}
