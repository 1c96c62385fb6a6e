package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/drivemark/internal/auth"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

type userResponse struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Picture       string `json:"picture,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

type authStatusResponse struct {
	Authenticated bool `json:"authenticated"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// AuthUser returns the signed-in user, or JSON null without a session.
func AuthUser(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := auth.FromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeJSON(w, http.StatusOK, userResponse{
			Name:          sess.Name,
			Email:         sess.Email,
			Picture:       sess.Picture,
			Authenticated: true,
		})
	}
}

func AuthStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := auth.FromContext(r.Context())
		writeJSON(w, http.StatusOK, authStatusResponse{Authenticated: ok})
	}
}

func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := auth.FromContext(r.Context())
		if err := d.Auth.Logout(r.Context(), w, sess); err != nil {
			d.Logger.Warn("delete session failed", logger.Error(err))
		}
		if sess != nil {
			d.Logger.Info("user logged out", logger.String("email", sess.Email))
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
	}
}

// Login redirects the browser to Google's consent screen.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := d.Auth.LoginURL(r.Context())
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// OAuthCallback completes the login, sets the session cookie and hands
// over to the Drive initialization page.
func OAuthCallback(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if e := q.Get("error"); e != "" {
			d.Logger.Warn("oauth login refused", logger.String("error", e))
			http.Redirect(w, r, frontend(d, "/login?error="+url.QueryEscape(e)), http.StatusFound)
			return
		}

		sess, err := d.Auth.Complete(r.Context(), q.Get("state"), q.Get("code"))
		if err != nil {
			d.Logger.Warn("oauth login failed", logger.Error(err))
			http.Redirect(w, r, frontend(d, "/login?error=login_failed"), http.StatusFound)
			return
		}

		d.Auth.SetCookie(w, sess)
		http.Redirect(w, r, "/api/drive/init-and-redirect", http.StatusFound)
	}
}

// FrontendRedirect sends the browser to path on the frontend.
func FrontendRedirect(d deps.Deps, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, frontend(d, path), http.StatusFound)
	}
}

func frontend(d deps.Deps, path string) string {
	return strings.TrimRight(d.FrontendURL, "/") + path
}
