package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/drivemark/internal/docstore"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DriveInit creates the container folder and, when missing, the seeded
// data file.
func DriveInit(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		if _, err := d.Store.Initialize(r.Context(), acct); err != nil {
			return nil, err
		}
		return statusResponse{Status: "success", Message: "Google Drive structure initialized successfully"}, nil
	})
}

var redirectPage = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html><head><title>Redirecting...</title></head>
<body><script>window.location.replace({{.}});</script>
<noscript>Please <a href="{{.}}">click here</a> to continue.</noscript>
</body></html>`))

// DriveInitAndRedirect initializes the Drive structure and sends the
// browser to the frontend with a history-replacing script page, so the
// back button does not return to the API.
func DriveInitAndRedirect(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := strings.TrimRight(d.FrontendURL, "/")

		acct, err := openAccount(d, r)
		if err == nil {
			_, err = d.Store.Initialize(r.Context(), acct.Account)
			acct.save(d, r)
		}
		if err != nil {
			d.Logger.Error("drive initialization failed", logger.Error(err))
			target += "/login?error=drive_init_failed"
		} else {
			d.Logger.Info("drive initialized, redirecting to frontend")
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = redirectPage.Execute(w, target)
	}
}

// DriveSync always reports success; there is nothing to reconcile
// because every request reads and writes the remote file directly.
func DriveSync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Synchronization completed"})
	}
}
