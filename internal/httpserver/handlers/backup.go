package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/drivemark/internal/docstore"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
)

func ListBackups(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		return d.Store.ListBackups(r.Context(), acct)
	})
}

func CreateBackup(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusCreated, func(r *http.Request, acct *docstore.Account) (any, error) {
		return d.Store.CreateBackup(r.Context(), acct)
	})
}

func DeleteBackup(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusNoContent, func(r *http.Request, acct *docstore.Account) (any, error) {
		return nil, d.Store.DeleteBackup(r.Context(), acct, chi.URLParam(r, "name"))
	})
}

func RestoreBackup(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		name := chi.URLParam(r, "name")
		if err := d.Store.RestoreBackup(r.Context(), acct, name); err != nil {
			return nil, err
		}
		return statusResponse{Status: "success", Message: "Restored " + name}, nil
	})
}
