package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/drivemark/internal/docstore"
	"github.com/MrSnakeDoc/drivemark/internal/domain"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
)

func ListTags(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		return d.Store.ListTags(r.Context(), acct)
	})
}

func CreateTag(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusCreated, func(r *http.Request, acct *docstore.Account) (any, error) {
		var t domain.Tag
		if err := decodeValid(d, r, &t); err != nil {
			return nil, err
		}
		return d.Store.CreateTag(r.Context(), acct, &t)
	})
}

func DeleteTag(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusNoContent, func(r *http.Request, acct *docstore.Account) (any, error) {
		return nil, d.Store.DeleteTag(r.Context(), acct, chi.URLParam(r, "id"))
	})
}
