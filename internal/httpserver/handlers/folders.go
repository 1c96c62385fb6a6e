package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/drivemark/internal/docstore"
	"github.com/MrSnakeDoc/drivemark/internal/domain"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
)

type passwordRequest struct {
	Password string `json:"password" validate:"required"`
}

// Folder responses never carry the password hash.

func ListFolders(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		folders, err := d.Store.ListFolders(r.Context(), acct)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Folder, 0, len(folders))
		for _, f := range folders {
			out = append(out, f.Public())
		}
		return out, nil
	})
}

func CreateFolder(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusCreated, func(r *http.Request, acct *docstore.Account) (any, error) {
		var f domain.Folder
		if err := decodeValid(d, r, &f); err != nil {
			return nil, err
		}
		return public(d.Store.CreateFolder(r.Context(), acct, &f))
	})
}

func UpdateFolder(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		var f domain.Folder
		if err := decodeValid(d, r, &f); err != nil {
			return nil, err
		}
		return public(d.Store.UpdateFolder(r.Context(), acct, chi.URLParam(r, "id"), &f))
	})
}

func DeleteFolder(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusNoContent, func(r *http.Request, acct *docstore.Account) (any, error) {
		return nil, d.Store.DeleteFolder(r.Context(), acct, chi.URLParam(r, "id"))
	})
}

func LockFolder(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		var req passwordRequest
		if err := decodeValid(d, r, &req); err != nil {
			return nil, err
		}
		return public(d.Store.LockFolder(r.Context(), acct, chi.URLParam(r, "id"), req.Password))
	})
}

func UnlockFolder(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		var req passwordRequest
		if err := decodeValid(d, r, &req); err != nil {
			return nil, err
		}
		return public(d.Store.UnlockFolder(r.Context(), acct, chi.URLParam(r, "id"), req.Password))
	})
}

func public(f *domain.Folder, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return f.Public(), nil
}
