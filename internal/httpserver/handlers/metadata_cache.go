package handlers

import (
	"net/http"

	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
)

// FlushMetadataCache drops every cached page preview.
func FlushMetadataCache(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.MetadataCache == nil {
			writeError(w, r, d.Logger, apperr.NotFound("metadata cache is disabled"))
			return
		}
		if err := d.MetadataCache.FlushMetadata(r.Context()); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		d.Logger.Info("metadata cache flushed")
		w.WriteHeader(http.StatusNoContent)
	}
}
