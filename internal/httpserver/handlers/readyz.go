package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

type readyzResponse struct {
	Ready    bool   `json:"ready"`
	Sessions string `json:"sessions"`
}

// Readyz reports ready once the session store answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.Auth.Sessions().Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Sessions: "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Sessions: "ok"})
	}
}
