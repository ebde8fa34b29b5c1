package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store"`
	Error string `json:"error,omitempty"`
}

// Readyz reports whether the storage driver answers a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	timeout := d.PingTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			WriteJSON(w, http.StatusServiceUnavailable, readyzResponse{
				Ready: false,
				Store: "unreachable",
				Error: "store ping failed",
			})
			return
		}

		WriteJSON(w, http.StatusOK, readyzResponse{Ready: true, Store: "ok"})
	}
}
