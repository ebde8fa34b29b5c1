package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/mw"
)

func init() { Register(registerProbes) }

// registerProbes mounts the operator endpoints. They share the CIDR filter
// and never sit behind the bearer token, so a proxy can poll them without
// the bookmarks secret.
func registerProbes(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))

		r.Get("/healthz", handlers.Healthz(d))
		r.Get("/readyz", handlers.Readyz(d))
		if d.Metrics != nil {
			r.Handle("/metrics", promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{}))
		}
	})
}
