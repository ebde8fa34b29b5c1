package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/bookmarks", func(r chi.Router) {
		r.Use(
			mw.EnforceHost(d.AllowedHosts, d.Logger),
			mw.RateLimit(mw.RateLimitConfig{
				Burst:      d.RateLimitBurst,
				PerMinute:  d.RateLimitPerMin,
				MaxClients: d.RateLimitMaxIPs,
				TrustProxy: d.TrustProxy,
				Logger:     d.Logger,
			}),
			mw.BearerAuth(d.APIToken, d.Logger),
		)

		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.CreateBookmark(d))

		resolve := handlers.ResolveBookmark(d)
		r.With(resolve).Get("/{id}", handlers.GetBookmark(d))
		r.With(resolve).Delete("/{id}", handlers.DeleteBookmark(d))
	})
}
