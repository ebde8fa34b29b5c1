package mw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// BearerAuth requires "Authorization: Bearer <token>".
// If token is empty, it acts as a passthrough.
func BearerAuth(token string, log logger.Logger) func(http.Handler) http.Handler {
	if token == "" {
		log.Debug("BearerAuth: no token configured, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	want := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				log.Warn("unauthorized request",
					logger.String("method", r.Method),
					logger.String("path", r.URL.Path))
				handlers.WriteError(w, http.StatusUnauthorized, handlers.MsgUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, tok, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
