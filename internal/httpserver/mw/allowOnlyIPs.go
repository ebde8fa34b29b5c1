package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// AllowOnlyCIDRS restricts the probe endpoints to the listed IPs/CIDRs.
// An empty list, or one with no valid entry, disables the filter.
// trustProxy should be true when running behind a trusted reverse proxy/tunnel (e.g., cloudflared).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	set, skipped := parsePrefixSet(allowed)
	for _, s := range skipped {
		log.Warn("ignoring invalid allowed CIDR", logger.String("entry", s))
	}
	if len(set) == 0 {
		log.Debug("AllowOnlyCIDRS: no rules, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debugf("AllowOnlyCIDRS: initialized with %d rules, trustProxy=%v", len(set), trustProxy)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := clientAddr(r, trustProxy)
			if !set.contains(addr) {
				log.Debug("AllowOnlyCIDRS: rejected",
					logger.String("client_ip", clientKey(r, trustProxy)),
					logger.String("path", r.URL.Path),
				)
				handlers.WriteError(w, http.StatusForbidden, MsgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
