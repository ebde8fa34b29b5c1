package deps

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

type Deps struct {
	Logger          logger.Logger
	Store           store.Store // bookmark storage driver (postgres, redis or memory)
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	BasePath        string        // shared route prefix, used to build Location headers
	APIToken        string        // bearer token for /bookmarks, empty disables the check
	AllowedHosts    []string      // Host headers allowed to access /bookmarks
	AllowedCIDRS    []string      // IPs allowed to access healthz/readyz/metrics endpoints
	TrustProxy      bool          // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateLimitBurst  int           // token bucket capacity per client IP
	RateLimitPerMin int           // refill per client IP per minute, 0 disables rate limiting
	RateLimitMaxIPs int           // tracked IPs before an early sweep
	PingTimeout     time.Duration // readyz store ping deadline
	MaxBodyBytes    int64         // max accepted request body size, 0 = unlimited

	// Metrics is nil when metrics are disabled.
	Metrics *prometheus.Registry
}
