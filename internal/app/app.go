package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/seed"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
	"github.com/MrSnakeDoc/bookmarks/internal/utils"
	"github.com/MrSnakeDoc/bookmarks/internal/version"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	server *httpserver.Server
	store  store.Store
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize storage early - fail fast if unavailable
	st, err := openStore(context.Background(), cfg, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}
	loggerClient.Info("store initialized successfully", logger.String("driver", cfg.StoreDriver))

	if cfg.SeedFile != "" {
		n, err := seed.NewSeeder(cfg.SeedFile, st, loggerClient).Seed(context.Background())
		if err != nil {
			utils.Close(st)
			return nil, fmt.Errorf("failed to seed bookmarks: %w", err)
		}
		loggerClient.Info("seed file processed",
			logger.String("file", cfg.SeedFile),
			logger.Int("inserted", n))
	}

	var reg *prometheus.Registry
	if cfg.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	// Dependencies passed to routes.
	d := deps.Deps{
		Logger:          loggerClient.With(logger.String("component", "http")),
		Store:           st,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		BasePath:        cfg.BasePath,
		APIToken:        cfg.APIToken,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
		RateLimitMaxIPs: cfg.RateLimitMaxIPs,
		PingTimeout:     2 * time.Second,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		Metrics:         reg,
	}

	if cfg.APIToken == "" {
		loggerClient.Warn("BOOKMARKS_API_TOKEN not set, /bookmarks relies on upstream authentication")
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:    cfg,
		logger: loggerClient,
		server: server,
		store:  st,
	}, nil
}

func (a *App) Run() error {
	defer func() { _ = a.logger.Sync() }()

	a.logger.Infof("🚀 Starting bookmarks v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("bookmarks %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		utils.MustClose(a.store, a.cfg.StoreDriver+" store", a.logger)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if utils.MustClose(a.store, a.cfg.StoreDriver+" store", a.logger) {
		a.logger.Info("✅ Store closed cleanly", logger.String("driver", a.cfg.StoreDriver))
	}

	a.logger.Info("✅ bookmarks stopped cleanly")
	return nil
}
