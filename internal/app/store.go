package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/connect"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/redis"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
	"github.com/MrSnakeDoc/bookmarks/internal/store/memory"
	"github.com/MrSnakeDoc/bookmarks/internal/store/postgres"
	redisstore "github.com/MrSnakeDoc/bookmarks/internal/store/redis"
	"github.com/MrSnakeDoc/bookmarks/internal/utils"
)

// openStore builds the storage driver selected by BOOKMARKS_STORE and
// fails fast if the backend never becomes reachable.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, error) {
	log = log.With(logger.String("component", "store"), logger.String("driver", cfg.StoreDriver))

	switch cfg.StoreDriver {
	case store.DriverPostgres:
		log.Info("Connecting to PostgreSQL")
		pg, err := postgres.New(ctx, postgres.ConnectOptions{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    int32(cfg.DBMaxConns),
			Retry: connect.Options{
				ConnectTimeout: cfg.DBConnTimeout,
				RetryInterval:  cfg.DBRetryInterv,
				MaxWait:        cfg.DBMaxWait,
				PingTimeout:    cfg.DBPingTimeout,
				WarnThreshold:  cfg.DBWarnThresh,
			},
		}, log)
		if err != nil {
			return nil, err
		}

		if cfg.AutoMigrate {
			if err := pg.Migrate(ctx); err != nil {
				utils.Close(pg)
				return nil, fmt.Errorf("migrate: %w", err)
			}
			log.Info("database schema up to date")
		}
		return pg, nil

	case store.DriverRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:         cfg.RedisAddr,
			User:         cfg.RedisUser,
			Password:     cfg.RedisPassword,
			RedisDB:      cfg.RedisDB,
			DialTimeout:  cfg.RedisDT,
			ReadTimeout:  cfg.RedisRT,
			WriteTimeout: cfg.RedisWT,
			PoolSize:     cfg.RedisPoolSize,
			Retry: connect.Options{
				ConnectTimeout: cfg.RedisConnectTimeout,
				RetryInterval:  cfg.RedisRetryInterval,
				MaxWait:        cfg.RedisMaxWait,
				PingTimeout:    cfg.RedisPingTimeout,
				WarnThreshold:  cfg.RedisWarnThreshold,
			},
		}, log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client), nil

	case store.DriverMemory:
		log.Warn("using in-memory store, bookmarks are lost on restart")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
