package seed

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/sources/seedfile"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// Seeder imports bookmarks from a YAML file into an empty store on startup.
type Seeder struct {
	loader *seedfile.Loader
	store  store.Store
	logger logger.Logger
}

// NewSeeder creates a new seeder. Its log lines carry component=seed.
func NewSeeder(seedFile string, s store.Store, log logger.Logger) *Seeder {
	return &Seeder{
		loader: seedfile.NewLoader(seedFile),
		store:  s,
		logger: log.With(logger.String("component", "seed"), logger.String("file", seedFile)),
	}
}

// Seed loads the seed file and inserts its bookmarks when the store holds
// none, so restarts never duplicate rows. It returns the number inserted.
func (sd *Seeder) Seed(ctx context.Context) (int, error) {
	existing, err := sd.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	if len(existing) > 0 {
		sd.logger.Info("store already has bookmarks, skipping seed",
			logger.Int("count", len(existing)))
		return 0, nil
	}

	cfg, err := sd.loader.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load seed file: %w", err)
	}

	bookmarks, rejected, err := seedfile.MapBookmarks(cfg)
	for _, r := range rejected {
		sd.logger.Warn("skipping invalid seed bookmark",
			logger.Int("index", r.Index),
			logger.String("title", r.Title),
			logger.Error(r.Err))
	}
	if err != nil {
		return 0, fmt.Errorf("failed to map seed bookmarks: %w", err)
	}

	inserted := 0
	for _, nb := range bookmarks {
		b, err := sd.store.Insert(ctx, nb)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert seed bookmark %q: %w", nb.Title, err)
		}
		sd.logger.Debug("seeded bookmark",
			logger.String("id", b.ID),
			logger.String("title", b.Title))
		inserted++
	}

	sd.logger.Info("seeded bookmarks from file",
		logger.Int("count", inserted))

	return inserted, nil
}
