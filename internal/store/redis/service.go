package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// Store implements store.Store on Redis.
// Each bookmark is a JSON string value; a sorted set scored by creation
// time keeps List in insertion order.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ store.Store = (*Store)(nil)
