package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// record is the JSON document stored under BookmarkKey(id).
type record struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRecord(b domain.Bookmark) record {
	return record{
		ID:          b.ID,
		Title:       b.Title,
		URL:         b.URL,
		Description: b.Description,
		Rating:      b.Rating,
		CreatedAt:   b.CreatedAt,
	}
}

func (r record) bookmark() domain.Bookmark {
	return domain.Bookmark{
		ID:          r.ID,
		Title:       r.Title,
		URL:         r.URL,
		Description: r.Description,
		Rating:      r.Rating,
		CreatedAt:   r.CreatedAt,
	}
}

// Insert stores a new bookmark and indexes it in one MULTI/EXEC.
func (s *Store) Insert(ctx context.Context, nb domain.NewBookmark) (domain.Bookmark, error) {
	const op = "store.redis.Insert"

	b := domain.Bookmark{
		ID:          uuid.NewString(),
		Title:       nb.Title,
		URL:         nb.URL,
		Description: nb.Description,
		Rating:      nb.Rating,
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(toRecord(b))
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("%s: failed to marshal bookmark: %w", op, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, BookmarkKey(b.ID), data, 0)
		pipe.ZAdd(ctx, IndexKey(), redis.Z{Score: float64(b.CreatedAt.UnixNano()), Member: b.ID})
		return nil
	})
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("%s: failed to save bookmark: %w", op, err)
	}

	return b, nil
}

// Get retrieves a bookmark from Redis by ID
func (s *Store) Get(ctx context.Context, id string) (domain.Bookmark, error) {
	const op = "store.redis.Get"

	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Bookmark{}, fmt.Errorf("%s: %w", op, store.ErrNotFound)
		}
		return domain.Bookmark{}, fmt.Errorf("%s: failed to get bookmark: %w", op, err)
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.Bookmark{}, fmt.Errorf("%s: failed to unmarshal bookmark: %w", op, err)
	}

	return r.bookmark(), nil
}

// List retrieves all bookmarks in creation order with a single MGET.
func (s *Store) List(ctx context.Context) ([]domain.Bookmark, error) {
	const op = "store.redis.List"

	ids, err := s.client.ZRange(ctx, IndexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get bookmark IDs: %w", op, err)
	}

	bookmarks := make([]domain.Bookmark, 0, len(ids))
	if len(ids) == 0 {
		return bookmarks, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = BookmarkKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get bookmarks: %w", op, err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a value: deleted between ZRANGE and MGET.
			continue
		}
		var r record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("%s: failed to unmarshal bookmark %s: %w", op, ids[i], err)
		}
		bookmarks = append(bookmarks, r.bookmark())
	}

	return bookmarks, nil
}

// Delete removes a bookmark and its index entry.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	const op = "store.redis.Delete"

	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, BookmarkKey(id))
		pipe.ZRem(ctx, IndexKey(), id)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%s: failed to delete bookmark: %w", op, err)
	}

	return del.Val() > 0, nil
}
