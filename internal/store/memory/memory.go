package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// Store keeps bookmarks in process memory.
// It is the single source of truth when BOOKMARKS_STORE=memory (dev and tests);
// nothing survives a restart.
type Store struct {
	mu        sync.RWMutex
	bookmarks map[string]domain.Bookmark // ID -> Bookmark
	order     []string                   // insertion order
	now       func() time.Time
}

// New creates an empty memory store.
func New() *Store {
	return &Store{
		bookmarks: make(map[string]domain.Bookmark),
		now:       time.Now,
	}
}

// List returns all bookmarks in insertion order.
func (s *Store) List(_ context.Context) ([]domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Bookmark, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.bookmarks[id])
	}
	return out, nil
}

// Get retrieves a bookmark by ID
func (s *Store) Get(_ context.Context, id string) (domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return domain.Bookmark{}, store.ErrNotFound
	}
	return b, nil
}

// Insert stores a new bookmark under a random UUID.
func (s *Store) Insert(_ context.Context, nb domain.NewBookmark) (domain.Bookmark, error) {
	b := domain.Bookmark{
		ID:          uuid.NewString(),
		Title:       nb.Title,
		URL:         nb.URL,
		Description: nb.Description,
		Rating:      nb.Rating,
		CreatedAt:   s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookmarks[b.ID] = b
	s.order = append(s.order, b.ID)
	return b, nil
}

// Delete removes a bookmark; false means the id was unknown.
func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookmarks[id]; !ok {
		return false, nil
	}
	delete(s.bookmarks, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Count returns the number of stored bookmarks
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.bookmarks)
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }

var _ store.Store = (*Store)(nil)
