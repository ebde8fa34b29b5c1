// Package store defines the bookmark storage contract shared by every driver.
package store

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

var (
	// ErrNotFound is the absent result of Get: no bookmark has that id.
	ErrNotFound = errors.New("bookmark not found")
	// ErrConstraint is returned when the backend rejects a row (check or unique violation).
	ErrConstraint = errors.New("constraint violation")
)

// Store is the storage accessor for the bookmarks table.
// Any error other than ErrNotFound/ErrConstraint is a storage failure.
type Store interface {
	// List returns every bookmark in creation order.
	List(ctx context.Context) ([]domain.Bookmark, error)
	// Get returns the bookmark with id or ErrNotFound.
	Get(ctx context.Context, id string) (domain.Bookmark, error)
	// Insert persists nb under a freshly generated id and returns the stored record.
	Insert(ctx context.Context, nb domain.NewBookmark) (domain.Bookmark, error)
	// Delete removes the bookmark with id and reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// Drivers accepted by BOOKMARKS_STORE.
const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)
