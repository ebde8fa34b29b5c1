package domain

import "time"

// Bookmark is a persisted bookmark record as returned by a store.
// Text fields are stored raw; Serialize produces the client-safe form.
type Bookmark struct {
	// ID is assigned by the store on insert and never changes.
	ID string

	// Title is the human label. Never empty for records created over HTTP.
	Title string

	// URL is the bookmarked resource locator.
	URL string

	// Description is optional free text, possibly containing markup.
	Description string

	// Rating is an integer in [MinRating, MaxRating].
	Rating int

	// CreatedAt is set by the store and drives listing order.
	CreatedAt time.Time
}

// NewBookmark holds validated fields for an insert.
type NewBookmark struct {
	Title       string
	URL         string
	Description string
	Rating      int
}

const (
	MinRating = 0
	MaxRating = 5
)
